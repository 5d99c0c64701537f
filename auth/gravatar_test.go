package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	// md5("myemailaddress@example.com") is the documented gravatar example hash.
	got := GravatarURL("myemailaddress@example.com")
	assert.Equal(t,
		"https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=200&r=pg&d=mm",
		got)
}

func TestGravatarURLNormalizesEmail(t *testing.T) {
	base := GravatarURL("someone@example.com")
	assert.Equal(t, base, GravatarURL("SomeOne@Example.COM"))
	assert.Equal(t, base, GravatarURL("  someone@example.com  "))
}
