package auth

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives an avatar URL from an email address, content-addressed
// per the Gravatar protocol: md5 of the trimmed, lowercased email. No network
// call is made; the parameters request a 200px, PG-rated image with the
// "mystery man" fallback.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
