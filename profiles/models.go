// Package profiles manages developer profiles: the one-per-user profile
// document, its embedded experience and education lists, its social links,
// and the account deletion cascade.
package profiles

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// dateLayout is the wire format for experience/education dates.
const dateLayout = "2006-01-02"

// Date is a day-precision timestamp that marshals as "2006-01-02".
// Full RFC 3339 timestamps are accepted on input for client compatibility.
type Date struct {
	time.Time
}

// NewDate builds a Date from a time.Time.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// MarshalJSON renders the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON accepts "2006-01-02" or an RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: expected %s", s, dateLayout)
		}
	}
	d.Time = t
	return nil
}

// Owner is the denormalized slice of the owning user that profile reads join
// in: enough to render a profile card without a second lookup.
type Owner struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Experience is one entry of a profile's work history. Entries are ordered
// newest-first and carry a stable id for later removal.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    *string   `json:"location,omitempty"`
	From        Date      `json:"from"`
	To          *Date     `json:"to,omitempty"`
	Current     bool      `json:"current"`
	Description *string   `json:"description,omitempty"`
}

// Education is one entry of a profile's education history.
type Education struct {
	ID           uuid.UUID `json:"id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldofstudy"`
	From         Date      `json:"from"`
	To           *Date     `json:"to,omitempty"`
	Current      bool      `json:"current"`
	Description  *string   `json:"description,omitempty"`
}

// Social holds the optional per-platform profile links.
type Social struct {
	Youtube   *string `json:"youtube,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	Linkedin  *string `json:"linkedin,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
}

// Profile is a user's extended public record. At most one profile exists per
// user; the uniqueness is enforced by the database.
type Profile struct {
	ID             int          `json:"id"`
	User           Owner        `json:"user"`
	Company        *string      `json:"company,omitempty"`
	Website        *string      `json:"website,omitempty"`
	Location       *string      `json:"location,omitempty"`
	Bio            *string      `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GithubUsername *string      `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
