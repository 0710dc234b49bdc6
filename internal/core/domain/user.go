package domain

import (
	"strings"
	"time"
)

// Role is the authorization level attached to a user and to issued tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Gender is the self-reported gender of a user.
type Gender string

const (
	GenderMale         Gender = "MALE"
	GenderFemale       Gender = "FEMALE"
	GenderOther        Gender = "OTHER"
	GenderNotMentioned Gender = "NOT_MENTIONED"
)

// knownGenders maps lower-cased input to its Gender.
var knownGenders = map[string]Gender{
	"male":          GenderMale,
	"female":        GenderFemale,
	"other":         GenderOther,
	"not_mentioned": GenderNotMentioned,
}

// ParseGender maps free-form input to a Gender. Matching is case-insensitive.
// Empty input yields GenderNotMentioned; any other unrecognised value yields
// GenderOther.
func ParseGender(s string) Gender {
	s = strings.TrimSpace(s)
	if s == "" {
		return GenderNotMentioned
	}
	if g, ok := knownGenders[strings.ToLower(s)]; ok {
		return g
	}
	return GenderOther
}

// User is a registered account in the user directory.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Gender       Gender    `json:"gender"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
