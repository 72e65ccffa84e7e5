/*
Package user User subdomain.

A User is addressed only by its natural key (userId). Orders reference users
through Ref, never by embedding the full record.
*/
package user

import (
	"regexp"
	"strings"

	"ordercore/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User user record
type User struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Ref reference to a user by natural key
type Ref struct {
	UserID string `json:"userId"`
}

// NewUser Create a user after normalizing and validating the email
func NewUser(userID, email string) (*User, error) {
	u := &User{UserID: strings.TrimSpace(userID), Email: normalizeEmail(email)}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the natural key and the email format
func (u *User) Validate() error {
	if u.UserID == "" {
		return NewInvalidUserIDError()
	}
	if !emailRegex.MatchString(u.Email) {
		return NewInvalidEmailError(u.Email)
	}
	return nil
}

// NaturalKey implements shared.Entity
func (u *User) NaturalKey() string {
	return u.UserID
}

// Ref returns a reference to this user
func (u *User) Ref() Ref {
	return Ref{UserID: u.UserID}
}

// Clone returns a copy safe to hand out from in-memory stores
func (u *User) Clone() *User {
	c := *u
	return &c
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

var _ shared.Entity = (*User)(nil)

// IDs extracts the user ids of a list of references
func IDs(refs []Ref) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.UserID
	}
	return ids
}
