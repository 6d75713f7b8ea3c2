package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("user: not found")

type ID string

// User is owned by the accounts service; the engine reads guests and hosts
// only to resolve display names and contact addresses.
type User struct {
	ID            ID
	FirstName     string
	LastName      string
	ContactEmails []string
	CreatedAt     time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PrimaryEmail returns the first contact address. A user without one is not
// an error condition; notifications are simply skipped.
func (u *User) PrimaryEmail() (string, bool) {
	if len(u.ContactEmails) == 0 {
		return "", false
	}
	return u.ContactEmails[0], true
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	Save(ctx context.Context, user *User) error
}
