package domain

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// User field limits.
const (
	UsernameMaxLength = 150
	PasswordMaxLength = 128
)

// UsernamePattern matches the characters a username may contain.
var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_@.+-]+$`)

// User represents a registered account.
type User struct {
	ID             int64
	Username       string
	HashedPassword string // never serialized
	DateJoined     time.Time
}

// ValidateCredentials records violations of the registration rules for a
// username and plaintext password. Nil pointers mean the field was absent.
func ValidateCredentials(username, password *string, v *ValidationError) {
	switch {
	case username == nil:
		if !v.Has("username") {
			v.Add("username", MsgRequired)
		}
	case *username == "":
		v.Add("username", MsgBlank)
	default:
		if utf8.RuneCountInString(*username) > UsernameMaxLength {
			v.Add("username", MsgMaxLength(UsernameMaxLength))
		}
		if !UsernamePattern.MatchString(*username) {
			v.Add("username", MsgInvalidUsername)
		}
	}

	switch {
	case password == nil:
		if !v.Has("password") {
			v.Add("password", MsgRequired)
		}
	case *password == "":
		v.Add("password", MsgBlank)
	case utf8.RuneCountInString(*password) > PasswordMaxLength:
		v.Add("password", MsgMaxLength(PasswordMaxLength))
	}
}

// NewUser creates a user with an already hashed password.
func NewUser(username, hashedPassword string, now time.Time) (*User, error) {
	var v ValidationError
	ValidateCredentials(&username, &hashedPassword, &v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return &User{
		Username:       username,
		HashedPassword: hashedPassword,
		DateJoined:     Timestamp(now),
	}, nil
}
