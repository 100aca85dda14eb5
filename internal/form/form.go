// Package form validates user input before it reaches the backend.
package form

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MsgRequired is shown when any required field is blank.
const MsgRequired = "PLEASE FILL ALL FIELDS"

// MinPasswordLen is the shortest password accepted at sign-up.
const MinPasswordLen = 8

// MaxTitleLen is the longest draft title the backend accepts.
const MaxTitleLen = 248

// Error is a validation failure on one field.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func required(fields ...string) error {
	for _, f := range fields {
		if blank(f) {
			return &Error{Msg: MsgRequired}
		}
	}
	return nil
}

// Login checks the sign-in form.
func Login(username, password string) error {
	return required(username, password)
}

// Registration is the sign-up form, including the confirmation field.
type Registration struct {
	Name     string
	Email    string
	PhoneNum string
	Password string
	Confirm  string
}

// Validate checks the sign-up form.
func (r Registration) Validate() error {
	if err := required(r.Name, r.Email, r.PhoneNum, r.Password, r.Confirm); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &Error{Field: "email", Msg: "not a valid email address"}
	}
	phone := strings.TrimPrefix(strings.TrimSpace(r.PhoneNum), "+")
	for _, c := range phone {
		if !unicode.IsDigit(c) {
			return &Error{Field: "phone", Msg: "digits only"}
		}
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLen {
		return &Error{Field: "password", Msg: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	if r.Password != r.Confirm {
		return &Error{Field: "password", Msg: "passwords do not match"}
	}
	return nil
}

// Draft checks the add and update draft forms.
func Draft(title, content string) error {
	if err := required(title, content); err != nil {
		return err
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return &Error{Field: "title", Msg: fmt.Sprintf("longer than %d characters", MaxTitleLen)}
	}
	return nil
}
