// Package forms holds the input models of the dashboard's dialogs, their
// validation rules and the terminal prompts that fill them in.
package forms

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

// Err returns nil when there are no field errors.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

type Credentials struct {
	Username string
	Password string
}

type Registration struct {
	Username        string
	Password        string
	ConfirmPassword string
	TermsAccepted   bool
}

func ValidateLogin(c Credentials) FieldErrors {
	errs := FieldErrors{}
	if c.Username == "" {
		errs["username"] = "Username is required"
	}
	if c.Password == "" {
		errs["password"] = "Password is required"
	} else if utf8.RuneCountInString(c.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

func ValidateSignup(r Registration) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = "Username is required"
	}

	switch {
	case r.Password == "":
		errs["password"] = "Password is required"
	case utf8.RuneCountInString(r.Password) < 8:
		errs["password"] = "Password must be at least 8 characters"
	case !mixedCase(r.Password):
		errs["password"] = "Password must include uppercase, lowercase, and numbers"
	}

	if r.ConfirmPassword == "" {
		errs["confirmPassword"] = "Please confirm your password"
	} else if r.ConfirmPassword != r.Password {
		errs["confirmPassword"] = "Passwords do not match"
	}

	if !r.TermsAccepted {
		errs["termsAccepted"] = "You must accept the terms and conditions"
	}
	return errs
}

// mixedCase reports whether s has an ASCII lowercase letter, an ASCII
// uppercase letter and a digit.
func mixedCase(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}
