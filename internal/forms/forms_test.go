package forms

import (
	"errors"
	"testing"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name string
		in   Credentials
		want FieldErrors
	}{
		{"ok", Credentials{"testuser", "password123"}, FieldErrors{}},
		{"missing both", Credentials{}, FieldErrors{
			"username": "Username is required",
			"password": "Password is required",
		}},
		{"short password", Credentials{"u", "12345"}, FieldErrors{
			"password": "Password must be at least 6 characters",
		}},
		{"six is enough", Credentials{"u", "123456"}, FieldErrors{}},
		{"counts characters", Credentials{"u", "héllo"}, FieldErrors{
			"password": "Password must be at least 6 characters",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateLogin(tt.in)
			if !equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	good := Registration{Username: "alice", Password: "Secret123", ConfirmPassword: "Secret123", TermsAccepted: true}

	tests := []struct {
		name  string
		edit  func(r *Registration)
		field string
		msg   string
	}{
		{"blank username", func(r *Registration) { r.Username = "   " }, "username", "Username is required"},
		{"no password", func(r *Registration) { r.Password, r.ConfirmPassword = "", "x" }, "password", "Password is required"},
		{"short", func(r *Registration) { r.Password, r.ConfirmPassword = "Ab1", "Ab1" }, "password", "Password must be at least 8 characters"},
		{"short multibyte", func(r *Registration) { r.Password, r.ConfirmPassword = "Abcdéf1", "Abcdéf1" }, "password", "Password must be at least 8 characters"},
		{"no digit", func(r *Registration) { r.Password, r.ConfirmPassword = "Abcdefgh", "Abcdefgh" }, "password", "Password must include uppercase, lowercase, and numbers"},
		{"no upper", func(r *Registration) { r.Password, r.ConfirmPassword = "abcdefg1", "abcdefg1" }, "password", "Password must include uppercase, lowercase, and numbers"},
		{"no confirmation", func(r *Registration) { r.ConfirmPassword = "" }, "confirmPassword", "Please confirm your password"},
		{"mismatch", func(r *Registration) { r.ConfirmPassword = "Secret124" }, "confirmPassword", "Passwords do not match"},
		{"terms", func(r *Registration) { r.TermsAccepted = false }, "termsAccepted", "You must accept the terms and conditions"},
	}

	if errs := ValidateSignup(good); len(errs) != 0 {
		t.Fatalf("valid registration rejected: %v", errs)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := good
			tt.edit(&r)
			errs := ValidateSignup(r)
			if errs[tt.field] != tt.msg {
				t.Errorf("%s = %q, want %q (all: %v)", tt.field, errs[tt.field], tt.msg, errs)
			}
		})
	}
}

func TestFieldErrorsErr(t *testing.T) {
	if (FieldErrors{}).Err() != nil {
		t.Error("empty FieldErrors should be a nil error")
	}

	err := FieldErrors{"password": "b", "username": "a"}.Err()
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if err.Error() != "b; a" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestParseAmount(t *testing.T) {
	for _, s := range []string{"", "  ", "abc", "0", "-5"} {
		if _, err := ParseAmount(s); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q) err = %v", s, err)
		}
	}
	d, err := ParseAmount(" 12.50 ")
	if err != nil || d.String() != "12.5" {
		t.Errorf("ParseAmount = %s, %v", d, err)
	}
}

func TestKindLabel(t *testing.T) {
	if got := KindWithdraw.Label(); got != "Withdraw" {
		t.Errorf("Label = %q", got)
	}
}

func TestNewAccountDraftDefaults(t *testing.T) {
	d := NewAccountDraft()
	if d.Type != "CHECKING" || d.Balance != "0" || d.Currency != "KES" || d.Status != "ACTIVE" {
		t.Errorf("draft = %+v", d)
	}
}

func equal(a, b FieldErrors) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
