// Package forms implements client-side form state and validation.
package forms

import (
	"regexp"
	"unicode/utf8"

	"tareas/internal/ui"
)

// MinPasswordLength is the minimum accepted password length, in characters.
const MinPasswordLength = 6

// emailChar is any character except "@" and whitespace. The whitespace set
// is the wider one used by browsers, so NBSP, \v and the Unicode line and
// paragraph separators are rejected too.
const emailChar = `[^\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// ValidateEmail returns the error message for email, or "" if it is valid.
func ValidateEmail(email string) string {
	if email == "" {
		return ui.EmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ui.EmailInvalid
	}
	return ""
}

// ValidatePassword returns the error message for password, or "" if it is valid.
func ValidatePassword(password string) string {
	if password == "" {
		return ui.PasswordRequired
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ui.PasswordTooShort
	}
	return ""
}

// SignInForm holds the sign-in fields. Sign-in does no client-side validation.
type SignInForm struct {
	Email    string
	Password string
}

// Reset clears the form.
func (f *SignInForm) Reset() {
	*f = SignInForm{}
}

// SignUpForm holds the sign-up fields and their error messages.
type SignUpForm struct {
	Email         string
	Password      string
	EmailError    string
	PasswordError string
}

// BlurEmail validates the email field when it loses focus.
func (f *SignUpForm) BlurEmail() {
	f.EmailError = ValidateEmail(f.Email)
}

// BlurPassword validates the password field when it loses focus.
func (f *SignUpForm) BlurPassword() {
	f.PasswordError = ValidatePassword(f.Password)
}

// Validate checks both fields and reports whether the form can be submitted.
func (f *SignUpForm) Validate() bool {
	f.BlurEmail()
	f.BlurPassword()
	return f.EmailError == "" && f.PasswordError == ""
}

// Reset clears the form, including its errors.
func (f *SignUpForm) Reset() {
	*f = SignUpForm{}
}
