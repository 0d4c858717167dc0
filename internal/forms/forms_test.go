package forms_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tareas/internal/forms"
	"tareas/internal/ui"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"a@b.com", ""},
		{"user.name+tag@mail.example.org", ""},
		{"x@y.z", ""},
		{"", ui.EmailRequired},
		{"bad-email", ui.EmailInvalid},
		{"no-at.example.com", ui.EmailInvalid},
		{"a@nodot", ui.EmailInvalid},
		{"a@@b.com", ui.EmailInvalid},
		{"a b@c.com", ui.EmailInvalid},
		{"@b.com", ui.EmailInvalid},
		{"a@.", ui.EmailInvalid},
		{"a\tb@c.com", ui.EmailInvalid},
		{"a\vb@c.com", ui.EmailInvalid},
		{"a\u00a0b@c.com", ui.EmailInvalid},
		{"a@b\u2028c.com", ui.EmailInvalid},
		{"a@b.c\u2029om", ui.EmailInvalid},
		{"\ufeffa@b.com", ui.EmailInvalid},
		{"a@b\u3000c.com", ui.EmailInvalid},
		{"a@b.co\u202f", ui.EmailInvalid},
		{"ñandú@correo.es", ""},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, forms.ValidateEmail(tt.email))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Equal(t, ui.PasswordRequired, forms.ValidatePassword(""))
	for n := 1; n < forms.MinPasswordLength; n++ {
		assert.Equal(t, ui.PasswordTooShort, forms.ValidatePassword(strings.Repeat("x", n)))
	}
	assert.Equal(t, "", forms.ValidatePassword("secret"))
	// Length is counted in characters, not bytes or UTF-16 units.
	assert.Equal(t, ui.PasswordTooShort, forms.ValidatePassword("😀😀😀"))
	assert.Equal(t, "", forms.ValidatePassword("ñandú1"))
	assert.Equal(t, "", forms.ValidatePassword(strings.Repeat("x", 64)))
	// Characters, not bytes.
	assert.Equal(t, ui.PasswordTooShort, forms.ValidatePassword("ñññññ"))
}

func TestSignUpForm_Validate(t *testing.T) {
	f := &forms.SignUpForm{Email: "bad-email", Password: "123"}

	assert.False(t, f.Validate())
	assert.Equal(t, ui.EmailInvalid, f.EmailError)
	assert.Equal(t, ui.PasswordTooShort, f.PasswordError)

	f.Email = "a@b.com"
	f.BlurEmail()
	assert.Empty(t, f.EmailError)
	assert.Equal(t, ui.PasswordTooShort, f.PasswordError, "blur only touches its own field")

	f.Password = "123456"
	assert.True(t, f.Validate())
	assert.Empty(t, f.PasswordError)
}

func TestSignUpForm_Reset(t *testing.T) {
	f := &forms.SignUpForm{Email: "x", Password: "y", EmailError: "e", PasswordError: "p"}
	f.Reset()
	assert.Equal(t, forms.SignUpForm{}, *f)
}
