package screens

import (
	"context"
	"errors"
	"sync"

	"tareas/internal/forms"
	"tareas/internal/service"
	"tareas/internal/ui"
)

// ErrInvalidForm is returned when sign-up is submitted with invalid fields.
var ErrInvalidForm = errors.New("form has errors")

// Authenticator starts sessions. session.Manager implements it.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (service.Session, error)
	SignUp(ctx context.Context, email, password string) (service.Session, error)
}

// SignInScreen is the sign-in form. It does no client-side validation;
// a successful sign-in reaches Main through the session change.
type SignInScreen struct {
	auth     Authenticator
	router   *Router
	notifier ui.Notifier

	mu   sync.Mutex
	form forms.SignInForm
}

// NewSignInScreen creates the screen and resets it whenever it is left.
func NewSignInScreen(auth Authenticator, router *Router, notifier ui.Notifier) *SignInScreen {
	s := &SignInScreen{auth: auth, router: router, notifier: notifier}
	router.OnLeave(SignIn, s.Reset)
	return s
}

// Form returns a copy of the fields.
func (s *SignInScreen) Form() forms.SignInForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetEmail updates the email field.
func (s *SignInScreen) SetEmail(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Email = v
}

// SetPassword updates the password field.
func (s *SignInScreen) SetPassword(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Password = v
}

// Reset clears the form.
func (s *SignInScreen) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Reset()
}

// Submit signs in. Failures are shown with the backend message verbatim.
func (s *SignInScreen) Submit(ctx context.Context) error {
	f := s.Form()
	if _, err := s.auth.SignIn(ctx, f.Email, f.Password); err != nil {
		s.notifier.Notify(ui.Notice{Kind: ui.Error, Title: ui.TitleSignInFailed, Message: err.Error()})
		return err
	}
	return nil
}

// GoToSignUp opens the sign-up screen.
func (s *SignInScreen) GoToSignUp() error {
	return s.router.Navigate(SignUp)
}

// SignUpScreen is the account creation form, validated on blur and submit.
type SignUpScreen struct {
	auth     Authenticator
	router   *Router
	notifier ui.Notifier

	mu   sync.Mutex
	form forms.SignUpForm
}

// NewSignUpScreen creates the screen and resets it whenever it is left.
func NewSignUpScreen(auth Authenticator, router *Router, notifier ui.Notifier) *SignUpScreen {
	s := &SignUpScreen{auth: auth, router: router, notifier: notifier}
	router.OnLeave(SignUp, s.Reset)
	return s
}

// Form returns a copy of the fields and their errors.
func (s *SignUpScreen) Form() forms.SignUpForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetEmail updates the email field.
func (s *SignUpScreen) SetEmail(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Email = v
}

// SetPassword updates the password field.
func (s *SignUpScreen) SetPassword(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Password = v
}

// BlurEmail validates the email field.
func (s *SignUpScreen) BlurEmail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.BlurEmail()
}

// BlurPassword validates the password field.
func (s *SignUpScreen) BlurPassword() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.BlurPassword()
}

// Reset clears the form.
func (s *SignUpScreen) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Reset()
}

// Submit validates both fields and, if they are valid, creates the account.
func (s *SignUpScreen) Submit(ctx context.Context) error {
	s.mu.Lock()
	valid := s.form.Validate()
	email, password := s.form.Email, s.form.Password
	s.mu.Unlock()

	if !valid {
		s.notifier.Notify(ui.Notice{Kind: ui.Error, Title: ui.PromptFixErrors})
		return ErrInvalidForm
	}

	if _, err := s.auth.SignUp(ctx, email, password); err != nil {
		s.notifier.Notify(ui.Notice{Kind: ui.Error, Title: ui.TitleSignUpFailed, Message: err.Error()})
		return err
	}
	s.notifier.Notify(ui.Notice{Kind: ui.Info, Title: ui.TitleSignUpOK, Message: ui.MessageSignUpOK})
	return nil
}

// GoToSignIn opens the sign-in screen.
func (s *SignUpScreen) GoToSignIn() error {
	return s.router.Navigate(SignIn)
}
