package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"tareas/internal/exitcode"
	"tareas/internal/screens"
	"tareas/internal/ui"
)

func init() {
	Register(&SignInCmd{})
	Register(&SignUpCmd{})
	Register(&SignOutCmd{})
}

// credentials are the flags shared by signin and signup.
type credentials struct {
	email    string
	password string
}

func (c *credentials) register(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

// SetCredentials sets the email and password (for testing).
func (c *credentials) SetCredentials(email, password string) {
	c.email, c.password = email, password
}

// openForm moves the router to screen s, refusing while signed in.
func openForm(env *Env, s screens.Screen) bool {
	err := env.App.Router.Navigate(s)
	if errors.Is(err, screens.ErrSessionActive) {
		email := env.App.Session.Current().Email
		fmt.Fprintf(env.ErrOut, "error: already signed in as %s (run: tareas signout)\n", email)
		return false
	}
	return true
}

// SignInCmd implements the signin command.
type SignInCmd struct{ credentials }

func (c *SignInCmd) Name() string       { return "signin" }
func (c *SignInCmd) Aliases() []string  { return []string{"login"} }
func (c *SignInCmd) Synopsis() string   { return "Sign in" }
func (c *SignInCmd) Usage() string      { return "tareas signin --email <email> --password <password>" }
func (c *SignInCmd) Needs() Requirement { return NeedsBackend }

func (c *SignInCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *SignInCmd) Run(ctx context.Context, env *Env, args []string) int {
	if !openForm(env, screens.SignIn) {
		return exitcode.UserError
	}
	form := env.App.SignIn
	form.SetEmail(c.email)
	form.SetPassword(c.password)

	err := form.Submit(ctx)
	if err == nil && !env.Config.Quiet {
		fmt.Fprintln(env.Out, ui.WelcomePrefix+env.App.Session.Current().Email)
	}
	return finish(env, err)
}

// SignUpCmd implements the signup command.
type SignUpCmd struct{ credentials }

func (c *SignUpCmd) Name() string       { return "signup" }
func (c *SignUpCmd) Aliases() []string  { return []string{"register"} }
func (c *SignUpCmd) Synopsis() string   { return "Create an account" }
func (c *SignUpCmd) Usage() string      { return "tareas signup --email <email> --password <password>" }
func (c *SignUpCmd) Needs() Requirement { return NeedsBackend }

func (c *SignUpCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *SignUpCmd) Run(ctx context.Context, env *Env, args []string) int {
	if !openForm(env, screens.SignUp) {
		return exitcode.UserError
	}
	form := env.App.SignUp
	form.SetEmail(c.email)
	form.SetPassword(c.password)

	err := form.Submit(ctx)
	if errors.Is(err, screens.ErrInvalidForm) {
		f := form.Form()
		if f.EmailError != "" {
			fmt.Fprintf(env.ErrOut, "error: %s: %s\n", ui.EmailLabel, f.EmailError)
		}
		if f.PasswordError != "" {
			fmt.Fprintf(env.ErrOut, "error: %s: %s\n", ui.PasswordLabel, f.PasswordError)
		}
	}
	return finish(env, err)
}

// SignOutCmd implements the signout command.
type SignOutCmd struct{}

func (c *SignOutCmd) Name() string       { return "signout" }
func (c *SignOutCmd) Aliases() []string  { return []string{"logout"} }
func (c *SignOutCmd) Synopsis() string   { return "End the session" }
func (c *SignOutCmd) Usage() string      { return "tareas signout" }
func (c *SignOutCmd) Needs() Requirement { return NeedsBackend }

func (c *SignOutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SignOutCmd) Run(ctx context.Context, env *Env, args []string) int {
	if env.App.Session.Current() == nil {
		if !env.Config.Quiet {
			fmt.Fprintln(env.Out, "not signed in")
		}
		return exitcode.Success
	}

	env.App.SignOut(ctx)
	if !env.Config.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return finish(env, nil)
}
