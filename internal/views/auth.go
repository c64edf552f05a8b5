package views

import (
	"context"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"
	"banking-dashboard/internal/guard"

	"github.com/charmbracelet/log"
)

const (
	loginFailed  = "Authentication failed. Please check your credentials."
	signupFailed = "Registration failed. Please try again."
)

var welcomeMenu = []forms.MenuItem{
	{Key: "signin", Label: "Sign in"},
	{Key: "signup", Label: "Create an account"},
	{Key: "quit", Label: "Quit"},
}

type Login struct {
	auth   Auth
	prompt forms.Prompter
	notify *Notifier
	log    *log.Logger
}

func NewLogin(d Deps) *Login {
	return &Login{auth: d.Auth, prompt: d.Prompter, notify: d.Notifier, log: d.logger("login")}
}

func (v *Login) Run(ctx context.Context) (string, error) {
	choice, err := v.prompt.Menu(ctx, "Banking dashboard", welcomeMenu)
	if cancelled(err) || choice == "quit" {
		return "", ErrQuit
	}
	if err != nil {
		return "", err
	}
	if choice == "signup" {
		return guard.RouteSignup, nil
	}

	creds, err := v.prompt.Login(ctx, forms.Credentials{})
	if cancelled(err) {
		return guard.RouteLogin, nil
	}
	if err != nil {
		return "", err
	}

	if errs := forms.ValidateLogin(creds); len(errs) > 0 {
		v.notify.Error(errs.Error())
		return guard.RouteLogin, nil
	}

	resp, err := v.auth.SignIn(ctx, creds.Username, creds.Password)
	if err != nil {
		v.log.Warn("sign in failed", "username", creds.Username, "err", err)
		v.notify.Error(errText(err, loginFailed))
		return guard.RouteLogin, nil
	}

	v.notify.Success("Login successful! Redirecting...")
	v.log.Info("signed in", "username", resp.Username, "roles", resp.Roles.Sorted())
	if resp.Roles.Has(domain.RoleAdmin) {
		return guard.RouteAdminDashboard, nil
	}
	return guard.RouteDashboard, nil
}

type Signup struct {
	auth   Auth
	prompt forms.Prompter
	notify *Notifier
	log    *log.Logger
}

func NewSignup(d Deps) *Signup {
	return &Signup{auth: d.Auth, prompt: d.Prompter, notify: d.Notifier, log: d.logger("signup")}
}

func (v *Signup) Run(ctx context.Context) (string, error) {
	reg, err := v.prompt.Signup(ctx, forms.Registration{})
	if cancelled(err) {
		return guard.RouteLogin, nil
	}
	if err != nil {
		return "", err
	}

	if errs := forms.ValidateSignup(reg); len(errs) > 0 {
		v.notify.Error(errs.Error())
		return guard.RouteSignup, nil
	}

	if _, err := v.auth.SignUp(ctx, reg.Username, reg.Password); err != nil {
		v.log.Warn("registration failed", "username", reg.Username, "err", err)
		v.notify.Error(errText(err, signupFailed))
		return guard.RouteSignup, nil
	}

	v.notify.Success("Registration successful! Redirecting to login...")
	return guard.RouteLogin, nil
}
