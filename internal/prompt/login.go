package prompt

import (
	"context"
	"io"

	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/scrap-app/cli/internal/auth"
	"github.com/scrap-app/cli/internal/payload"
)

// DefaultEmail returns user.email from the global git config, or "".
func DefaultEmail() string {
	cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope)
	if err != nil {
		return ""
	}
	return cfg.User.Email
}

// LoginForm builds the email/password form. Empty arguments are prompted for.
func LoginForm(email string) *Form {
	if email == "" {
		email = DefaultEmail()
	}
	return NewForm("Log in to scrap",
		Field{Label: "Email", Placeholder: "you@example.com", Value: email, Required: true},
		Field{Label: "Password", Secret: true, Required: true},
	)
}

// Login asks for the login candidate.
func Login(ctx context.Context, in io.Reader, out io.Writer, email string) (auth.LoginCandidate, error) {
	values, err := Run(ctx, in, out, LoginForm(email))
	if err != nil {
		return auth.LoginCandidate{}, err
	}
	return auth.LoginCandidate{Email: values[0], Password: values[1]}, nil
}

// RegistrationForm builds the name/email/password form.
func RegistrationForm(name, email string) *Form {
	if email == "" {
		email = DefaultEmail()
	}
	return NewForm("Create a scrap account",
		Field{Label: "Name", Placeholder: "optional", Value: name},
		Field{Label: "Email", Placeholder: "you@example.com", Value: email, Required: true},
		Field{Label: "Password", Secret: true, Required: true},
	)
}

// Registration asks for the registration document fields.
func Registration(ctx context.Context, in io.Reader, out io.Writer, name, email string) (payload.Registration, error) {
	values, err := Run(ctx, in, out, RegistrationForm(name, email))
	if err != nil {
		return payload.Registration{}, err
	}
	return payload.Registration{Name: values[0], Email: values[1], Password: values[2]}, nil
}
