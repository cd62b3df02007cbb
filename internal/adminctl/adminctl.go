// Package adminctl implements the operator-only admin bootstrap: it creates
// an administrator account or promotes an existing one.
package adminctl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

var (
	ErrNoPassword = errors.New("admin password is required")
	ErrNoDatabase = errors.New("DATABASE_DSN is required: the in-memory user store would discard the admin account")
)

// RequireDatabase rejects configurations that would keep users in memory.
func RequireDatabase(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return ErrNoDatabase
	}
	return nil
}

// AdminEnsurer is satisfied by services.UserService.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, password, displayName string) (*models.User, bool, error)
}

type Options struct {
	Email    string
	Name     string
	Password string
}

// Run fills missing options interactively and ensures the admin account.
// The email is prompted for; the password is read without echo.
func Run(ctx context.Context, svc AdminEnsurer, opts Options, in *bufio.Reader, out io.Writer) error {
	var err error

	if opts.Email == "" {
		if opts.Email, err = GetSimpleText(in, "Admin email", out); err != nil {
			return fmt.Errorf("read email: %w", err)
		}
	}

	if opts.Password == "" {
		pw, err := GetPassword(out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		opts.Password = string(pw)
		wipe(pw)
	}
	if opts.Password == "" {
		return ErrNoPassword
	}

	user, created, err := svc.EnsureAdmin(ctx, opts.Email, opts.Password, opts.Name)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(out, "Admin user created: %s\n", user.Email)
	} else {
		fmt.Fprintf(out, "User %s promoted to admin\n", user.Email)
	}
	return nil
}
