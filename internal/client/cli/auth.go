package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, an email and a password and creates a new
// account. Registration does not log the user in; a fresh login follows.
//
// The password byte slice is wiped before returning. Any I/O or backend
// error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.session.Register(ctx, name, email, string(password)); err != nil {
		return err
	}

	printlnFn("Success! You can now log in.")
	return nil
}

// Login prompts for credentials and authenticates against the backend. On
// success the session is persisted, the cart and favorites views are
// reloaded for the new identity, the remote activity feed is fetched and a
// login entry is recorded.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	if err := a.activity.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "refreshing activity feed", "error", err)
	}
	a.activity.Record(ctx, models.ActivityLogin, "Inicio de sesión",
		fmt.Sprintf("Bienvenido al panel, %s", user.Name))

	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))
	return nil
}

// Logout invalidates the backend session best-effort and clears the local
// one. The persisted cart and favorites stay behind for the next login.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}
