package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/redrecon/internal/db"
	"github.com/terraincognita07/redrecon/internal/security"
	"github.com/terraincognita07/redrecon/internal/services"
)

const temporaryPasswordLength = 12

// RunResetPasswordCommand sets a new password for email. When stdin is a
// terminal the operator may type one; otherwise a temporary password is
// generated and printed.
func RunResetPasswordCommand(dbPath string, email string, stdin *os.File, out io.Writer) error {
	if services.NormalizeAuthEmail(email) == "" {
		return fmt.Errorf("invalid email address %q", email)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	password, err := promptNewPassword(stdin, out)
	if err != nil && !errors.Is(err, errPromptUnavailable) {
		return err
	}
	return resetPassword(services.NewAuthService(db.NewRepositories(database).Users), email, password, out)
}

func resetPassword(auth *services.AuthService, email string, password string, out io.Writer) error {
	generated := password == ""
	if generated {
		temporary, err := generateTemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		password = temporary
	}

	user, err := auth.ResetPassword(email, password)
	switch {
	case errors.Is(err, services.ErrAuthUserNotFound):
		return fmt.Errorf("user %s not found", services.NormalizeAuthEmail(email))
	case errors.Is(err, services.ErrWeakPassword):
		return errors.New("password needs at least 8 characters with upper, lower and digit")
	case err != nil:
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", user.Email)
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

// generateTemporaryPassword draws until the result passes the strength policy.
func generateTemporaryPassword(length int) (string, error) {
	return security.RandomPassword(max(length, 8), services.ValidatePasswordStrength)
}
