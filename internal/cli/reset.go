package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/medminder/internal/db"
	"github.com/terraincognita07/medminder/internal/security"
	"github.com/terraincognita07/medminder/internal/services"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errEmptyPassword    = errors.New("password is required")
)

type ResetPasswordOptions struct {
	// Prompt asks the operator for the new password instead of generating one.
	Prompt bool
	Stdin  *os.File
	Out    io.Writer
}

// RunResetPasswordCommand replaces a user's password and flags the account so
// the next login has to change it.
func RunResetPasswordCommand(database *gorm.DB, email string, options ResetPasswordOptions) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Stdin == nil {
		options.Stdin = os.Stdin
	}

	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return fmt.Errorf("invalid email address %q", email)
	}

	users := db.NewUserRepository(database)
	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	var password string
	if options.Prompt {
		password, err = readNewPassword(func(label string) (string, error) {
			fmt.Fprint(options.Out, label)
			value, err := readHiddenLine(options.Stdin)
			fmt.Fprintln(options.Out)
			return value, err
		})
	} else {
		password, err = security.TemporaryPassword(temporaryPasswordLength)
	}
	if err != nil {
		return fmt.Errorf("choose password: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, passwordHash, true); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(options.Out, "Password reset for %s\n", normalizedEmail)
	if !options.Prompt {
		fmt.Fprintf(options.Out, "Temporary password: %s\n", password)
	}
	fmt.Fprintln(options.Out, "User must change password on next login.")
	return nil
}

func readNewPassword(read func(label string) (string, error)) (string, error) {
	password, err := read("New password: ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", errEmptyPassword
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	confirmation, err := read("Confirm password: ")
	if err != nil {
		return "", err
	}
	if confirmation != password {
		return "", errPasswordMismatch
	}
	return password, nil
}
