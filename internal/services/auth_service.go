package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/medminder/internal/models"
	"github.com/terraincognita07/medminder/internal/security"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidCurrentPassword = errors.New("invalid current password")
	ErrPasswordMustDiffer     = errors.New("new password must differ")
	ErrCreateUserFailed       = errors.New("create user failed")
	ErrUpdatePasswordFailed   = errors.New("update password failed")
	ErrSecurePasswordFailed   = errors.New("secure password failed")
	ErrUserNotFound           = errors.New("user not found")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
}

type AuthService struct {
	users AuthUserRepository
	now   func() time.Time
}

func NewAuthService(users AuthUserRepository, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{users: users, now: now}
}

func (service *AuthService) Register(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrCreateUserFailed, err)
	}
	if exists {
		return models.User{}, ErrEmailAlreadyExists
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrSecurePasswordFailed, err)
	}

	user := models.User{
		Email:            email,
		PasswordHash:     passwordHash,
		RemindersEnabled: true,
		CreatedAt:        service.now().UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrCreateUserFailed, err)
	}
	return user, nil
}

func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if !security.PasswordMatches(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (service *AuthService) ChangePassword(user models.User, currentPassword string, newPassword string) error {
	if !security.PasswordMatches(user.PasswordHash, currentPassword) {
		return ErrInvalidCurrentPassword
	}
	if currentPassword == newPassword {
		return ErrPasswordMustDiffer
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSecurePasswordFailed, err)
	}
	if err := service.users.UpdatePassword(user.ID, passwordHash, false); err != nil {
		return fmt.Errorf("%w: %v", ErrUpdatePasswordFailed, err)
	}
	return nil
}
