package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/medminder/internal/db"
	"github.com/terraincognita07/medminder/internal/logging"
	"github.com/terraincognita07/medminder/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour

	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type Options struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	Logger       *logging.Logger
	Now          func() time.Time
}

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	now          func() time.Time
	log          *logging.Logger

	repositories *db.Repositories
	authService  *services.AuthService
	settings     *services.SettingsService
	medications  *services.MedicationService
	loginLimiter *attemptLimiter
}

// NewHandler wires the HTTP layer. When medications is nil the per-user
// stores are kept in the database key-value table.
func NewHandler(database *gorm.DB, medications *services.MedicationService, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Location == nil {
		options.Location = time.Local
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = logging.NewNop()
	}

	handler := &Handler{
		secretKey:    []byte(options.SecretKey),
		location:     options.Location,
		cookieSecure: options.CookieSecure,
		log:          options.Logger.With("component", "api"),
		loginLimiter: newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
	}
	handler.now = func() time.Time {
		return options.Now().In(handler.location)
	}
	return handler.withDependencies(database, medications), nil
}
