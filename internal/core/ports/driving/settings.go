package driving

import "github.com/enplussmartenergy/erp-sub001/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key, e.g. "storage.driver".
	Set(key, value string) error

	// Keys returns every settable config key.
	Keys() []string

	// Validate checks the settings for the configured storage driver.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
