package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStorageDriver     = "storage.driver"
	keySQLiteDir         = "storage.sqlite.dir"
	keyRedisAddr         = "storage.redis.addr"
	keyRedisPassword     = "storage.redis.password"
	keyRedisDB           = "storage.redis.db"
	keyS3Bucket          = "storage.s3.bucket"
	keyS3Region          = "storage.s3.region"
	keyS3Endpoint        = "storage.s3.endpoint"
	keyS3PathStyle       = "storage.s3.path_style"
	keyStoragePrefix     = "storage.prefix"
	keyAutosaveInterval  = "autosave.interval_ms"
	keyAutosaveBurst     = "autosave.burst"
	keyCatalogDir        = "catalog.dir"
	keyCatalogWatch      = "catalog.watch"
	keyAPIBaseURL        = "api.base_url"
	keyAPITimeout        = "api.timeout_s"
	keyStripGroupingDots = "calc.strip_grouping_dots"
	keyVerbose           = "log.verbose"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindDriver
)

// settingKinds lists every settable key and how Set parses its value.
var settingKinds = map[string]valueKind{
	keyStorageDriver:     kindDriver,
	keySQLiteDir:         kindString,
	keyRedisAddr:         kindString,
	keyRedisPassword:     kindString,
	keyRedisDB:           kindInt,
	keyS3Bucket:          kindString,
	keyS3Region:          kindString,
	keyS3Endpoint:        kindString,
	keyS3PathStyle:       kindBool,
	keyStoragePrefix:     kindString,
	keyAutosaveInterval:  kindInt,
	keyAutosaveBurst:     kindInt,
	keyCatalogDir:        kindString,
	keyCatalogWatch:      kindBool,
	keyAPIBaseURL:        kindString,
	keyAPITimeout:        kindInt,
	keyStripGroupingDots: kindBool,
	keyVerbose:           kindBool,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Driver:        s.getDriver(defaults.Storage.Driver),
			SQLiteDir:     s.configStore.GetString(keySQLiteDir),
			RedisAddr:     s.getString(keyRedisAddr, defaults.Storage.RedisAddr),
			RedisPassword: s.configStore.GetString(keyRedisPassword),
			RedisDB:       s.configStore.GetInt(keyRedisDB),
			S3Bucket:      s.configStore.GetString(keyS3Bucket),
			S3Region:      s.getString(keyS3Region, defaults.Storage.S3Region),
			S3Endpoint:    s.configStore.GetString(keyS3Endpoint),
			S3PathStyle:   s.getBool(keyS3PathStyle, defaults.Storage.S3PathStyle),
			KeyPrefix:     s.getString(keyStoragePrefix, defaults.Storage.KeyPrefix),
		},
		Autosave: domain.AutosaveSettings{
			Interval: time.Duration(s.getInt(keyAutosaveInterval, int(defaults.Autosave.Interval/time.Millisecond))) * time.Millisecond,
			Burst:    s.getInt(keyAutosaveBurst, defaults.Autosave.Burst),
		},
		Catalog: domain.CatalogSettings{
			Dir:   s.configStore.GetString(keyCatalogDir),
			Watch: s.getBool(keyCatalogWatch, defaults.Catalog.Watch),
		},
		API: domain.APISettings{
			BaseURL: s.configStore.GetString(keyAPIBaseURL),
			Timeout: time.Duration(s.getInt(keyAPITimeout, int(defaults.API.Timeout/time.Second))) * time.Second,
		},
		Calc: domain.CalcSettings{
			StripGroupingDots: s.getBool(keyStripGroupingDots, defaults.Calc.StripGroupingDots),
		},
		Verbose: s.getBool(keyVerbose, defaults.Verbose),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyStorageDriver, settings.Storage.Driver.String()},
		{keySQLiteDir, settings.Storage.SQLiteDir},
		{keyRedisAddr, settings.Storage.RedisAddr},
		{keyRedisDB, settings.Storage.RedisDB},
		{keyS3Bucket, settings.Storage.S3Bucket},
		{keyS3Region, settings.Storage.S3Region},
		{keyS3Endpoint, settings.Storage.S3Endpoint},
		{keyS3PathStyle, settings.Storage.S3PathStyle},
		{keyStoragePrefix, settings.Storage.KeyPrefix},
		{keyAutosaveInterval, int(settings.Autosave.Interval / time.Millisecond)},
		{keyAutosaveBurst, settings.Autosave.Burst},
		{keyCatalogDir, settings.Catalog.Dir},
		{keyCatalogWatch, settings.Catalog.Watch},
		{keyAPIBaseURL, settings.API.BaseURL},
		{keyAPITimeout, int(settings.API.Timeout / time.Second)},
		{keyStripGroupingDots, settings.Calc.StripGroupingDots},
		{keyVerbose, settings.Verbose},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when set, so an empty struct never wipes them.
	if settings.Storage.RedisPassword != "" {
		if err := s.configStore.Set(keyRedisPassword, settings.Storage.RedisPassword); err != nil {
			return fmt.Errorf("save %s: %w", keyRedisPassword, err)
		}
	}

	return nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = b
	case kindDriver:
		d := domain.StorageDriver(value)
		if !d.IsValid() {
			return fmt.Errorf("%w: unknown storage driver %q", domain.ErrInvalidInput, value)
		}
		parsed = d.String()
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyStorageDriver, keySQLiteDir,
		keyRedisAddr, keyRedisPassword, keyRedisDB,
		keyS3Bucket, keyS3Region, keyS3Endpoint, keyS3PathStyle,
		keyStoragePrefix,
		keyAutosaveInterval, keyAutosaveBurst,
		keyCatalogDir, keyCatalogWatch,
		keyAPIBaseURL, keyAPITimeout,
		keyStripGroupingDots, keyVerbose,
	}
}

// Validate checks that the configured storage driver has what it needs.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch settings.Storage.Driver {
	case domain.StorageRedis:
		if settings.Storage.RedisAddr == "" {
			return fmt.Errorf("storage driver %q requires %s", settings.Storage.Driver, keyRedisAddr)
		}
	case domain.StorageS3:
		if settings.Storage.S3Bucket == "" {
			return fmt.Errorf("storage driver %q requires %s", settings.Storage.Driver, keyS3Bucket)
		}
	}

	if settings.Autosave.Burst < 1 {
		return fmt.Errorf("%s must be at least 1", keyAutosaveBurst)
	}

	if settings.API.BaseURL != "" {
		u, err := url.Parse(settings.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s %q is not an absolute URL", keyAPIBaseURL, settings.API.BaseURL)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	val := s.configStore.GetString(keyStorageDriver)
	if val == "" {
		return defaultVal
	}
	driver := domain.StorageDriver(val)
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
