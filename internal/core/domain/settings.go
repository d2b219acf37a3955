package domain

import (
	"strconv"
	"time"
)

const unknownDescription = "Unknown"

// StorageDriver identifies the draft store backend.
type StorageDriver string

// Available storage drivers.
const (
	// StorageMemory keeps drafts in process memory (tests, throwaway sessions).
	StorageMemory StorageDriver = "memory"

	// StorageSQLite keeps drafts in a local SQLite database.
	StorageSQLite StorageDriver = "sqlite"

	// StorageRedis keeps drafts in a shared Redis instance.
	StorageRedis StorageDriver = "redis"

	// StorageS3 keeps drafts as objects in an S3-compatible bucket.
	StorageS3 StorageDriver = "s3"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageMemory, StorageSQLite, StorageRedis, StorageS3:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d StorageDriver) String() string {
	return string(d)
}

// Description returns a human-readable description of the driver.
func (d StorageDriver) Description() string {
	switch d {
	case StorageMemory:
		return "Memory (lost on exit)"
	case StorageSQLite:
		return "SQLite (local file)"
	case StorageRedis:
		return "Redis (shared server)"
	case StorageS3:
		return "S3 (object storage)"
	default:
		return unknownDescription
	}
}

// AllStorageDrivers returns all available storage drivers.
func AllStorageDrivers() []StorageDriver {
	return []StorageDriver{StorageMemory, StorageSQLite, StorageRedis, StorageS3}
}

// StorageSettings configures the draft store.
type StorageSettings struct {
	// Driver selects the backend.
	Driver StorageDriver

	// SQLiteDir is the directory holding drafts.db. Empty means ~/.reportdraft/data.
	SQLiteDir string

	// RedisAddr, RedisPassword and RedisDB configure the redis client.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// S3Bucket, S3Region, S3Endpoint and S3PathStyle configure the S3 client.
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	// KeyPrefix namespaces draft keys in shared backends.
	KeyPrefix string
}

// AutosaveSettings throttles draft writes from an open form.
type AutosaveSettings struct {
	// Interval is the minimum spacing between autosaves.
	Interval time.Duration

	// Burst is how many saves may happen back to back.
	Burst int
}

// CatalogSettings configures schema loading.
type CatalogSettings struct {
	// Dir holds YAML schema overrides. Empty means embedded schemas only.
	Dir string

	// Watch reloads overrides when files in Dir change.
	Watch bool
}

// APISettings configures the remote report API.
type APISettings struct {
	// BaseURL of the report API. Empty selects the in-process stub repository.
	BaseURL string

	// Timeout bounds every request.
	Timeout time.Duration
}

// CalcSettings tunes derived value calculation.
type CalcSettings struct {
	// StripGroupingDots removes thousands-grouping dots from energy figures
	// before summing. See calculators.CleanNumeric.
	StripGroupingDots bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Storage holds draft store settings.
	Storage StorageSettings

	// Autosave holds autosave throttling settings.
	Autosave AutosaveSettings

	// Catalog holds schema catalog settings.
	Catalog CatalogSettings

	// API holds remote report API settings.
	API APISettings

	// Calc holds calculator settings.
	Calc CalcSettings

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Driver:    StorageSQLite,
			RedisAddr: "localhost:6379",
			S3Region:  "us-east-1",
			KeyPrefix: "drafts/",
		},
		Autosave: AutosaveSettings{
			Interval: time.Second,
			Burst:    1,
		},
		API: APISettings{
			Timeout: 30 * time.Second,
		},
		Calc: CalcSettings{
			StripGroupingDots: true,
		},
	}
}

// Value renders the setting stored under a config key such as
// "storage.driver" in the form accepted when setting it. Returns false for
// unknown keys.
func (s *AppSettings) Value(key string) (string, bool) {
	switch key {
	case "storage.driver":
		return s.Storage.Driver.String(), true
	case "storage.sqlite.dir":
		return s.Storage.SQLiteDir, true
	case "storage.redis.addr":
		return s.Storage.RedisAddr, true
	case "storage.redis.password":
		return s.Storage.RedisPassword, true
	case "storage.redis.db":
		return strconv.Itoa(s.Storage.RedisDB), true
	case "storage.s3.bucket":
		return s.Storage.S3Bucket, true
	case "storage.s3.region":
		return s.Storage.S3Region, true
	case "storage.s3.endpoint":
		return s.Storage.S3Endpoint, true
	case "storage.s3.path_style":
		return strconv.FormatBool(s.Storage.S3PathStyle), true
	case "storage.prefix":
		return s.Storage.KeyPrefix, true
	case "autosave.interval_ms":
		return strconv.FormatInt(s.Autosave.Interval.Milliseconds(), 10), true
	case "autosave.burst":
		return strconv.Itoa(s.Autosave.Burst), true
	case "catalog.dir":
		return s.Catalog.Dir, true
	case "catalog.watch":
		return strconv.FormatBool(s.Catalog.Watch), true
	case "api.base_url":
		return s.API.BaseURL, true
	case "api.timeout_s":
		return strconv.Itoa(int(s.API.Timeout / time.Second)), true
	case "calc.strip_grouping_dots":
		return strconv.FormatBool(s.Calc.StripGroupingDots), true
	case "log.verbose":
		return strconv.FormatBool(s.Verbose), true
	}
	return "", false
}
