package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/option"

	"github.com/yungbote/edugen-backend/internal/platform/envutil"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

// MirrorConfig describes where generated artifacts are copied. An empty
// Bucket disables mirroring.
type MirrorConfig struct {
	Bucket        string
	Prefix        string
	Mode          ObjectStorageMode
	EmulatorHost  string
	Credentials   string
	PublicBaseURL string
}

func (cfg MirrorConfig) Enabled() bool { return strings.TrimSpace(cfg.Bucket) != "" }

func (cfg MirrorConfig) IsEmulatorMode() bool { return cfg.Mode == ObjectStorageModeGCSEmulator }

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidURL          ConfigErrorCode = "invalid_url"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", e.Value, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	case ConfigErrorInvalidURL:
		return fmt.Sprintf("invalid storage URL %q; expected absolute URL like http://fake-gcs:4443", e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// MirrorConfigFromEnv reads GCS_ARTIFACT_* settings. STORAGE_EMULATOR_HOST
// alone selects emulator mode when OBJECT_STORAGE_MODE is unset.
func MirrorConfigFromEnv() (MirrorConfig, error) {
	cfg := MirrorConfig{
		Bucket:        envutil.String("GCS_ARTIFACT_BUCKET", ""),
		Prefix:        strings.Trim(envutil.String("GCS_ARTIFACT_PREFIX", ""), "/"),
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
		Credentials:   envutil.String("GCS_CREDENTIALS_FILE", ""),
	}
	if cfg.Credentials == "" {
		cfg.Credentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""))
	}

	rawMode := envutil.String("OBJECT_STORAGE_MODE", "")
	switch mode := ObjectStorageMode(strings.ToLower(rawMode)); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ConfigError{Code: ConfigErrorInvalidMode, Value: rawMode}
	}
	return cfg, cfg.Validate()
}

func (cfg MirrorConfig) Validate() error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if cfg.IsEmulatorMode() {
		if cfg.EmulatorHost == "" {
			return &ConfigError{Code: ConfigErrorMissingEmulatorHost}
		}
		if err := checkAbsoluteURL(cfg.EmulatorHost); err != nil {
			return err
		}
	}
	if cfg.PublicBaseURL != "" {
		return checkAbsoluteURL(cfg.PublicBaseURL)
	}
	return nil
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Code: ConfigErrorInvalidURL, Value: raw, Cause: err}
	}
	return nil
}

// clientOptions accepts either a credentials file path or inline JSON.
func (cfg MirrorConfig) clientOptions() []option.ClientOption {
	if cfg.IsEmulatorMode() {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	creds := strings.TrimSpace(cfg.Credentials)
	switch {
	case creds == "":
		return nil
	case strings.HasPrefix(creds, "{"):
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	default:
		return []option.ClientOption{option.WithCredentialsFile(creds)}
	}
}
