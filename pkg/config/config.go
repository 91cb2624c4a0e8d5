// Package config loads runtime settings from defaults, an optional YAML file
// and FORMWIRE_* environment variables.
package config

import (
	"os"
	"path/filepath"
)

// DiskConfig describes one storage disk.
type DiskConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=local memory"`
	Root   string `mapstructure:"root" validate:"required_if=Driver local"`
	URL    string `mapstructure:"url" validate:"omitempty,url"`
}

// StorageConfig lists the disks uploads may be persisted to.
type StorageConfig struct {
	Default string                `mapstructure:"default" validate:"required"`
	Disks   map[string]DiskConfig `mapstructure:"disks" validate:"required,min=1,dive"`
}

// UploadConfig controls the staging area.
type UploadConfig struct {
	StagingDir   string `mapstructure:"stagingDir" validate:"required"`
	MaxKilobytes int64  `mapstructure:"maxKilobytes" validate:"gte=0"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// FormConfig holds form behaviour switches.
type FormConfig struct {
	RecordDefaults bool `mapstructure:"recordDefaults"`
}

// Config aggregates every setting.
type Config struct {
	Uploads UploadConfig  `mapstructure:"uploads"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Forms   FormConfig    `mapstructure:"forms"`
}

// NewDefaultConfig returns the settings used when nothing overrides them.
func NewDefaultConfig() Config {
	base := filepath.Join(os.TempDir(), "formwire")
	return Config{
		Uploads: UploadConfig{
			StagingDir:   filepath.Join(base, "staging"),
			MaxKilobytes: 10240,
		},
		Storage: StorageConfig{
			Default: "local",
			Disks: map[string]DiskConfig{
				"local": {Driver: "local", Root: filepath.Join(base, "storage")},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// MaxBytes returns the upload limit in bytes. Zero means unlimited.
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxKilobytes * 1024
}
