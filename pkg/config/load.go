package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// FORMWIRE_UPLOADS_STAGINGDIR.
const EnvPrefix = "FORMWIRE"

// Load reads configuration from defaults, the environment and a YAML file.
// When path is empty "formwire.yaml" is looked up in the working directory and
// $HOME/.formwire; a missing file is not an error in that case.
func Load(path string) (Config, error) {
	v := viper.New()
	cfg := NewDefaultConfig()

	v.SetDefault("uploads.stagingDir", cfg.Uploads.StagingDir)
	v.SetDefault("uploads.maxKilobytes", cfg.Uploads.MaxKilobytes)
	v.SetDefault("storage.default", cfg.Storage.Default)
	for name, disk := range cfg.Storage.Disks {
		v.SetDefault("storage.disks."+name+".driver", disk.Driver)
		v.SetDefault("storage.disks."+name+".root", disk.Root)
		v.SetDefault("storage.disks."+name+".url", disk.URL)
	}
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("forms.recordDefaults", cfg.Forms.RecordDefaults)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("formwire")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.formwire")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return cfg, fmt.Errorf("config: read %s: %w", describe(path), err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks struct constraints and that the default disk is declared.
func Validate(cfg Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("config: validate: %w", err)
		}
		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	if _, ok := cfg.Storage.Disks[cfg.Storage.Default]; !ok {
		names := make([]string, 0, len(cfg.Storage.Disks))
		for name := range cfg.Storage.Disks {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("config: default disk %q is not declared (have %s)", cfg.Storage.Default, strings.Join(names, ", "))
	}
	return nil
}

func describe(path string) string {
	if path == "" {
		return "formwire.yaml"
	}
	return path
}
