package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles setting up viper and loading configuration from files and
// the environment. Configuration is read once at startup.
type Loader struct {
	*viper.Viper
}

// NewLoader searches the XDG config dir and the working directory unless
// configFile names a file explicitly.
func NewLoader(configFile string) *Loader {
	loader := Loader{Viper: viper.New()}
	loader.SetDefault("display.width", 128)
	loader.SetDefault("display.height", 128)
	loader.SetDefault("display.scale", 1)
	loader.SetDefault("display.backend", BackendTerminal)
	loader.SetDefault("display.snapshot_path", "")
	loader.SetDefault("display.spi_port", "")
	loader.SetDefault("input.backend", BackendTerminal)
	loader.SetDefault("fps", 20)
	loader.SetDefault("initial_screen", "home")
	loader.SetDefault("database_path", PathData(DefaultDBName))
	loader.SetDefault("assets_dir", "")
	loader.SetDefault("about_path", "")
	loader.SetDefault("log_level", "debug")
	loader.SetDefault("update.repo_dir", ".")
	loader.SetDefault("update.remote", "origin")
	loader.SetDefault("update.branch", "main")
	loader.SetDefault("pet.hunger_decay_per_hour", 1)

	if configFile != "" {
		loader.SetConfigFile(configFile)
	} else {
		loader.SetConfigName(DefaultConfigName)
		loader.SetConfigType("yaml")
		loader.AddConfigPath(Path(""))
		loader.AddConfigPath(".")
	}

	loader.SetEnvPrefix(EnvPrefix)
	loader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	loader.AutomaticEnv()

	return &loader
}

func (cl *Loader) Path() string {
	return cl.ConfigFileUsed()
}

// Read loads the config. A missing config file leaves the defaults.
func (cl *Loader) Read() (Config, error) {
	if err := cl.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return Config{}, errors.Join(err, errConfigRead)
		}
	}

	var config Config
	if err := cl.Unmarshal(&config); err != nil {
		return Config{}, errors.Join(err, errConfigRead)
	}

	return config, nil
}

// WriteDefaults writes the current settings to path, refusing to replace an
// existing file.
func (cl *Loader) WriteDefaults(path string) error {
	if err := cl.SafeWriteConfigAs(path); err != nil {
		return errors.Join(err, errConfigWrite)
	}

	return nil
}
