package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
)

var (
	errConfigWrite = errors.New("failed to write config file")
	errConfigRead  = errors.New("failed to read config file")
	errLoggerInit  = errors.New("failed to initialize logger")
	ErrInvalid     = errors.New("invalid config")
)

const (
	ConfigDirName     = "lilguy"
	DefaultConfigName = "lilguy"
	DefaultDBName     = "lilguy.db"
	DefaultLogName    = "lilguy.log"
	EnvPrefix         = "lilguy"
	lcdSize           = 128
)

const (
	BackendTerminal = "terminal"
	BackendSnapshot = "snapshot"
	BackendLCD      = "lcd"
	BackendGPIO     = "gpio"
	BackendScripted = "scripted"
)

type Config struct {
	Display       Display `mapstructure:"display"`
	Input         Input   `mapstructure:"input"`
	FPS           int     `mapstructure:"fps"`
	InitialScreen string  `mapstructure:"initial_screen"`
	DatabasePath  string  `mapstructure:"database_path"`
	// AssetsDir holds PNG artwork replacing the built-in drawings. Empty
	// keeps the built-in art.
	AssetsDir string `mapstructure:"assets_dir"`
	AboutPath string `mapstructure:"about_path"`
	LogLevel  string `mapstructure:"log_level"`
	Update    Update `mapstructure:"update"`
	Pet       Pet    `mapstructure:"pet"`
}

type Display struct {
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	Scale        int    `mapstructure:"scale"`
	Backend      string `mapstructure:"backend"`
	SnapshotPath string `mapstructure:"snapshot_path"`
	// SPIPort names the SPI port of the lcd backend. Empty picks the first.
	SPIPort      string `mapstructure:"spi_port"`
}

type Input struct {
	Backend string `mapstructure:"backend"`
}

type Update struct {
	RepoDir string `mapstructure:"repo_dir"`
	Remote  string `mapstructure:"remote"`
	Branch  string `mapstructure:"branch"`
}

type Pet struct {
	HungerDecayPerHour int `mapstructure:"hunger_decay_per_hour"`
}

// Validate checks the values that have no usable fallback.
func (c Config) Validate() error {
	var errs []error

	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: display size %dx%d", ErrInvalid, c.Display.Width, c.Display.Height))
	}

	if c.Display.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: display scale %d", ErrInvalid, c.Display.Scale))
	}

	if !slices.Contains([]string{BackendTerminal, BackendSnapshot, BackendLCD}, c.Display.Backend) {
		errs = append(errs, fmt.Errorf("%w: display backend %q", ErrInvalid, c.Display.Backend))
	}

	if c.Display.Backend == BackendSnapshot && c.Display.SnapshotPath == "" {
		errs = append(errs, fmt.Errorf("%w: snapshot backend needs display.snapshot_path", ErrInvalid))
	}

	if c.Display.Backend == BackendLCD && (c.Display.Width != lcdSize || c.Display.Height != lcdSize) {
		errs = append(errs, fmt.Errorf("%w: lcd backend needs a %dx%d display", ErrInvalid, lcdSize, lcdSize))
	}

	if !slices.Contains([]string{BackendTerminal, BackendGPIO, BackendScripted}, c.Input.Backend) {
		errs = append(errs, fmt.Errorf("%w: input backend %q", ErrInvalid, c.Input.Backend))
	}

	if c.Input.Backend == BackendTerminal && c.Display.Backend != BackendTerminal {
		errs = append(errs, fmt.Errorf("%w: terminal input needs the terminal display", ErrInvalid))
	}

	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS))
	}

	if c.Pet.HungerDecayPerHour < 0 {
		errs = append(errs, fmt.Errorf("%w: negative hunger decay", ErrInvalid))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}

	return level, nil
}

// Path generates a path pointing to the filename under this apps defined $XDG_CONFIG_HOME.
func Path(name string) string {
	fullPath, errFullPath := xdg.ConfigFile(path.Join(ConfigDirName, name))
	if errFullPath != nil {
		panic(errFullPath)
	}

	return fullPath
}

// PathData points to name under $XDG_DATA_HOME/lilguy.
func PathData(name string) string {
	dataDir, found := os.LookupEnv("DATA_DIR")
	if found && dataDir != "" {
		return filepath.Join(dataDir, name)
	}

	return path.Join(xdg.DataHome, ConfigDirName, name)
}

// LoggerInit sets up the slog global handler to use a log file as we cant print to the console.
func LoggerInit(logPath string, level slog.Level) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, errors.Join(err, errLoggerInit)
	}

	logFile, errLogFile := os.Create(logPath)
	if errLogFile != nil {
		return nil, errors.Join(errLogFile, errLoggerInit)
	}

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}))

	slog.SetDefault(logger)

	return logFile, nil
}
