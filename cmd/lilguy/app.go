package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/leighmacdonald/lilguy/internal/app"
	"github.com/leighmacdonald/lilguy/internal/config"
	"github.com/leighmacdonald/lilguy/internal/display"
	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/pet"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/screens"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/store"
	"github.com/leighmacdonald/lilguy/internal/terminal"
	"github.com/leighmacdonald/lilguy/internal/update"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// run is the main entry point of lilguy.
func run(cmd *cobra.Command, _ []string) error {
	userConfig, err := loadConfig()
	if err != nil {
		return err
	}

	level, _ := userConfig.Level()

	// The terminal backend owns the console, so logs go to a file.
	logFile, errLogger := config.LoggerInit(config.PathData(config.DefaultLogName), level)
	if errLogger != nil {
		return errors.Join(errLogger, errApp)
	}

	defer func(closer io.Closer) {
		if errClose := closer.Close(); errClose != nil {
			slog.Error("Failed to close log file", slog.String("error", errClose.Error()))
		}
	}(logFile)

	slog.Info("Starting lilguy", slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit), slog.String("date", BuildDate),
		slog.String("go", BuildGoVersion))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, errDB := openStore(ctx, userConfig.DatabasePath, true)
	if errDB != nil {
		return errDB
	}

	defer closeStore(database)

	about := ""
	if userConfig.AboutPath != "" {
		body, errAbout := os.ReadFile(userConfig.AboutPath)
		if errAbout != nil {
			slog.Warn("Using built-in about text", slog.String("error", errAbout.Error()))
		}

		about = string(body)
	}

	session := screen.NewSession()

	registry, errRegistry := screens.NewRegistry(screens.Deps{
		Context: ctx,
		Session: session,
		Store:   database,
		Pets:    pet.NewKeeper(database, userConfig.Pet.HungerDecayPerHour, nil),
		Art:     sprite.NewLibrary(userConfig.AssetsDir),
		Updater: update.NewGit(userConfig.Update.RepoDir, userConfig.Update.Remote, userConfig.Update.Branch),
		About:   about,
	})
	if errRegistry != nil {
		return errors.Join(errRegistry, errApp)
	}

	var device *terminal.Device

	var sink display.Sink

	switch userConfig.Display.Backend {
	case config.BackendLCD:
		if err := initHost(); err != nil {
			return err
		}

		lcd, errLCD := display.OpenST7735(userConfig.Display.SPIPort, gpioreg.ByName, display.WaveshareLCD)
		if errLCD != nil {
			return errors.Join(errLCD, errApp)
		}

		sink = lcd
	case config.BackendSnapshot:
		snapshot, errSnapshot := display.NewSnapshot(userConfig.Display.SnapshotPath,
			userConfig.Display.Width, userConfig.Display.Height, userConfig.Display.Scale)
		if errSnapshot != nil {
			return errors.Join(errSnapshot, errApp)
		}

		sink = snapshot
	default:
		device = terminal.New(userConfig.Display.Width, userConfig.Display.Height, userConfig.Display.Scale, input.Default)
		sink = device
	}

	source, errSource := inputSource(userConfig, device)
	if errSource != nil {
		return errSource
	}

	application, errApplication := app.New(app.Options{
		Display:  sink,
		Input:    source,
		Registry: registry,
		Session:  session,
		Initial:  screen.Name(userConfig.InitialScreen),
		FPS:      userConfig.FPS,
	})
	if errApplication != nil {
		return errors.Join(errApplication, errApp)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if device != nil {
		group.Go(func() error {
			return device.Run(groupCtx)
		})
	}

	group.Go(func() error {
		defer func() {
			if errClose := sink.Close(); errClose != nil {
				slog.Error("Failed to close display", slog.String("error", errClose.Error()))
			}
		}()

		return application.Run(groupCtx)
	})

	if errRun := group.Wait(); errRun != nil {
		return errors.Join(errRun, errApp)
	}

	if session.QuitRequested() {
		slog.Info("Exiting on request, expecting a restart")
	}

	return nil
}

func inputSource(userConfig config.Config, device *terminal.Device) (input.Source, error) {
	if demo || userConfig.Input.Backend == config.BackendScripted {
		return input.Demo(), nil
	}

	switch userConfig.Input.Backend {
	case config.BackendGPIO:
		if err := initHost(); err != nil {
			return nil, err
		}

		pins, errPins := input.NewHostPins(gpioreg.ByName, input.WaveshareHAT)
		if errPins != nil {
			return nil, errors.Join(errPins, errApp)
		}

		buttons, errButtons := input.NewGPIO(pins, input.WaveshareHAT)
		if errButtons != nil {
			return nil, errors.Join(errButtons, errApp)
		}

		return buttons, nil
	default:
		return device, nil
	}
}

// initHost loads the periph drivers for the board. Repeated calls are cheap.
func initHost() error {
	if _, err := host.Init(); err != nil {
		return errors.Join(err, errApp)
	}

	return nil
}

func openStore(ctx context.Context, path string, autoMigrate bool) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Join(err, errApp)
	}

	database, errDB := store.Open(ctx, path, autoMigrate)
	if errDB != nil {
		return nil, errors.Join(errDB, errApp)
	}

	return database, nil
}

func closeStore(database *store.Store) {
	if err := database.Close(); err != nil {
		slog.Error("Error closing database", slog.String("error", err.Error()))
	}
}
