package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/fang"
	_ "github.com/joho/godotenv/autoload"
	"github.com/leighmacdonald/lilguy/internal/config"
	"github.com/leighmacdonald/lilguy/internal/store"
	"github.com/spf13/cobra"
)

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()
	cfgFile        string
	demo           bool
	rootCmd        = &cobra.Command{
		Use:   "lilguy",
		Short: "Virtual pet habit tracker",
		Long:  `lilguy - a tiny desk pet that thrives when you keep your habits`,
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Print detailed version information about lilguy",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run:               version,
	}

	migrateCmd = &cobra.Command{
		Use:       "migrate [up|down|up-one|down-one]",
		Short:     "Change the database schema version",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "up-one", "down-one"},
		RunE:      migrateDB,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE:  writeConfig,
	}
)

var errApp = errors.New("application error")

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path")
	rootCmd.Flags().BoolVar(&demo, "demo", false, "Play a scripted tour instead of reading input")
	rootCmd.AddCommand(versionCmd, migrateCmd, configCmd)

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("lilguy - habit pet\n\n")            //nolint:forbidigo
	fmt.Printf("  Version: %s\n", BuildVersion)     //nolint:forbidigo
	fmt.Printf("  Commit:  %s\n", BuildCommit)      //nolint:forbidigo
	fmt.Printf("  Built:   %s\n", BuildDate)        //nolint:forbidigo
	fmt.Printf("  Runtime: %s\n\n", BuildGoVersion) //nolint:forbidigo
}

func loadConfig() (config.Config, error) {
	userConfig, errConfig := config.NewLoader(cfgFile).Read()
	if errConfig != nil {
		return config.Config{}, errors.Join(errConfig, errApp)
	}

	if err := userConfig.Validate(); err != nil {
		return config.Config{}, errors.Join(err, errApp)
	}

	return userConfig, nil
}

func migrateDB(cmd *cobra.Command, args []string) error {
	userConfig, err := loadConfig()
	if err != nil {
		return err
	}

	actions := map[string]store.MigrationAction{
		"up":       store.MigrateUp,
		"down":     store.MigrateDn,
		"up-one":   store.MigrateUpOne,
		"down-one": store.MigrateDownOne,
	}

	name := "up"
	if len(args) > 0 {
		name = args[0]
	}

	action, found := actions[name]
	if !found {
		return fmt.Errorf("%w: unknown migration %q", errApp, name)
	}

	database, errDB := openStore(cmd.Context(), userConfig.DatabasePath, false)
	if errDB != nil {
		return errDB
	}

	defer closeStore(database)

	if errMigrate := database.Migrate(action); errMigrate != nil {
		return errors.Join(errMigrate, errApp)
	}

	cmd.Printf("Migrated %s: %s\n", userConfig.DatabasePath, name)

	return nil
}

func writeConfig(cmd *cobra.Command, _ []string) error {
	target := cfgFile
	if target == "" {
		target = config.Path(config.DefaultConfigName + ".yaml")
	}

	if err := config.NewLoader("").WriteDefaults(target); err != nil {
		return errors.Join(err, errApp)
	}

	cmd.Printf("Wrote %s\n", target)

	return nil
}
