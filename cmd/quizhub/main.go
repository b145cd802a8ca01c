package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/quizhub/quizhub/cmd/quizhub/company"
	"github.com/quizhub/quizhub/cmd/quizhub/serve"
	"github.com/quizhub/quizhub/cmd/quizhub/user"
	"github.com/quizhub/quizhub/pkg/config"
	logr "github.com/quizhub/quizhub/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	rootCmd = &cobra.Command{
		Use:          "quizhub",
		Short:        "A multi-tenant quiz platform",
		Long:         "QuizHub hosts companies, their members, and the quizzes they take.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(
		serve.Command,
		migrateCmd,
		sweepCmd,
		user.Command,
		company.Command,
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

// loadConfig reads the config file, writing the defaults on first run, and
// applies environment overrides. A .env file in the working directory is
// loaded first.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := config.DefaultConfig()
	if cfg.Exist() {
		if err := cfg.ParseFile(); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	} else {
		if err := cfg.WriteConfig(); err != nil {
			return nil, fmt.Errorf("write config file: %w", err)
		}
	}

	if err := cfg.ParseEnv(); err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		log.Error(err)
		return 1
	}

	ctx = config.WithContext(ctx, cfg)
	logger, f, err := logr.NewLogger(cfg)
	if err != nil {
		log.Errorf("failed to create logger: %v", err)
	}

	if f != nil {
		defer f.Close() // nolint: errcheck
	}

	if logger != nil {
		// Set global logger
		log.SetDefault(logger)
		ctx = log.WithContext(ctx, logger)
	}

	// Set the max number of processes to the number of CPUs
	// This is useful when running in a container
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warn("couldn't set automaxprocs", "error", err)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}
