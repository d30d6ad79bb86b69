// Package commands implements the CLI front end. The commands are thin:
// they collect configuration, construct the session and hand over to the
// transfer pipeline.
package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nurfarazi/Excel2Google-AutoPilot/envfile"
)

const APP = "excel2google"

const VERSION = "v0.1.0"

var options = struct {
	verbose bool
	envFile string
}{
	verbose: false,
	envFile: ".env",
}

// Root builds the command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           APP,
		Short:         "Clears a Google Sheets worksheet and uploads data from an Excel workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&options.verbose, "verbose", options.verbose, "Enable debug logs")
	root.PersistentFlags().StringVar(&options.envFile, "env-file", options.envFile, "Path to the KEY=value configuration file")

	root.AddCommand(runCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	return root
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if options.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return cfg.Build()
}

// loadEnvFile merges the configuration file into the environment (without
// overriding variables that are already set). A missing file is not an
// error - the environment and command line flags may carry everything.
func loadEnvFile() error {
	values, err := envfile.Load(options.envFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	envfile.Apply(values)

	return nil
}

// basedir is the directory relative paths in the configuration resolve
// against: the configuration file's directory, so that a saved
// configuration stays portable across machines.
func basedir() string {
	dir := filepath.Dir(options.envFile)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}

	return dir
}
