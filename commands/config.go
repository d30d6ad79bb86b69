package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nurfarazi/Excel2Google-AutoPilot/config"
	"github.com/nurfarazi/Excel2Google-AutoPilot/envfile"
)

type configOptions struct {
	file        string
	credentials string
	spreadsheet string
	worksheet   string
	columns     string
}

func configCmd() *cobra.Command {
	opts := configOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Persists the transfer settings to the configuration file",
		Long: `Writes the transfer settings to the configuration file (see --env-file)
as one KEY=value assignment per line. Settings not supplied as flags keep
their current values from the environment or the existing file.`,
		Example: `  excel2google config --file data.xlsx --spreadsheet 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms --worksheet "Report"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.execute()
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", opts.file, "Path to the Excel workbook")
	cmd.Flags().StringVar(&opts.credentials, "credentials", opts.credentials, "Path to the service account credentials file")
	cmd.Flags().StringVar(&opts.spreadsheet, "spreadsheet", opts.spreadsheet, "Destination spreadsheet ID")
	cmd.Flags().StringVar(&opts.worksheet, "worksheet", opts.worksheet, "Destination worksheet name")
	cmd.Flags().StringVar(&opts.columns, "columns", opts.columns, "Comma-delimited column allow-list")

	return cmd
}

func (opts *configOptions) execute() error {
	if err := loadEnvFile(); err != nil {
		return err
	}

	values := map[string]string{
		config.EnvExcelFile:     coalesce(opts.file, os.Getenv(config.EnvExcelFile)),
		config.EnvCredentials:   coalesce(opts.credentials, os.Getenv(config.EnvCredentials)),
		config.EnvSpreadsheetID: coalesce(opts.spreadsheet, os.Getenv(config.EnvSpreadsheetID)),
		config.EnvWorksheet:     coalesce(opts.worksheet, os.Getenv(config.EnvWorksheet)),
		config.EnvColumns:       coalesce(opts.columns, os.Getenv(config.EnvColumns)),
	}

	if err := envfile.Save(options.envFile, config.Keys, values); err != nil {
		return err
	}

	fmt.Printf("Configuration saved to %s\n", options.envFile)

	return nil
}
