package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nurfarazi/Excel2Google-AutoPilot/config"
	"github.com/nurfarazi/Excel2Google-AutoPilot/gsheet"
	"github.com/nurfarazi/Excel2Google-AutoPilot/transfer"
)

type runOptions struct {
	file        string
	credentials string
	spreadsheet string
	worksheet   string
	columns     string
	chunkRows   int
	dryRun      bool
}

func runCmd() *cobra.Command {
	opts := runOptions{
		chunkRows: transfer.DefaultChunkRows,
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Clears the worksheet and uploads the workbook data",
		Long: `Validates the configuration, reads the first worksheet of the Excel
workbook, clears the destination worksheet and uploads the data in
order-preserving chunks. With --dry-run the configuration is validated and
the workbook read, but the Google Sheet is not modified.

Settings not supplied as flags are taken from the environment or the
configuration file (see --env-file):

  EXCEL_FILE_PATH              path to the Excel workbook
  GOOGLE_SERVICE_ACCOUNT_FILE  path to the service account credentials
  GOOGLE_SPREADSHEET_ID        destination spreadsheet ID
  GOOGLE_WORKSHEET_NAME        destination worksheet name
  GOOGLE_COLUMNS               optional comma-delimited column allow-list`,
		Example: `  excel2google run
  excel2google run --dry-run
  excel2google run --file data.xlsx --worksheet "Report" --columns "Name,City"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", opts.file, "Path to the Excel workbook (overrides EXCEL_FILE_PATH)")
	cmd.Flags().StringVar(&opts.credentials, "credentials", opts.credentials, "Path to the service account credentials file (overrides GOOGLE_SERVICE_ACCOUNT_FILE)")
	cmd.Flags().StringVar(&opts.spreadsheet, "spreadsheet", opts.spreadsheet, "Destination spreadsheet ID (overrides GOOGLE_SPREADSHEET_ID)")
	cmd.Flags().StringVar(&opts.worksheet, "worksheet", opts.worksheet, "Destination worksheet name (overrides GOOGLE_WORKSHEET_NAME)")
	cmd.Flags().StringVar(&opts.columns, "columns", opts.columns, "Comma-delimited column allow-list (overrides GOOGLE_COLUMNS)")
	cmd.Flags().IntVar(&opts.chunkRows, "chunk-rows", opts.chunkRows, "Maximum rows per write request")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", opts.dryRun, "Validate and read the workbook without modifying the Google Sheet")

	return cmd
}

func (opts *runOptions) execute(ctx context.Context) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	defer log.Sync()

	if err := loadEnvFile(); err != nil {
		return err
	}

	cfg, err := config.New(config.Values{
		ExcelFile:     coalesce(opts.file, os.Getenv(config.EnvExcelFile)),
		Credentials:   coalesce(opts.credentials, os.Getenv(config.EnvCredentials)),
		SpreadsheetID: coalesce(opts.spreadsheet, os.Getenv(config.EnvSpreadsheetID)),
		Worksheet:     coalesce(opts.worksheet, os.Getenv(config.EnvWorksheet)),
		Columns:       coalesce(opts.columns, os.Getenv(config.EnvColumns)),
	}, basedir())
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return err
	}

	log.Debug("resolved configuration",
		zap.String("file", cfg.ExcelFile),
		zap.String("spreadsheet", cfg.SpreadsheetID),
		zap.String("worksheet", cfg.Worksheet),
		zap.Strings("columns", cfg.Columns))

	runner := transfer.Runner{
		Engine: transfer.Engine{
			ChunkRows: opts.chunkRows,
			Log:       log,
		},
		Log: log,
	}

	// A dry run never touches the destination, so it does not need to
	// authenticate either.
	if !opts.dryRun {
		session, err := gsheet.NewSession(ctx, cfg.Credentials)
		if err != nil {
			log.Error("authentication failed", zap.Error(err))
			return err
		}

		runner.Session = transfer.SessionFunc(func(ctx context.Context, spreadsheetID, worksheet string) (transfer.Tab, error) {
			return session.ResolveTab(ctx, spreadsheetID, worksheet)
		})
	}

	if err := runner.Run(ctx, cfg, opts.dryRun); err != nil {
		log.Error("transfer failed", zap.Error(err))
		return err
	}

	return nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
