// Package config resolves and validates the settings for a transfer run.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Environment variables recognised by Resolve. The same names are used as
// the keys of the persisted configuration file.
const (
	EnvExcelFile     = "EXCEL_FILE_PATH"
	EnvCredentials   = "GOOGLE_SERVICE_ACCOUNT_FILE"
	EnvSpreadsheetID = "GOOGLE_SPREADSHEET_ID"
	EnvWorksheet     = "GOOGLE_WORKSHEET_NAME"
	EnvColumns       = "GOOGLE_COLUMNS"
)

// Keys lists the recognised configuration keys in their canonical order.
var Keys = []string{
	EnvExcelFile,
	EnvCredentials,
	EnvSpreadsheetID,
	EnvWorksheet,
	EnvColumns,
}

// Config is the validated, immutable configuration for a single run.
type Config struct {
	ExcelFile     string
	Credentials   string
	SpreadsheetID string
	Worksheet     string
	Columns       []string
}

// Values are the raw inputs to New, whatever their origin (environment,
// command line flags, form fields).
type Values struct {
	ExcelFile     string
	Credentials   string
	SpreadsheetID string
	Worksheet     string
	Columns       string
}

// ConfigurationError reports every missing required setting, not just the
// first, so that a caller can fix all of them in one pass.
type ConfigurationError struct {
	Fields []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required settings: %s", strings.Join(e.Fields, ", "))
}

// Resolve builds a Config from the environment (or any getenv-shaped
// lookup). Relative paths are resolved against basedir.
func Resolve(getenv func(string) string, basedir string) (Config, error) {
	return New(Values{
		ExcelFile:     getenv(EnvExcelFile),
		Credentials:   getenv(EnvCredentials),
		SpreadsheetID: getenv(EnvSpreadsheetID),
		Worksheet:     getenv(EnvWorksheet),
		Columns:       getenv(EnvColumns),
	}, basedir)
}

// New validates the raw values and returns a Config. Absent required
// values are a construction-time failure - nothing downstream ever sees a
// partially populated Config.
func New(v Values, basedir string) (Config, error) {
	missing := []string{}

	for _, field := range []struct {
		key   string
		value string
	}{
		{EnvExcelFile, v.ExcelFile},
		{EnvCredentials, v.Credentials},
		{EnvSpreadsheetID, v.SpreadsheetID},
		{EnvWorksheet, v.Worksheet},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.key)
		}
	}

	if len(missing) > 0 {
		return Config{}, &ConfigurationError{Fields: missing}
	}

	return Config{
		ExcelFile:     resolvePath(basedir, strings.TrimSpace(v.ExcelFile)),
		Credentials:   resolvePath(basedir, strings.TrimSpace(v.Credentials)),
		SpreadsheetID: strings.TrimSpace(v.SpreadsheetID),
		Worksheet:     strings.TrimSpace(v.Worksheet),
		Columns:       SplitColumns(v.Columns),
	}, nil
}

// SplitColumns splits a comma-delimited column list, trimming whitespace
// and discarding empty entries. An empty list means 'all columns'.
func SplitColumns(s string) []string {
	columns := []string{}

	for _, column := range strings.Split(s, ",") {
		if column = strings.TrimSpace(column); column != "" {
			columns = append(columns, column)
		}
	}

	return columns
}

func resolvePath(basedir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(basedir, path)
}
