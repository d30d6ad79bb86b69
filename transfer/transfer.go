// Package transfer implements the data-transfer pipeline: it serialises
// the extracted table, clears the destination worksheet and uploads the
// rows in order-preserving chunks.
package transfer

import (
	"context"

	"go.uber.org/zap"

	"github.com/nurfarazi/Excel2Google-AutoPilot/config"
	"github.com/nurfarazi/Excel2Google-AutoPilot/excel"
)

// DefaultChunkRows bounds the number of rows sent in a single write, to
// stay under the Sheets API payload ceiling.
const DefaultChunkRows = 1000

// Tab is the destination worksheet handle consumed by the engine.
type Tab interface {
	Clear(ctx context.Context) error
	WriteRange(ctx context.Context, row, col int, rows [][]string) error
}

// Session resolves a destination worksheet by spreadsheet ID and name.
type Session interface {
	ResolveTab(ctx context.Context, spreadsheetID, worksheet string) (Tab, error)
}

// SessionFunc adapts a function to the Session interface.
type SessionFunc func(ctx context.Context, spreadsheetID, worksheet string) (Tab, error)

func (f SessionFunc) ResolveTab(ctx context.Context, spreadsheetID, worksheet string) (Tab, error) {
	return f(ctx, spreadsheetID, worksheet)
}

// Matrix serialises a table to its upload form: the header row first,
// then the data rows, every cell a string.
func Matrix(t *excel.Table) [][]string {
	matrix := make([][]string, 0, len(t.Rows)+1)
	matrix = append(matrix, t.Columns)
	matrix = append(matrix, t.Rows...)

	return matrix
}

// chunk partitions rows into contiguous slices of at most n rows,
// preserving order, with no gaps or overlaps.
func chunk(rows [][]string, n int) [][][]string {
	chunks := [][][]string{}

	for len(rows) > n {
		chunks = append(chunks, rows[:n])
		rows = rows[n:]
	}

	return append(chunks, rows)
}

// Engine replaces a worksheet's contents with a table.
type Engine struct {
	ChunkRows int
	Log       *zap.Logger
}

// Transfer clears the worksheet and uploads the table, header row first,
// in sequential chunks. The clear is unconditional - an empty table still
// observably empties the destination. A write failure aborts the
// remaining chunks, leaving the worksheet cleared plus whichever prefix
// of chunks succeeded; there is no rollback.
func (e Engine) Transfer(ctx context.Context, tab Tab, table *excel.Table) error {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}

	n := e.ChunkRows
	if n <= 0 {
		n = DefaultChunkRows
	}

	matrix := Matrix(table)

	if err := tab.Clear(ctx); err != nil {
		return err
	}

	log.Info("uploading rows to worksheet", zap.Int("rows", len(matrix)), zap.Int("chunkRows", n))

	row := 1
	for _, rows := range chunk(matrix, n) {
		log.Debug("writing chunk", zap.Int("startRow", row), zap.Int("rows", len(rows)))

		if err := tab.WriteRange(ctx, row, 1, rows); err != nil {
			return err
		}

		row += len(rows)
	}

	return nil
}

// Runner orchestrates a single run: extract, project, optionally stop
// (dry run), resolve the destination and transfer. It holds no state
// across runs and no retries - any failure terminates the run.
type Runner struct {
	Session Session
	Engine  Engine
	Log     *zap.Logger
}

// Run executes the pipeline once. With dryRun set it validates and
// extracts only, never touching the destination.
func (r *Runner) Run(ctx context.Context, cfg config.Config, dryRun bool) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	table, err := excel.Read(cfg.ExcelFile)
	if err != nil {
		return err
	}

	table, err = table.Project(cfg.Columns)
	if err != nil {
		return err
	}

	log.Info("loaded workbook",
		zap.String("file", cfg.ExcelFile),
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Columns)))

	if len(table.Rows) == 0 {
		log.Warn("workbook has no data rows - the worksheet will be cleared down to the header", zap.String("file", cfg.ExcelFile))
	}

	if dryRun {
		log.Info("dry run - skipping Google Sheets update")
		return nil
	}

	tab, err := r.Session.ResolveTab(ctx, cfg.SpreadsheetID, cfg.Worksheet)
	if err != nil {
		return err
	}

	log.Info("clearing worksheet", zap.String("worksheet", cfg.Worksheet))

	if err := r.Engine.Transfer(ctx, tab, table); err != nil {
		return err
	}

	log.Info("transfer completed", zap.String("worksheet", cfg.Worksheet))

	return nil
}
