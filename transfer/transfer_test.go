package transfer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nurfarazi/Excel2Google-AutoPilot/config"
	"github.com/nurfarazi/Excel2Google-AutoPilot/excel"
)

type write struct {
	row  int
	col  int
	rows [][]string
}

// fakeTab records clear/write calls. failAt (1-based) makes the Nth
// write fail.
type fakeTab struct {
	cleared int
	writes  []write
	failAt  int
}

func (t *fakeTab) Clear(ctx context.Context) error {
	t.cleared++
	return nil
}

func (t *fakeTab) WriteRange(ctx context.Context, row, col int, rows [][]string) error {
	if t.failAt > 0 && len(t.writes)+1 == t.failAt {
		return errors.New("quota exceeded")
	}

	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string{}, r...)
	}

	t.writes = append(t.writes, write{row: row, col: col, rows: copied})

	return nil
}

type fakeSession struct {
	tab      *fakeTab
	resolved int
}

func (s *fakeSession) ResolveTab(ctx context.Context, spreadsheetID, worksheet string) (Tab, error) {
	s.resolved++
	return s.tab, nil
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "workbook.xlsx")
	require.NoError(t, f.SaveAs(path))

	return path
}

func TestMatrix(t *testing.T) {
	table := &excel.Table{
		Columns: []string{"Name", "City"},
		Rows: [][]string{
			{"Alice", "Dhaka"},
			{"Bob", "Sylhet"},
		},
	}

	assert.Equal(t, [][]string{
		{"Name", "City"},
		{"Alice", "Dhaka"},
		{"Bob", "Sylhet"},
	}, Matrix(table))
}

func TestChunkIsALosslessOrderPreservingPartition(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}}

	chunks := chunk(rows, 2)

	require.Len(t, chunks, 3)

	flattened := [][]string{}
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 2)
		flattened = append(flattened, c...)
	}

	assert.Equal(t, rows, flattened)
}

func TestChunkWithExactMultiple(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}, {"3"}, {"4"}}

	chunks := chunk(rows, 2)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 2)
	assert.Len(t, chunks[1], 2)
}

// The end-to-end scenario: columns [Name, City] from a 3-row table with
// chunk size 2 - one clear, then writes at (1,1) and (3,1) of 2 rows each.
func TestTransfer(t *testing.T) {
	table := &excel.Table{
		Columns: []string{"Name", "City"},
		Rows: [][]string{
			{"Alice", "Dhaka"},
			{"Bob", "Sylhet"},
			{"Carol", "Khulna"},
		},
	}

	tab := fakeTab{}
	engine := Engine{ChunkRows: 2}

	require.NoError(t, engine.Transfer(context.Background(), &tab, table))

	assert.Equal(t, 1, tab.cleared)
	assert.Equal(t, []write{
		{row: 1, col: 1, rows: [][]string{{"Name", "City"}, {"Alice", "Dhaka"}}},
		{row: 3, col: 1, rows: [][]string{{"Bob", "Sylhet"}, {"Carol", "Khulna"}}},
	}, tab.writes)
}

func TestTransferStartRowsAreContiguous(t *testing.T) {
	rows := make([][]string, 7)
	for i := range rows {
		rows[i] = []string{"x"}
	}

	table := &excel.Table{
		Columns: []string{"A"},
		Rows:    rows,
	}

	tab := fakeTab{}
	engine := Engine{ChunkRows: 3}

	require.NoError(t, engine.Transfer(context.Background(), &tab, table))

	next := 1
	for i, w := range tab.writes {
		assert.Equal(t, next, w.row, "chunk %v", i+1)
		next += len(w.rows)
	}

	// 8 matrix rows (header + 7): all accounted for, no gaps or overlaps
	assert.Equal(t, 9, next)
}

func TestTransferEmptyTableStillClears(t *testing.T) {
	table := &excel.Table{
		Columns: []string{"Name", "City"},
		Rows:    [][]string{},
	}

	tab := fakeTab{}
	engine := Engine{}

	require.NoError(t, engine.Transfer(context.Background(), &tab, table))

	assert.Equal(t, 1, tab.cleared)
	assert.Equal(t, []write{
		{row: 1, col: 1, rows: [][]string{{"Name", "City"}}},
	}, tab.writes)
}

func TestTransferAbortsRemainingChunksOnWriteFailure(t *testing.T) {
	rows := make([][]string, 5)
	for i := range rows {
		rows[i] = []string{"x"}
	}

	table := &excel.Table{
		Columns: []string{"A"},
		Rows:    rows,
	}

	tab := fakeTab{failAt: 2}
	engine := Engine{ChunkRows: 2}

	err := engine.Transfer(context.Background(), &tab, table)

	require.Error(t, err)
	assert.Equal(t, 1, tab.cleared)
	assert.Len(t, tab.writes, 1)
}

func TestRunDryRunNeverTouchesTheDestination(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Name", "City"},
		{"Alice", "Dhaka"},
	})

	session := fakeSession{tab: &fakeTab{}}
	runner := Runner{
		Session: &session,
	}

	cfg := config.Config{
		ExcelFile:     path,
		Credentials:   "credentials.json",
		SpreadsheetID: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		Worksheet:     "Report",
	}

	require.NoError(t, runner.Run(context.Background(), cfg, true))

	assert.Equal(t, 0, session.resolved)
	assert.Equal(t, 0, session.tab.cleared)
	assert.Empty(t, session.tab.writes)
}

func TestRunMissingConfiguredColumn(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Name", "City"},
		{"Alice", "Dhaka"},
	})

	session := fakeSession{tab: &fakeTab{}}
	runner := Runner{
		Session: &session,
	}

	cfg := config.Config{
		ExcelFile:     path,
		Credentials:   "credentials.json",
		SpreadsheetID: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		Worksheet:     "Report",
		Columns:       []string{"Name", "Zzz"},
	}

	err := runner.Run(context.Background(), cfg, false)

	var serr *excel.SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, []string{"Zzz"}, serr.Columns)
	assert.Equal(t, 0, session.resolved)
	assert.Equal(t, 0, session.tab.cleared)
	assert.Empty(t, session.tab.writes)
}

func TestRunProjectsInConfiguredOrder(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Name", "Age", "City"},
		{"Alice", 30, "Dhaka"},
	})

	session := fakeSession{tab: &fakeTab{}}
	runner := Runner{
		Session: &session,
	}

	cfg := config.Config{
		ExcelFile:     path,
		Credentials:   "credentials.json",
		SpreadsheetID: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		Worksheet:     "Report",
		Columns:       []string{"City", "Name"},
	}

	require.NoError(t, runner.Run(context.Background(), cfg, false))

	require.Len(t, session.tab.writes, 1)
	assert.Equal(t, [][]string{
		{"City", "Name"},
		{"Dhaka", "Alice"},
	}, session.tab.writes[0].rows)
}

func TestRunWarnsOnEmptyWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Name", "City"},
	})

	core, logs := observer.New(zap.WarnLevel)
	session := fakeSession{tab: &fakeTab{}}
	runner := Runner{
		Session: &session,
		Log:     zap.New(core),
	}

	cfg := config.Config{
		ExcelFile:     path,
		Credentials:   "credentials.json",
		SpreadsheetID: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		Worksheet:     "Report",
	}

	require.NoError(t, runner.Run(context.Background(), cfg, false))

	// an empty transfer is still a success and still clears the sheet
	assert.Equal(t, 1, session.tab.cleared)
	require.Len(t, session.tab.writes, 1)
	assert.Equal(t, [][]string{{"Name", "City"}}, session.tab.writes[0].rows)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestRunIsIdempotent(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Name", "City"},
		{"Alice", "Dhaka"},
		{"Bob", "Sylhet"},
	})

	cfg := config.Config{
		ExcelFile:     path,
		Credentials:   "credentials.json",
		SpreadsheetID: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		Worksheet:     "Report",
	}

	run := func() *fakeTab {
		session := fakeSession{tab: &fakeTab{}}
		runner := Runner{
			Session: &session,
		}

		require.NoError(t, runner.Run(context.Background(), cfg, false))

		return session.tab
	}

	first := run()
	second := run()

	assert.Equal(t, first.writes, second.writes)
	assert.Equal(t, first.cleared, second.cleared)
}
