// Package gsheet wraps the Google Sheets API as the destination of a
// transfer: it authenticates with a service account, resolves a worksheet
// by spreadsheet ID and name, and exposes clear/write operations on it.
package gsheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const SCOPE = "https://www.googleapis.com/auth/spreadsheets"

// DestinationNotFoundError is returned when the spreadsheet ID does not
// resolve (or the service account has no access to it - the API reports
// both the same way).
type DestinationNotFoundError struct {
	SpreadsheetID string
	err           error
}

func (e *DestinationNotFoundError) Error() string {
	return fmt.Sprintf("spreadsheet %s not found (%v)", e.SpreadsheetID, e.err)
}

func (e *DestinationNotFoundError) Unwrap() error {
	return e.err
}

// TabNotFoundError is returned when the spreadsheet exists but has no
// worksheet with the configured name.
type TabNotFoundError struct {
	Worksheet     string
	SpreadsheetID string
}

func (e *TabNotFoundError) Error() string {
	return fmt.Sprintf("worksheet '%s' not found in spreadsheet %s", e.Worksheet, e.SpreadsheetID)
}

// RemoteWriteError wraps any failure during a clear or write. Network,
// quota and permission failures are not distinguished.
type RemoteWriteError struct {
	Op  string
	err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s failed (%v)", e.Op, e.err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.err
}

// Session is an authenticated Google Sheets client.
type Session struct {
	service *sheets.Service
}

// NewSession authenticates with the service account credentials file and
// returns a session scoped to spreadsheet access.
func NewSession(ctx context.Context, credentials string) (*Session, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file %s (%w)", credentials, err)
	}

	jwt, err := google.JWTConfigFromJSON(b, SCOPE)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials (%w)", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client (%w)", err)
	}

	return &Session{
		service: service,
	}, nil
}

// ResolveTab fetches the spreadsheet and looks up the worksheet by name.
// Titles are compared case-insensitively, ignoring embedded spaces.
func (s *Session) ResolveTab(ctx context.Context, spreadsheetID, worksheet string) (*Tab, error) {
	spreadsheet, err := s.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		var apierr *googleapi.Error
		if errors.As(err, &apierr) && (apierr.Code == http.StatusNotFound || apierr.Code == http.StatusForbidden) {
			return nil, &DestinationNotFoundError{SpreadsheetID: spreadsheetID, err: err}
		}

		return nil, fmt.Errorf("unable to fetch spreadsheet (%w)", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if normalise(sheet.Properties.Title) == normalise(worksheet) {
			return &Tab{
				service:       s.service,
				spreadsheetID: spreadsheet.SpreadsheetId,
				title:         sheet.Properties.Title,
			}, nil
		}
	}

	return nil, &TabNotFoundError{Worksheet: worksheet, SpreadsheetID: spreadsheetID}
}

// Tab is a handle on a single worksheet.
type Tab struct {
	service       *sheets.Service
	spreadsheetID string
	title         string
}

// Title returns the worksheet title as stored in the spreadsheet.
func (t *Tab) Title() string {
	return t.title
}

// Clear removes all values from the worksheet.
func (t *Tab) Clear(ctx context.Context) error {
	rq := sheets.ClearValuesRequest{}

	area := fmt.Sprintf("'%s'", t.title)
	if _, err := t.service.Spreadsheets.Values.Clear(t.spreadsheetID, area, &rq).Context(ctx).Do(); err != nil {
		return &RemoteWriteError{Op: "clear", err: err}
	}

	return nil
}

// WriteRange writes the rows with their top-left cell at (row, col),
// 1-based. Values are sent with 'user entered' semantics i.e. Sheets may
// reinterpret numeric-looking strings as numbers or dates.
func (t *Tab) WriteRange(ctx context.Context, row, col int, rows [][]string) error {
	area, err := rangeRef(t.title, row, col)
	if err != nil {
		return err
	}

	values := make([][]interface{}, len(rows))
	for i, record := range rows {
		cells := make([]interface{}, len(record))
		for j, v := range record {
			cells[j] = v
		}

		values[i] = cells
	}

	rq := sheets.ValueRange{
		Values: values,
	}

	if _, err := t.service.Spreadsheets.Values.Update(t.spreadsheetID, area, &rq).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do(); err != nil {
		return &RemoteWriteError{Op: fmt.Sprintf("write to %s", area), err: err}
	}

	return nil
}

// rangeRef maps a worksheet title and a 1-based row/column pair to an
// A1-style range reference.
func rangeRef(title string, row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("invalid destination cell (row %v, column %v)", row, col)
	}

	return fmt.Sprintf("'%s'!%s", title, cell), nil
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
