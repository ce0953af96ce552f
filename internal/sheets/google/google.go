// Package google exports expenses to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spendlens/internal/core"
	applog "spendlens/internal/log"
	"spendlens/internal/ports"
)

const defaultBatchSize = 200

// Config selects the target sheet and the service account used to reach it.
type Config struct {
	SpreadsheetID      string
	SheetName          string // base name; the current year is prefixed
	ServiceAccountJSON string
	ServiceAccountFile string
	// OAuth client and token, used when no service account is configured.
	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
	BatchSize       int
}

// Exporter appends expense rows to a sheet. Rows are never rewritten, so the
// sheet doubles as an audit log of created and updated records.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	batchSize     int

	mu        sync.Mutex
	hasHeader bool
}

var _ ports.ExpenseExporter = (*Exporter)(nil)

// NewExporter creates a Sheets client from service account credentials.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		applog.FieldComponent, applog.ComponentSheets,
		"spreadsheet_id", cfg.SpreadsheetID)
	return newExporter(svc, cfg, time.Now().Year()), nil
}

func newExporter(svc *gsheet.Service, cfg Config, year int) *Exporter {
	base := strings.TrimSpace(cfg.SheetName)
	if base == "" {
		base = "Expenses"
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     yearPrefixedName(base, year),
		batchSize:     batch,
	}
}

func clientOptions(ctx context.Context, cfg Config) ([]goption.ClientOption, error) {
	sa, err := readInline(cfg.ServiceAccountJSON, cfg.ServiceAccountFile, "service account")
	if err != nil {
		return nil, err
	}
	if sa != nil {
		return []goption.ClientOption{
			goption.WithCredentialsJSON(sa),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}, nil
	}

	client, err := readInline(cfg.OAuthClientJSON, cfg.OAuthClientFile, "oauth client")
	if err != nil {
		return nil, err
	}
	token, err := readInline(cfg.OAuthTokenJSON, cfg.OAuthTokenFile, "oauth token")
	if err != nil {
		return nil, err
	}
	if client == nil || token == nil {
		return nil, errors.New("missing credentials (set GOOGLE_SERVICE_ACCOUNT_JSON/FILE or GOOGLE_OAUTH_CLIENT_* and GOOGLE_OAUTH_TOKEN_*)")
	}

	httpClient, err := OAuthHTTPClient(ctx, client, token)
	if err != nil {
		return nil, err
	}
	return []goption.ClientOption{goption.WithHTTPClient(httpClient)}, nil
}

// readInline returns the inline value if set, else the file contents, else nil.
func readInline(inline, file, what string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(file) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", what, err)
	}
	return b, nil
}

// SheetName returns the year-prefixed sheet rows are appended to.
func (x *Exporter) SheetName() string {
	return x.sheetName
}

// AppendExpenses appends one row per expense, in batches. A sheet with an
// empty first row gets the Header row first.
func (x *Exporter) AppendExpenses(ctx context.Context, es []core.Expense) error {
	if x.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(es) == 0 {
		return nil
	}
	if err := x.ensureHeader(ctx); err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A:H", x.sheetName)
	for start := 0; start < len(es); start += x.batchSize {
		end := min(start+x.batchSize, len(es))

		values := make([][]any, 0, end-start)
		for _, e := range es[start:end] {
			values = append(values, Row(e))
		}

		_, err := x.svc.Spreadsheets.Values.Append(x.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("append rows %d-%d to %s: %w", start, end, x.sheetName, err)
		}

		slog.InfoContext(ctx, "Appended expenses to sheet",
			applog.FieldComponent, applog.ComponentSheets,
			applog.FieldCount, end-start,
			"sheet", x.sheetName)
	}
	return nil
}

func (x *Exporter) ensureHeader(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.hasHeader {
		return nil
	}

	resp, err := x.svc.Spreadsheets.Values.Get(x.spreadsheetID, fmt.Sprintf("%s!A1:H1", x.sheetName)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", x.sheetName, err)
	}
	if len(resp.Values) == 0 {
		_, err := x.svc.Spreadsheets.Values.Append(x.spreadsheetID, fmt.Sprintf("%s!A:H", x.sheetName),
			&gsheet.ValueRange{Values: [][]any{Header()}}).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("write header to %s: %w", x.sheetName, err)
		}
		slog.InfoContext(ctx, "Wrote header row",
			applog.FieldComponent, applog.ComponentSheets,
			"sheet", x.sheetName)
	}
	x.hasHeader = true
	return nil
}

// Header is the column layout written by Row.
func Header() []any {
	return []any{"Date", "Description", "Amount", "Category", "AI", "Tags", "ID", "Created"}
}

// Row renders an expense as a sheet row.
func Row(e core.Expense) []any {
	ai := ""
	if e.AISuggested {
		ai = "yes"
	}
	return []any{
		e.Date.String(),
		e.Description,
		e.Amount.String(),
		string(e.Category),
		ai,
		strings.Join(e.Tags, ", "),
		e.ID,
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func yearPrefixedName(base string, year int) string {
	return fmt.Sprintf("%d %s", year, strings.TrimSpace(base))
}
