package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"budgetbot/internal/core"
	ports "budgetbot/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Default tab names inside the spreadsheet.
const (
	DefaultPlanSheet     = "Plan"
	DefaultRegisterSheet = "Register"
	DefaultLogSheet      = "Log"
)

// Config selects the spreadsheet and credentials.
type Config struct {
	SpreadsheetID string
	PlanSheet     string
	RegisterSheet string
	LogSheet      string

	// Service account credentials, inline JSON or a file path. When both
	// are empty GOOGLE_APPLICATION_CREDENTIALS is used.
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client stores the ledger in tabs of one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	planSheet     string
	registerSheet string
	logSheet      string
	logger        *slog.Logger
}

// Ensure interface conformance
var _ ports.LedgerStore = (*Client)(nil)

// New creates a Sheets client and makes sure the ledger tabs exist.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	c := &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		planSheet:     orDefault(cfg.PlanSheet, DefaultPlanSheet),
		registerSheet: orDefault(cfg.RegisterSheet, DefaultRegisterSheet),
		logSheet:      orDefault(cfg.LogSheet, DefaultLogSheet),
		logger:        logger,
	}
	if err := c.ensureSheets(ctx); err != nil {
		return nil, fmt.Errorf("ensure sheets: %w", err)
	}
	return c, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, cfg Config, logger *slog.Logger) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ensureSheets adds any missing ledger tab to the spreadsheet.
func (c *Client) ensureSheets(ctx context.Context) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	existing := make(map[string]bool, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	var reqs []*gsheet.Request
	for _, title := range []string{c.planSheet, c.registerSheet, c.logSheet} {
		if existing[title] {
			continue
		}
		existing[title] = true
		reqs = append(reqs, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		})
	}
	if len(reqs) == 0 {
		return nil
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheets: %w", err)
	}
	c.logger.InfoContext(ctx, "Created ledger sheets", "count", len(reqs))
	return nil
}

// LoadPlan implements sheets.PlanStore
func (c *Client) LoadPlan(ctx context.Context) (core.Plan, error) {
	records, err := c.load(ctx, c.planSheet, ports.PlanHeader)
	if err != nil {
		return nil, err
	}
	return ports.DecodePlan(c.planSheet, records)
}

// SavePlan implements sheets.PlanStore
func (c *Client) SavePlan(ctx context.Context, p core.Plan) error {
	if err := c.replace(ctx, c.planSheet, len(ports.PlanHeader), ports.EncodePlan(p)); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// LoadRegister implements sheets.RegisterStore
func (c *Client) LoadRegister(ctx context.Context) (core.Register, error) {
	records, err := c.load(ctx, c.registerSheet, ports.RegisterHeader)
	if err != nil {
		return nil, err
	}
	return ports.DecodeRegister(c.registerSheet, records)
}

// SaveRegister implements sheets.RegisterStore
func (c *Client) SaveRegister(ctx context.Context, r core.Register) error {
	if err := c.replace(ctx, c.registerSheet, len(ports.RegisterHeader), ports.EncodeRegister(r)); err != nil {
		return fmt.Errorf("save register: %w", err)
	}
	return nil
}

// EnsureLogHeader writes header to the log tab when the tab is empty.
func (c *Client) EnsureLogHeader(ctx context.Context, header []string) error {
	rng := fmt.Sprintf("%s!A1:%s1", c.logSheet, columnName(len(header)))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) > 0 {
		return nil
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: toValues([][]string{header})}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write log header: %w", err)
	}
	return nil
}

// AppendLog appends one row to the log tab.
func (c *Client) AppendLog(ctx context.Context, row []string) error {
	rng := fmt.Sprintf("%s!A:%s", c.logSheet, columnName(len(row)))
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: toValues([][]string{row})}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.logSheet, err)
	}
	return nil
}

func (c *Client) load(ctx context.Context, sheet string, header []string) ([][]string, error) {
	rng := fmt.Sprintf("%s!A:%s", sheet, columnName(len(header)))
	// Unformatted numbers survive grouping separators and locale formats
	// applied to hand-edited cells.
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		if err := c.replace(ctx, sheet, len(header), [][]string{header}); err != nil {
			return nil, fmt.Errorf("create %s: %w", sheet, err)
		}
		c.logger.InfoContext(ctx, "Created ledger sheet header", "sheet", sheet)
		return [][]string{header}, nil
	}
	return toRecords(resp.Values, len(header)), nil
}

// replace clears the table columns of sheet and writes records from A1.
func (c *Client) replace(ctx context.Context, sheet string, width int, records [][]string) error {
	rng := fmt.Sprintf("%s!A:%s", sheet, columnName(width))
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, sheet+"!A1", &gsheet.ValueRange{Values: toValues(records)}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", sheet, err)
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
