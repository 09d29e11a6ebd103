package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/traders/internal/config"
	"github.com/mamadbah2/traders/internal/domain/models"
)

// GoogleSheetRepository stores every table as a sheet of one spreadsheet.
// It implements records.Table.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	titles        map[models.Kind]string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
// Extra client options are appended after the credentials file option.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		titles: map[models.Kind]string{
			models.KindPurchase:     cfg.PurchaseSheet,
			models.KindSale:         cfg.SaleSheet,
			models.KindModelHistory: cfg.ModelHistorySheet,
		},
		logger: logger,
	}, nil
}

// Read fetches every populated row of the sheet. Cells come back as their
// formatted text. A sheet that does not exist yields fs.ErrNotExist.
func (r *GoogleSheetRepository) Read(ctx context.Context, kind models.Kind) ([][]string, error) {
	title, err := r.title(kind)
	if err != nil {
		return nil, err
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, quote(title)).Context(ctx).Do()
	if err != nil {
		if isMissingRange(err) {
			return nil, fmt.Errorf("sheet %s: %w", title, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("read range %s: %w", title, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Write clears the sheet and writes rows from A1. Values are sent RAW so
// model numbers such as "007" keep their leading zeros.
func (r *GoogleSheetRepository) Write(ctx context.Context, kind models.Kind, rows [][]string) error {
	title, err := r.title(kind)
	if err != nil {
		return err
	}

	if err := r.ensureSheet(ctx, title); err != nil {
		return err
	}

	if _, err := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, quote(title), &sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear range %s: %w", title, err)
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}

	payload := &sheetsapi.ValueRange{Values: values}
	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, quote(title)+"!A1", payload).
		ValueInputOption("RAW").
		Context(ctx)
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("update range %s: %w", title, err)
	}

	r.logger.Debug("sheet rewritten", zap.String("sheet", title), zap.Int("rows", len(rows)))
	return nil
}

func (r *GoogleSheetRepository) ensureSheet(ctx context.Context, title string) error {
	spreadsheet, err := r.service.Spreadsheets.Get(r.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("load spreadsheet %s: %w", r.spreadsheetID, err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := r.service.Spreadsheets.BatchUpdate(r.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	r.logger.Info("sheet created", zap.String("sheet", title))
	return nil
}

func (r *GoogleSheetRepository) title(kind models.Kind) (string, error) {
	title, ok := r.titles[kind]
	if !ok || title == "" {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
	}
	return title, nil
}

// quote wraps a sheet title for A1 notation.
func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func isMissingRange(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}
