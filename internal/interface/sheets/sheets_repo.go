package sheets

import (
	"context"
	"fmt"
	"sync"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/utils"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// SheetsReservationLogRepository appends reservation rows to a Google spreadsheet
type SheetsReservationLogRepository struct {
	service       *gsheets.Service
	spreadsheetID string
	sheetName     string
	summarySheet  string
	logger        logger.Logger

	mu    sync.Mutex
	ready map[string]bool
}

// NewSheetsReservationLogRepository creates a new Google Sheets reservation log
func NewSheetsReservationLogRepository(
	ctx context.Context,
	spreadsheetID string,
	sheetName string,
	summarySheet string,
	logger logger.Logger,
	opts ...option.ClientOption,
) (*SheetsReservationLogRepository, error) {
	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &SheetsReservationLogRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		summarySheet:  summarySheet,
		logger:        logger,
		ready:         make(map[string]bool),
	}, nil
}

var _ repository.ReservationLogRepository = (*SheetsReservationLogRepository)(nil)

// Append writes one reservation row in the column layout of its kind
func (r *SheetsReservationLogRepository) Append(ctx context.Context, reservation *entity.Reservation) error {
	row, err := utils.LogRowValues(reservation)
	if err != nil {
		return err
	}
	if err := r.ensureSheet(ctx, r.sheetName, utils.LogHeader()); err != nil {
		return err
	}
	return r.appendRows(ctx, r.sheetName, [][]interface{}{row})
}

// AppendDailySummary writes every digest entry to the summary sheet
func (r *SheetsReservationLogRepository) AppendDailySummary(ctx context.Context, entries []entity.DailySummaryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.ensureSheet(ctx, r.summarySheet, utils.DailySummaryHeader()); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, utils.DailySummaryRowValues(e))
	}
	return r.appendRows(ctx, r.summarySheet, rows)
}

func (r *SheetsReservationLogRepository) appendRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	_, err := r.service.Spreadsheets.Values.Append(r.spreadsheetID, a1(sheet, "A1"), &gsheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheet %q: %w", sheet, err)
	}
	return nil
}

// ensureSheet creates the tab when missing and writes the header row into an
// empty tab. The check runs once per tab per process.
func (r *SheetsReservationLogRepository) ensureSheet(ctx context.Context, sheet string, header []interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready[sheet] {
		return nil
	}

	spreadsheet, err := r.service.Spreadsheets.Get(r.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	exists := false
	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			exists = true
			break
		}
	}

	if !exists {
		req := &gsheets.BatchUpdateSpreadsheetRequest{
			Requests: []*gsheets.Request{
				{AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{Title: sheet}}},
			},
		}
		if _, err := r.service.Spreadsheets.BatchUpdate(r.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
		r.logger.Info("Created sheet", "sheet", sheet)
	}

	first, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, a1(sheet, "A1:A1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(first.Values) == 0 {
		if err := r.appendRows(ctx, sheet, [][]interface{}{header}); err != nil {
			return err
		}
		r.logger.Info("Initialized sheet headers", "sheet", sheet)
	}

	r.ready[sheet] = true
	return nil
}

func a1(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", sheet, cells)
}
