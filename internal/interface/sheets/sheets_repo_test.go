package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/utils"
)

type appendCall struct {
	rangeName string
	inputOpt  string
	values    [][]interface{}
}

// fakeSpreadsheet serves the subset of the Sheets API the repository uses
type fakeSpreadsheet struct {
	mu        sync.Mutex
	tabs      map[string]bool
	rows      map[string]int
	added     []string
	appends   []appendCall
	metaReads int
}

func (f *fakeSpreadsheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req gsheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, q := range req.Requests {
			title := q.AddSheet.Properties.Title
			f.tabs[title] = true
			f.added = append(f.added, title)
		}
		_ = json.NewEncoder(w).Encode(&gsheets.BatchUpdateSpreadsheetResponse{})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var body gsheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		rangeName := strings.TrimSuffix(path[strings.Index(path, "/values/")+len("/values/"):], ":append")
		f.appends = append(f.appends, appendCall{rangeName: rangeName, inputOpt: r.URL.Query().Get("valueInputOption"), values: body.Values})
		f.rows[sheetOf(rangeName)] += len(body.Values)
		_ = json.NewEncoder(w).Encode(&gsheets.AppendValuesResponse{})

	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		rangeName := path[strings.Index(path, "/values/")+len("/values/"):]
		resp := &gsheets.ValueRange{Range: rangeName}
		if f.rows[sheetOf(rangeName)] > 0 {
			resp.Values = [][]interface{}{{"header"}}
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodGet:
		f.metaReads++
		spreadsheet := &gsheets.Spreadsheet{}
		for title := range f.tabs {
			spreadsheet.Sheets = append(spreadsheet.Sheets, &gsheets.Sheet{Properties: &gsheets.SheetProperties{Title: title}})
		}
		_ = json.NewEncoder(w).Encode(spreadsheet)

	default:
		http.NotFound(w, r)
	}
}

func sheetOf(rangeName string) string {
	sheet, _, _ := strings.Cut(rangeName, "!")
	return strings.Trim(sheet, "'")
}

func newTestRepository(t *testing.T, fake *fakeSpreadsheet) *SheetsReservationLogRepository {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	repo, err := NewSheetsReservationLogRepository(context.Background(), "sheet-123", "Reservations", "DailySummary",
		logger.NewNopLogger(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return repo
}

func testReservation() *entity.Reservation {
	return &entity.Reservation{
		EventKind:          entity.EventNew,
		ParsedAt:           time.Date(2025, time.December, 20, 10, 0, 0, 0, time.UTC),
		BookingID:          "12345678",
		DinerName:          "山田 太郎",
		PhoneNumber:        "090-1234-5678",
		ReservationDate:    "2026/01/15",
		ReservationTime:    "18:00",
		OriginalDate:       "2026/01/15",
		GuestCount:         "2",
		CoursePlan:         "おまかせコース",
		Table:              "カウンター",
		ChangesSummary:     entity.NotAvailable,
		CancellationReason: entity.NotAvailable,
	}
}

func TestAppendCreatesSheetAndHeaderOnce(t *testing.T) {
	fake := &fakeSpreadsheet{tabs: map[string]bool{"Sheet1": true}, rows: map[string]int{}}
	repo := newTestRepository(t, fake)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testReservation()))
	require.NoError(t, repo.Append(ctx, testReservation()))

	assert.Equal(t, []string{"Reservations"}, fake.added)
	assert.Equal(t, 1, fake.metaReads)
	require.Len(t, fake.appends, 3)

	header := fake.appends[0]
	assert.Equal(t, "'Reservations'!A1", header.rangeName)
	assert.Len(t, header.values[0], len(utils.LogHeader()))

	row := fake.appends[1]
	assert.Equal(t, "RAW", row.inputOpt)
	assert.Equal(t, "090-1234-5678", row.values[0][2])
	assert.Equal(t, 3, fake.rows["Reservations"])
}

func TestAppendKeepsExistingHeader(t *testing.T) {
	fake := &fakeSpreadsheet{
		tabs: map[string]bool{"Reservations": true},
		rows: map[string]int{"Reservations": 5},
	}
	repo := newTestRepository(t, fake)

	require.NoError(t, repo.Append(context.Background(), testReservation()))

	assert.Empty(t, fake.added)
	require.Len(t, fake.appends, 1)
	assert.Equal(t, "山田 太郎", fake.appends[0].values[0][1])
}

func TestAppendRejectsUnknownKind(t *testing.T) {
	fake := &fakeSpreadsheet{tabs: map[string]bool{}, rows: map[string]int{}}
	repo := newTestRepository(t, fake)

	err := repo.Append(context.Background(), &entity.Reservation{EventKind: "moved"})

	assert.ErrorIs(t, err, utils.ErrUnknownEventKind)
	assert.Empty(t, fake.appends)
}

func TestAppendDailySummary(t *testing.T) {
	fake := &fakeSpreadsheet{tabs: map[string]bool{"DailySummary": true}, rows: map[string]int{}}
	repo := newTestRepository(t, fake)
	parsedAt := time.Date(2025, time.January, 15, 9, 5, 0, 0, time.UTC)

	err := repo.AppendDailySummary(context.Background(), []entity.DailySummaryEntry{
		{ParsedAt: parsedAt, ReservationDate: "2025/01/15", ReservationTime: "18:00", GuestCount: "2", DinerName: "山田 太郎"},
		{ParsedAt: parsedAt, ReservationDate: "2025/01/15", ReservationTime: "19:30", GuestCount: "4", DinerName: "佐藤 花子"},
	})
	require.NoError(t, err)

	require.Len(t, fake.appends, 2)
	assert.Equal(t, "'DailySummary'!A1", fake.appends[1].rangeName)
	assert.Len(t, fake.appends[1].values, 2)

	require.NoError(t, repo.AppendDailySummary(context.Background(), nil))
	assert.Len(t, fake.appends, 2)
}
