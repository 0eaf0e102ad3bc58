package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"woo-analytics/models"
	"woo-analytics/utils"
)

func sampleReport() *models.Report {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Report{
		RunID:        "test-run",
		PeriodStart:  date,
		PeriodEnd:    date.AddDate(0, 0, 30),
		StatusFilter: "Tutti",
		GeneratedAt:  time.Now(),
		Orders: []models.OrderRecord{
			{OrderID: 101, OrderDate: date, Total: decimal.RequireFromString("30.00")},
			{OrderID: 102, OrderDate: date.AddDate(0, 0, 1), Total: decimal.RequireFromString("70.00")},
		},
		Daily: []models.DailyRevenue{
			{Date: date, Total: decimal.RequireFromString("30.00")},
			{Date: date.AddDate(0, 0, 1), Total: decimal.RequireFromString("70.00")},
		},
	}
}

func request(t *testing.T, h func(echo.Context) error, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestHandlersReturn503WhileLoading(t *testing.T) {
	h := NewHandler(nil, nil, utils.NewLogger())

	for name, fn := range map[string]func(echo.Context) error{
		"report": h.GetReport,
		"orders": h.GetOrders,
		"daily":  h.GetDailyRevenue,
	} {
		rec := request(t, fn, "/api/"+name)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: got %d, want 503", name, rec.Code)
		}
	}
}

func TestGetDailyRevenue(t *testing.T) {
	h := NewHandler(nil, nil, utils.NewLogger())
	h.SetData(sampleReport())

	rec := request(t, h.GetDailyRevenue, "/api/revenue/daily")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}

	var rows []models.DailyRevenue
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestGetOrdersPagination(t *testing.T) {
	h := NewHandler(nil, nil, utils.NewLogger())
	h.SetData(sampleReport())

	rec := request(t, h.GetOrders, "/api/orders?limit=1&offset=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}

	var body struct {
		Data  []models.OrderRecord `json:"data"`
		Total int                  `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("total: got %d, want 2", body.Total)
	}
	if len(body.Data) != 1 || body.Data[0].OrderID != 102 {
		t.Errorf("page content: %+v", body.Data)
	}
}

func TestRefreshRejectsBadDates(t *testing.T) {
	h := NewHandler(nil, nil, utils.NewLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh?from=garbage&to=2024-01-31", nil)
	rec := httptest.NewRecorder()
	if err := h.Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rec.Code)
	}
}
