package app

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/db"
	"finance-tracker-go/internal/events"
	"finance-tracker-go/internal/transport/httpserver"
	"finance-tracker-go/pkg/logger"
)

const jwtSecret = "app-test-secret"

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	gormDB, err := db.NewSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	cfg := config.Config{
		TimeZone: "UTC",
		Auth:     config.AuthConfig{JWTSecret: jwtSecret},
		Import:   config.ImportConfig{MaxUploadBytes: 1 << 20},
		Cache:    config.CacheConfig{CategoryTTL: time.Minute},
	}

	handlers, cleanup, err := NewHandlers(gormDB, cfg, events.Nop{}, logger.NewNop())
	require.NoError(t, err)

	server := httptest.NewServer(httpserver.NewRouter(cfg, handlers, logger.NewNop()))
	t.Cleanup(func() {
		server.Close()
		_ = cleanup()
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	return &apiClient{t: t, server: server, token: token}
}

func (c *apiClient) do(method, path, contentType string, body io.Reader) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c *apiClient) json(method, path string, payload any, wantStatus int, out any) {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	resp := c.do(method, path, "application/json", body)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	require.Equal(c.t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(raw, out))
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type categoryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

type transactionDTO struct {
	ID             string           `json:"id"`
	CategoryName   string           `json:"categoryName"`
	Amount         decimal.Decimal  `json:"amount"`
	RunningBalance *decimal.Decimal `json:"runningBalance"`
}

func TestAPIRequiresToken(t *testing.T) {
	api := newAPI(t)

	api.json(http.MethodGet, "/api/health", nil, http.StatusOK, nil)

	api.token = ""
	var envelope errorEnvelope
	api.json(http.MethodGet, "/api/categories", nil, http.StatusUnauthorized, &envelope)
	require.Equal(t, "invalid_token", envelope.Error.Code)
}

func TestAPILedgerFlow(t *testing.T) {
	api := newAPI(t)

	var food, salary categoryDTO
	api.json(http.MethodPost, "/api/categories", map[string]string{"name": "Food", "type": "expense", "color": "#FF0000"}, http.StatusCreated, &food)
	require.Equal(t, "#ff0000", food.Color)
	require.Equal(t, "EXPENSE", food.Type)
	api.json(http.MethodPost, "/api/categories", map[string]string{"name": "Salary", "type": "INCOME", "color": "#0f0"}, http.StatusCreated, &salary)

	var envelope errorEnvelope
	api.json(http.MethodPost, "/api/categories", map[string]string{"name": "Food", "type": "EXPENSE", "color": "#000"}, http.StatusConflict, &envelope)
	require.Equal(t, "duplicate_category", envelope.Error.Code)

	api.json(http.MethodPost, "/api/transactions", map[string]any{
		"categoryId": salary.ID, "type": "INCOME", "amount": "1000", "transactionDate": "2026-03-01",
	}, http.StatusCreated, nil)
	api.json(http.MethodPost, "/api/transactions", map[string]any{
		"categoryId": food.ID, "type": "EXPENSE", "amount": 150.5, "transactionDate": "2026-03-02T12:00:00", "note": "groceries",
	}, http.StatusCreated, nil)

	envelope = errorEnvelope{}
	api.json(http.MethodPost, "/api/transactions", map[string]any{
		"categoryId": food.ID, "type": "INCOME", "amount": "5", "transactionDate": "2026-03-03",
	}, http.StatusBadRequest, &envelope)
	require.Equal(t, "kind_mismatch", envelope.Error.Code)

	var page struct {
		Items      []transactionDTO `json:"items"`
		Total      int64            `json:"total"`
		TotalPages int              `json:"totalPages"`
	}
	api.json(http.MethodGet, "/api/transactions?month=3&year=2026&sort=date_asc", nil, http.StatusOK, &page)
	require.EqualValues(t, 2, page.Total)
	require.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 2)
	require.True(t, page.Items[0].RunningBalance.Equal(decimal.NewFromInt(1000)))
	require.True(t, page.Items[1].RunningBalance.Equal(decimal.RequireFromString("849.5")))
	require.Equal(t, "Food", page.Items[1].CategoryName)

	page.Items = nil
	api.json(http.MethodGet, "/api/transactions?keyword=GROC", nil, http.StatusOK, &page)
	require.Len(t, page.Items, 1)

	var summary struct {
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		Balance      decimal.Decimal `json:"balance"`
	}
	api.json(http.MethodGet, "/api/dashboard/summary?month=3&year=2026", nil, http.StatusOK, &summary)
	require.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(1000)))
	require.True(t, summary.TotalExpense.Equal(decimal.RequireFromString("150.5")))
	require.True(t, summary.Balance.Equal(decimal.RequireFromString("849.5")))

	var totals struct {
		TotalExpense decimal.Decimal `json:"totalExpense"`
		Count        int64           `json:"transactionCount"`
	}
	api.json(http.MethodGet, "/api/reports/totals?month=3&year=2026", nil, http.StatusOK, &totals)
	require.True(t, totals.TotalExpense.Equal(decimal.RequireFromString("150.5")))
	require.EqualValues(t, 2, totals.Count)

	var chart struct {
		Labels []string `json:"labels"`
	}
	api.json(http.MethodGet, "/api/dashboard/daily-chart?month=2&year=2028", nil, http.StatusOK, &chart)
	require.Len(t, chart.Labels, 29)

	api.json(http.MethodPost, "/api/budgets", map[string]any{"categoryId": food.ID, "amount": "100", "month": 3, "year": 2026}, http.StatusCreated, nil)
	envelope = errorEnvelope{}
	api.json(http.MethodPost, "/api/budgets", map[string]any{"categoryId": food.ID, "amount": "200", "month": 3, "year": 2026}, http.StatusConflict, &envelope)
	require.Equal(t, "duplicate_budget", envelope.Error.Code)

	var statuses []struct {
		SpentAmount decimal.Decimal `json:"spentAmount"`
		Percentage  float64         `json:"percentage"`
		Exceeded    bool            `json:"isExceeded"`
	}
	api.json(http.MethodGet, "/api/budgets/status?month=3&year=2026", nil, http.StatusOK, &statuses)
	require.Len(t, statuses, 1)
	require.True(t, statuses[0].Exceeded)
	require.Equal(t, 150.5, statuses[0].Percentage)

	envelope = errorEnvelope{}
	api.json(http.MethodDelete, "/api/categories/"+food.ID, nil, http.StatusConflict, &envelope)
	require.Equal(t, "category_in_use", envelope.Error.Code)

	envelope = errorEnvelope{}
	api.json(http.MethodGet, "/api/transactions/"+uuid.NewString(), nil, http.StatusNotFound, &envelope)
	require.Equal(t, "transaction_not_found", envelope.Error.Code)

	envelope = errorEnvelope{}
	api.json(http.MethodGet, "/api/dashboard/summary?month=13", nil, http.StatusBadRequest, &envelope)
	require.Equal(t, "invalid_period", envelope.Error.Code)
}

func TestAPIExportAndImport(t *testing.T) {
	api := newAPI(t)

	var food categoryDTO
	api.json(http.MethodPost, "/api/categories", map[string]string{"name": "Food", "type": "EXPENSE", "color": "#ff0000"}, http.StatusCreated, &food)

	upload := func(filename string, rows ...[]any) *http.Response {
		f := excelize.NewFile()
		defer f.Close()
		all := append([][]any{{"Date", "Type", "Category", "Amount", "Note"}}, rows...)
		for i, row := range all {
			row := row
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		workbook := &bytes.Buffer{}
		require.NoError(t, f.Write(workbook))

		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(workbook.Bytes())
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		return api.do(http.MethodPost, "/api/transactions/import", mw.FormDataContentType(), body)
	}

	resp := upload("march.xlsx",
		[]any{"2026-03-10", "EXPENSE", "Food", "20", "snack"},
		[]any{"2026-03-11", "EXPENSE", "Unknown", "5", ""},
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		TotalRows    int      `json:"totalRows"`
		SuccessCount int      `json:"successCount"`
		ErrorCount   int      `json:"errorCount"`
		Errors       []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, 2, result.TotalRows)
	require.Equal(t, 1, result.SuccessCount)
	require.Equal(t, []string{"Row 3: category 'Unknown' not found"}, result.Errors)

	resp = upload("march.csv", []any{"2026-03-10", "EXPENSE", "Food", "20", ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/reports/export/csv?month=3&year=2026", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), `filename="transactions_2026_3.csv"`)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Equal(t, []string{
		"Date,Type,Category,Amount,Note",
		`2026-03-10T00:00:00,EXPENSE,Food,20.00,"snack"`,
	}, lines)

	resp = api.do(http.MethodGet, "/api/reports/export/pdf", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/transactions/import/template", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "transaction_import_template.xlsx")
}
