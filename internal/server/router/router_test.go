package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/traders/internal/config"
	"github.com/mamadbah2/traders/internal/repository/csvfile"
	"github.com/mamadbah2/traders/internal/repository/records"
	"github.com/mamadbah2/traders/internal/server/handlers"
	"github.com/mamadbah2/traders/internal/server/router"
	"github.com/mamadbah2/traders/internal/service/reporting"
	"github.com/mamadbah2/traders/internal/service/transactions"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	store := records.NewStore(csvfile.NewTable(config.StorageConfig{
		PurchaseFile:     filepath.Join(dir, "purchase_data.csv"),
		SaleFile:         filepath.Join(dir, "sale_data.csv"),
		ModelHistoryFile: filepath.Join(dir, "model_history.csv"),
	}, nil), nil)
	require.NoError(t, store.EnsureAll(context.Background()))

	svc := transactions.NewService(store, nil, time.UTC, nil)
	reports := reporting.NewService(svc, "PKR", nil)
	return router.New(handlers.NewRecordsHandler(svc, reports, nil), nil)
}

func do(engine *gin.Engine, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const purchaseJSON = `{"item":"Laptop","company":"HP","model":"840 G9","dealer":"Ahmed","city":"Lahore","price":"100","units":"10"}`

func TestPurchaseAndSaleFlow(t *testing.T) {
	engine := newEngine(t)

	rec := do(engine, http.MethodPost, "/purchases", "application/json", purchaseJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	form := url.Values{
		"sale_dealer":   {"Bilal"},
		"item_sold":     {"LAPTOP"},
		"company_sold":  {"hp"},
		"model_sold":    {"840 g9"},
		"quantity_sold": {"5"},
		"sale_price":    {"150"},
	}
	rec = do(engine, http.MethodPost, "/sales", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode(t, rec)["sale"].(map[string]any)
	assert.Equal(t, "750", sale["total_bill"])
	assert.Equal(t, "250", sale["profit"])
	assert.Equal(t, "Laptop", sale["item_sold"])

	rec = do(engine, http.MethodGet, "/sales", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["sales"], 1)

	rec = do(engine, http.MethodGet, "/reports/monthly", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	months := decode(t, rec)["months"].([]any)
	require.Len(t, months, 1)
	assert.Equal(t, "250", months[0].(map[string]any)["total_profit"])

	rec = do(engine, http.MethodGet, "/models?item=laptop", "", "")
	assert.Equal(t, []any{"840 G9"}, decode(t, rec)["models"])
}

func TestErrorStatusCodes(t *testing.T) {
	engine := newEngine(t)

	rec := do(engine, http.MethodPost, "/purchases", "application/json", `{"item":"Laptop"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "company")

	rec = do(engine, http.MethodPost, "/purchases", "application/json", strings.Replace(purchaseJSON, `"units":"10"`, `"units":"abc"`, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(engine, http.MethodPost, "/sales", "application/json",
		`{"sale_dealer":"B","item_sold":"Juicer","company_sold":"Anex","model_sold":"AG-1","quantity_sold":"1","sale_price":"10"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "no matching purchase record")

	rec = do(engine, http.MethodDelete, "/records/purchases", "application/json", `{"indices":[0]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(engine, http.MethodDelete, "/records/stock", "application/json", `{"indices":[0]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodPost, "/purchases", "application/json", `{"item":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAndReset(t *testing.T) {
	engine := newEngine(t)
	for _, model := range []string{"A", "B", "C"} {
		body := strings.Replace(purchaseJSON, `"840 G9"`, `"`+model+`"`, 1)
		require.Equal(t, http.StatusCreated, do(engine, http.MethodPost, "/purchases", "application/json", body).Code)
	}

	rec := do(engine, http.MethodDelete, "/records/purchases", "application/json", `{"indices":[1]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(engine, http.MethodGet, "/purchases", "", "")
	purchases := decode(t, rec)["purchases"].([]any)
	require.Len(t, purchases, 2)
	assert.Equal(t, "A", purchases[0].(map[string]any)["model"])
	assert.Equal(t, "C", purchases[1].(map[string]any)["model"])

	rec = do(engine, http.MethodPost, "/reset", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(engine, http.MethodPost, "/reset?confirm=true", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(engine, http.MethodGet, "/purchases", "", "")
	assert.Empty(t, decode(t, rec)["purchases"])
}

func TestMonthlyPDFAndHealth(t *testing.T) {
	engine := newEngine(t)

	rec := do(engine, http.MethodGet, "/reports/monthly.pdf", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))

	rec = do(engine, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(engine, http.MethodGet, "/items", "", "")
	assert.Contains(t, decode(t, rec)["items"], "Washing Machine")
}
