package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"transaction-dashboard/internal/analytics"
	"transaction-dashboard/internal/database"
	"transaction-dashboard/internal/models"
	"transaction-dashboard/internal/services/seeder"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	items []models.Transaction
	err   error
	reads atomic.Int32
}

func (f *fakeStore) All(ctx context.Context) ([]models.Transaction, error) {
	f.reads.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeSeeder struct {
	inserted int
	err      error
}

func (f *fakeSeeder) Seed(ctx context.Context) (seeder.SeedSummary, error) {
	return seeder.SeedSummary{Inserted: f.inserted}, f.err
}

func newTestRouter(store *fakeStore, seed Seeder) *gin.Engine {
	if seed == nil {
		seed = &fakeSeeder{}
	}
	return NewRouter(analytics.NewEngine(store), seed, zerolog.Nop())
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(rr, req)
	return rr
}

func sale(id int64, price float64, sold bool, category, day string) models.Transaction {
	d, _ := time.Parse("2006-01-02", day)
	return models.Transaction{ID: id, Title: "t", Price: price, Sold: sold, Category: category, DateOfSale: d}
}

func TestHealth(t *testing.T) {
	rr := get(t, newTestRouter(&fakeStore{}, nil), "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(&fakeStore{}, nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(&fakeStore{}, nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestEmptyStoreScenario(t *testing.T) {
	r := newTestRouter(&fakeStore{}, nil)

	rr := get(t, r, "/api/statistics/march")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"totalPrice":0,"totalItemSold":0,"totalItemNotSold":0}`, rr.Body.String())

	rr = get(t, r, "/api/pie-chart/march")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ItemCountsByCategory":[]}`, rr.Body.String())

	rr = get(t, r, "/api/bar-chart/march")
	require.Equal(t, http.StatusOK, rr.Code)
	var bar analytics.BarChart
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bar))
	require.Len(t, bar.ItemCounts, 10)
	for _, b := range bar.ItemCounts {
		assert.Zero(t, b.Value, b.Category)
	}

	rr = get(t, r, "/api/list-transactions/march")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = get(t, r, "/api/search")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestSingleRecordScenario(t *testing.T) {
	store := &fakeStore{items: []models.Transaction{sale(1, 150, true, "A", "2022-03-05")}}
	r := newTestRouter(store, nil)

	rr := get(t, r, "/api/statistics/march")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"totalPrice":150,"totalItemSold":1,"totalItemNotSold":0}`, rr.Body.String())

	rr = get(t, r, "/api/pie-chart/MARCH")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ItemCountsByCategory":[{"category":"A","value":1}]}`, rr.Body.String())

	rr = get(t, r, "/api/bar-chart/march")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"itemCounts":[
		{"category":"0-100","value":0},
		{"category":"101-200","value":1},
		{"category":"201-300","value":0},
		{"category":"301-400","value":0},
		{"category":"401-500","value":0},
		{"category":"501-600","value":0},
		{"category":"601-700","value":0},
		{"category":"701-800","value":0},
		{"category":"801-900","value":0},
		{"category":"901-above","value":0}
	]}`, rr.Body.String())

	rr = get(t, r, "/api/list-transactions/march")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"title":"t","price":150,"description":"","category":"A","image":"",
		"sold":true,"dateOfSale":"2022-03-05T00:00:00Z"}]`, rr.Body.String())
}

func TestCombinedData(t *testing.T) {
	store := &fakeStore{items: []models.Transaction{sale(1, 150, true, "A", "2022-03-05")}}
	rr := get(t, newTestRouter(store, nil), "/api/combined-data/march")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.JSONEq(t, `{"totalPrice":150,"totalItemSold":1,"totalItemNotSold":0}`, string(body["dataFromAPI1"]))
	assert.JSONEq(t, `{"ItemCountsByCategory":[{"category":"A","value":1}]}`, string(body["dataFromAPI2"]))
	assert.Contains(t, string(body["dataFromAPI3"]), `"itemCounts"`)

	// fields are emitted in statistics, pie, bar order
	raw := rr.Body.String()
	assert.Less(t, bytes.Index([]byte(raw), []byte("dataFromAPI1")), bytes.Index([]byte(raw), []byte("dataFromAPI2")))
	assert.Less(t, bytes.Index([]byte(raw), []byte("dataFromAPI2")), bytes.Index([]byte(raw), []byte("dataFromAPI3")))
}

func TestInvalidMonthRejectedBeforeStore(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store, nil)

	for _, prefix := range []string{"statistics", "pie-chart", "bar-chart", "list-transactions", "combined-data", "export"} {
		rr := get(t, r, fmt.Sprintf("/api/%s/marc", prefix))
		assert.Equal(t, http.StatusBadRequest, rr.Code, prefix)
		assert.JSONEq(t, `{"error":"Invalid month name"}`, rr.Body.String(), prefix)
	}
	assert.Zero(t, store.reads.Load())
}

func TestStoreReadFailure(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("%w: connection refused", database.ErrStorageRead)}
	r := newTestRouter(store, nil)

	for _, path := range []string{"/api/search", "/api/statistics/march", "/api/combined-data/march"} {
		rr := get(t, r, path)
		assert.Equal(t, http.StatusInternalServerError, rr.Code, path)
		assert.JSONEq(t, `{"error":"Failed to read transactions"}`, rr.Body.String(), path)
	}
}

func TestInitializeDatabase(t *testing.T) {
	rr := get(t, newTestRouter(&fakeStore{}, &fakeSeeder{inserted: 60}), "/api/initialize-database")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Database initialized","inserted":60}`, rr.Body.String())
}

func TestInitializeDatabaseFailures(t *testing.T) {
	cases := map[string]struct {
		err error
		msg string
	}{
		"upstream": {fmt.Errorf("%w: status 503", seeder.ErrUpstreamFetch), "Failed to fetch seed data"},
		"storage":  {fmt.Errorf("%w: duplicate column", seeder.ErrStorageWrite), "Failed to store seed data"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			rr := get(t, newTestRouter(&fakeStore{}, &fakeSeeder{err: c.err}), "/api/initialize-database")
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, c.msg), rr.Body.String())
		})
	}
}

func TestExportMonth(t *testing.T) {
	store := &fakeStore{items: []models.Transaction{
		sale(1, 150, true, "A", "2022-03-05"),
		sale(2, 80, false, "B", "2022-04-05"),
	}}
	rr := get(t, newTestRouter(store, nil), "/api/export/march")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "transactions-march.xlsx")

	f, err := excelize.OpenReader(rr.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
