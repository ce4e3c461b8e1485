package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/bobby4fischer/E6Hackathon/pkg/storage"
)

func testServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.EnsureMetaTables(context.Background(), db))

	_, err = db.Exec(`CREATE TABLE sales (category TEXT, value REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sales VALUES
        ('A', 100), ('B', 200), ('A', 150), ('B', 250), ('C', 300)`)
	require.NoError(t, err)

	r := mux.NewRouter()
	RegisterRoutes(r, db)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, db
}

func postJSON(t *testing.T, url string, body any) (*http.Response, JSON) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded JSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListTables(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/tables")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Tables []string `json:"tables"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"sales"}, body.Tables)
}

func TestPostQueryExact(t *testing.T) {
	srv, _ := testServer(t)

	resp, body := postJSON(t, srv.URL+"/query", QueryRequest{SQL: "SELECT COUNT(value) AS cnt FROM sales"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["approximate"])

	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "5.000000", rows[0].([]any)[0])
}

func TestPostQueryApproximateHasBounds(t *testing.T) {
	srv, _ := testServer(t)

	resp, body := postJSON(t, srv.URL+"/query", QueryRequest{
		SQL: "SELECT COUNT(value) AS cnt FROM sales SAMPLE SYSTEMATIC 1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, body["approximate"])
	bounds, ok := body["bounds"].(map[string]any)
	require.True(t, ok, "approximate ungrouped COUNT should carry bounds")
	assert.Contains(t, bounds, "cnt")
}

func TestPostQueryMalformed(t *testing.T) {
	srv, _ := testServer(t)

	resp, body := postJSON(t, srv.URL+"/query", QueryRequest{SQL: "COUNT(value) sales"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
}

func TestPostQueryUnknownTable(t *testing.T) {
	srv, _ := testServer(t)

	resp, _ := postJSON(t, srv.URL+"/query", QueryRequest{SQL: "SELECT COUNT(value) FROM nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostSketchEstimateHLL(t *testing.T) {
	srv, db := testServer(t)

	// Single-digit cardinalities sit below the sketch's resolution, so the
	// fixture needs enough distinct users for linear counting to engage.
	_, err := db.Exec(`CREATE TABLE events (user_id TEXT)`)
	require.NoError(t, err)
	const distinct = 500
	for i := 0; i < distinct; i++ {
		_, err = db.Exec(`INSERT INTO events VALUES (?)`, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
	}

	resp, body := postJSON(t, srv.URL+"/sketches/estimate", SketchRequest{
		Table: "events", Column: "user_id", Type: "hyperloglog",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	est := body["estimate"].(float64)
	assert.InDelta(t, distinct, est, distinct*0.1)
}

func TestPostSketchEstimateCountMin(t *testing.T) {
	srv, _ := testServer(t)

	resp, body := postJSON(t, srv.URL+"/sketches/estimate", SketchRequest{
		Table: "sales", Column: "category", Type: "countmin", Value: "A",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["estimate"])
}

func TestPostSketchEstimateBloom(t *testing.T) {
	srv, _ := testServer(t)

	resp, body := postJSON(t, srv.URL+"/sketches/estimate", SketchRequest{
		Table: "sales", Column: "category", Type: "bloom", Value: "A",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["might_contain"])
}

func TestPostSketchEstimateUnknownType(t *testing.T) {
	srv, _ := testServer(t)

	resp, _ := postJSON(t, srv.URL+"/sketches/estimate", SketchRequest{
		Table: "sales", Column: "category", Type: "nope",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
