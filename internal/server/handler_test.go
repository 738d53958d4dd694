package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-locator/internal/common/logger"
	"business-locator/internal/store"
	"business-locator/pkg/registry"
)

type fakeRuns struct {
	runs map[string]*store.SearchRun
	err  error
}

func (f *fakeRuns) Get(_ context.Context, id string) (*store.SearchRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.runs[id], nil
}

func newTestServer(t *testing.T, runs RunReader, checks map[string]Pinger) (*httptest.Server, *store.ResultStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	results := store.NewResultStore(rdb, time.Hour)
	mux := http.NewServeMux()
	NewHandler(results, runs, checks, logger.NewTestLogger(t)).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, results
}

func TestDownloadExport(t *testing.T) {
	srv, results := newTestServer(t, &fakeRuns{}, nil)

	content := []byte("PK\x03\x04workbook")
	require.NoError(t, results.Save(context.Background(), store.StoredExport{
		SearchID: "abc",
		FileName: "austin_search_results.xlsx",
		Content:  content,
	}))

	resp, err := http.Get(srv.URL + "/exports/abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="austin_search_results.xlsx"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, int64(len(content)), resp.ContentLength)
}

func TestDownloadExport_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, &fakeRuns{}, nil)

	resp, err := http.Get(srv.URL + "/exports/missing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "EXPORT_NOT_FOUND", body["code"])
}

func TestGetSearch(t *testing.T) {
	runs := &fakeRuns{runs: map[string]*store.SearchRun{
		"abc": {ID: "abc", SearchName: "Austin", Terms: []string{"bakery"}, RecordCount: 2},
	}}
	srv, _ := newTestServer(t, runs, nil)

	resp, err := http.Get(srv.URL + "/searches/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run store.SearchRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "Austin", run.SearchName)
	assert.Equal(t, 2, run.RecordCount)

	resp2, err := http.Get(srv.URL + "/searches/nope")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestGetSearch_StoreError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeRuns{err: errors.New("db down")}, nil)

	resp, err := http.Get(srv.URL + "/searches/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	srv, _ := newTestServer(t, &fakeRuns{}, map[string]Pinger{"redis": ok})
	resp, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv, _ = newTestServer(t, &fakeRuns{}, map[string]Pinger{"redis": ok, "postgres": down})
	resp, err = http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Failed map[string]string `json:"failed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"postgres": "refused"}, body.Failed)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeRuns{}, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestActivities(t *testing.T) {
	reg := registry.New("1.0.0")
	require.NoError(t, reg.Add(registry.Activity{ID: "business-search", TaskType: "business-search"}))

	mux := http.NewServeMux()
	NewHandler(nil, &fakeRuns{}, nil, logger.NewTestLogger(t)).WithActivities(reg).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/activities")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got registry.ActivityRegistry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "1.0.0", got.Version)
	require.Len(t, got.Activities, 1)
	assert.Equal(t, "business-search", got.Activities[0].TaskType)
}
