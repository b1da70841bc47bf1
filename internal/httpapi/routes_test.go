package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
)

func newTestAPI(t *testing.T) (*WebServer, *cache.Engine) {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.CleanupInterval = 0
	engine, err := cache.New(cfg)
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	server := New()
	api := NewCacheAPI(engine, 0)
	api.Register(server)
	return server, engine
}

func TestHandleSetAndGet(t *testing.T) {
	server, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPut, "/cache/widget", bytes.NewBufferString("gizmo"))
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/cache/widget", nil)
	rec = httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gizmo", rec.Body.String())
}

func TestHandleGetMissing(t *testing.T) {
	server, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/cache/nope", nil)
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSetEntryTooLarge(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.MaxBytes = 8
	cfg.CleanupInterval = 0
	engine, err := cache.New(cfg)
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	server := New()
	NewCacheAPI(engine, 0).Register(server)

	req := httptest.NewRequest(http.MethodPut, "/cache/k", bytes.NewBufferString("this value is far too large"))
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	server, engine := newTestAPI(t)
	require.NoError(t, engine.Set([]byte("k"), []byte("v"), nil))

	req := httptest.NewRequest(http.MethodDelete, "/cache/k", nil)
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cache/k", nil)
	rec = httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleClearRequiresConfirm(t *testing.T) {
	server, engine := newTestAPI(t)
	require.NoError(t, engine.Set([]byte("k"), []byte("v"), nil))

	req := httptest.NewRequest(http.MethodDelete, "/cache", nil)
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cache?confirm=true", nil)
	rec = httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body clearResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestHandleBatchGetAndSet(t *testing.T) {
	server, engine := newTestAPI(t)
	require.NoError(t, engine.Set([]byte("a"), []byte("1"), nil))

	setReq := httptest.NewRequest(http.MethodPost, "/cache/batch/set",
		bytes.NewBufferString(`{"items":{"b":"2","c":"3"}}`))
	setReq.Header.Set("Content-Type", "application/json")
	setRec := httptest.NewRecorder()
	server.framework.ServeHTTP(setRec, setReq)
	assert.Equal(t, http.StatusOK, setRec.Code)

	var setBody batchSetResponse
	require.NoError(t, json.Unmarshal(setRec.Body.Bytes(), &setBody))
	assert.Equal(t, 2, setBody.Count)
	assert.Empty(t, setBody.Failed)

	getReq := httptest.NewRequest(http.MethodPost, "/cache/batch/get",
		bytes.NewBufferString(`{"keys":["a","b","missing"]}`))
	getReq.Header.Set("Content-Type", "application/json")
	getRec := httptest.NewRecorder()
	server.framework.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)

	var getBody batchGetResponse
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &getBody))
	assert.Equal(t, "1", getBody.Values["a"])
	assert.Equal(t, "2", getBody.Values["b"])
	assert.Contains(t, getBody.Misses, "missing")
}

func TestHandleStats(t *testing.T) {
	server, engine := newTestAPI(t)
	require.NoError(t, engine.Set([]byte("k"), []byte("v"), nil))
	_, _ = engine.Get([]byte("k"))
	_, _ = engine.Get([]byte("missing"))

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(1), body.Hits)
	assert.Equal(t, uint64(1), body.Misses)
	assert.Equal(t, uint64(1), body.Sets)
}

func TestHandleKeysPattern(t *testing.T) {
	server, engine := newTestAPI(t)
	require.NoError(t, engine.Set([]byte("user:1"), []byte("a"), nil))
	require.NoError(t, engine.Set([]byte("user:2"), []byte("b"), nil))
	require.NoError(t, engine.Set([]byte("order:1"), []byte("c"), nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/keys?pattern=user:*", nil)
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body keysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Keys, 2)
}

func TestHandleKeysLimitClampedToPageSize(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.CleanupInterval = 0
	engine, err := cache.New(cfg)
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, engine.Set([]byte(k), []byte("v"), nil))
	}

	server := New()
	NewCacheAPI(engine, 2).Register(server)

	req := httptest.NewRequest(http.MethodGet, "/admin/keys?limit=100", nil)
	rec := httptest.NewRecorder()
	server.framework.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body keysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Keys, 2)
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{cache.ErrNotFound, http.StatusNotFound},
		{cache.ErrEntryTooLarge, http.StatusRequestEntityTooLarge},
		{cache.ErrCapacityExceeded, http.StatusInsufficientStorage},
		{cache.ErrInvalidKey, http.StatusBadRequest},
		{cache.ErrInvalidTTL, http.StatusBadRequest},
		{cache.ErrShuttingDown, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), tc.err.Error())
	}
}
