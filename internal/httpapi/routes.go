package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
	"github.com/GabrielNunesIT/cachecore/internal/workerpool"
)

// CacheAPI wires the cache engine's public operations onto its HTTP route
// table. It holds no state of its own beyond the engine and the admin keys
// page-size ceiling.
type CacheAPI struct {
	engine          *cache.Engine
	maxKeysPageSize int
}

// NewCacheAPI builds a CacheAPI for engine. maxKeysPageSize bounds the
// limit accepted by GET /admin/keys regardless of what the caller asks for.
func NewCacheAPI(engine *cache.Engine, maxKeysPageSize int) *CacheAPI {
	if maxKeysPageSize <= 0 {
		maxKeysPageSize = 10000
	}
	return &CacheAPI{engine: engine, maxKeysPageSize: maxKeysPageSize}
}

// Register mounts the cache CRUD routes, the batch operations, and the
// engine stats and admin keys endpoints on server.
func (api *CacheAPI) Register(server *WebServer) {
	server.GET("/cache/:key", api.handleGet)
	server.PUT("/cache/:key", api.handleSet)
	server.DELETE("/cache/:key", api.handleDelete)
	server.DELETE("/cache", api.handleClear)
	server.POST("/cache/batch/get", api.handleBatchGet)
	server.POST("/cache/batch/set", api.handleBatchSet)
	server.GET("/stats", api.handleStats)
	server.GET("/admin/keys", api.handleKeys)
}

// statusForError maps the engine's sentinel error taxonomy to HTTP status
// codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cache.ErrEntryTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, cache.ErrCapacityExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, cache.ErrInvalidKey), errors.Is(err, cache.ErrInvalidTTL):
		return http.StatusBadRequest
	case errors.Is(err, cache.ErrShuttingDown):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeEngineError(c Context, err error) error {
	return c.JSON(statusForError(err), errorBody{Error: err.Error()})
}

// parseTTL reads the optional ?ttl={seconds} query parameter, returning nil
// when omitted so the engine can distinguish "omitted" from "explicit
// zero".
func parseTTL(c Context) (*time.Duration, error) {
	raw := c.QueryParam("ttl")
	if raw == "" {
		return nil, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return nil, cache.ErrInvalidTTL
	}
	ttl := time.Duration(seconds) * time.Second
	return &ttl, nil
}

func (api *CacheAPI) handleGet(c Context) error {
	key := c.Param("key")
	value, err := api.engine.Get([]byte(key))
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.Blob(http.StatusOK, "application/octet-stream", value)
}

func (api *CacheAPI) handleSet(c Context) error {
	key := c.Param("key")
	ttl, err := parseTTL(c)
	if err != nil {
		return writeEngineError(c, err)
	}

	body, err := readBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "could not read request body"})
	}

	if err := api.engine.Set([]byte(key), body, ttl); err != nil {
		return writeEngineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (api *CacheAPI) handleDelete(c Context) error {
	key := c.Param("key")
	found, err := api.engine.Delete([]byte(key))
	if err != nil {
		return writeEngineError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, errorBody{Error: cache.ErrNotFound.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (api *CacheAPI) handleClear(c Context) error {
	if c.QueryParam("confirm") != "true" {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "clear requires ?confirm=true"})
	}
	n, err := api.engine.Clear()
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, clearResponse{Count: n})
}

type clearResponse struct {
	Count int `json:"count"`
}

type batchGetRequest struct {
	Keys []string `json:"keys"`
}

type batchGetResult struct {
	key   string
	value []byte
	err   error
}

// handleBatchGet fans out one engine Get per requested key across a bounded
// worker pool, then assembles a key→value map of the hits. Misses and
// errors are omitted from the map and reported in a parallel "misses"
// field.
func (api *CacheAPI) handleBatchGet(c Context) error {
	var req batchGetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid batch get request"})
	}

	results := make([]batchGetResult, len(req.Keys))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := workerpool.New(ctx, func(_ context.Context, idx int) {
		key := req.Keys[idx]
		value, err := api.engine.Get([]byte(key))
		results[idx] = batchGetResult{key: key, value: value, err: err}
	}, workerpool.WithWorkers[int](batchWorkerCount(len(req.Keys))))

	for i := range req.Keys {
		pool.Submit(i)
	}
	pool.Shutdown()

	values := make(map[string]string, len(results))
	misses := make([]string, 0)
	for _, r := range results {
		if r.err != nil {
			misses = append(misses, r.key)
			continue
		}
		values[r.key] = string(r.value)
	}

	return c.JSON(http.StatusOK, batchGetResponse{Values: values, Misses: misses})
}

type batchGetResponse struct {
	Values map[string]string `json:"values"`
	Misses []string          `json:"misses"`
}

type batchSetRequest struct {
	Items map[string]string `json:"items"`
	TTL   *int               `json:"ttl,omitempty"`
}

// handleBatchSet fans out one engine Set per item, applying the same
// optional ttl (in seconds) uniformly to every insert and update in the
// batch.
func (api *CacheAPI) handleBatchSet(c Context) error {
	var req batchSetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid batch set request"})
	}

	var ttl *time.Duration
	if req.TTL != nil {
		d := time.Duration(*req.TTL) * time.Second
		ttl = &d
	}

	keys := make([]string, 0, len(req.Items))
	for k := range req.Items {
		keys = append(keys, k)
	}

	errs := make([]error, len(keys))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := workerpool.New(ctx, func(_ context.Context, idx int) {
		key := keys[idx]
		errs[idx] = api.engine.Set([]byte(key), []byte(req.Items[key]), ttl)
	}, workerpool.WithWorkers[int](batchWorkerCount(len(keys))))

	for i := range keys {
		pool.Submit(i)
	}
	pool.Shutdown()

	succeeded := 0
	failed := make(map[string]string)
	for i, err := range errs {
		if err != nil {
			failed[keys[i]] = err.Error()
			continue
		}
		succeeded++
	}

	return c.JSON(http.StatusOK, batchSetResponse{Count: succeeded, Failed: failed})
}

type batchSetResponse struct {
	Count  int               `json:"count"`
	Failed map[string]string `json:"failed,omitempty"`
}

func (api *CacheAPI) handleStats(c Context) error {
	s := api.engine.Stats()
	return c.JSON(http.StatusOK, statsResponse{
		Hits:          s.Hits,
		Misses:        s.Misses,
		Sets:          s.Sets,
		Deletes:       s.Deletes,
		Evictions:     s.Evictions,
		Expirations:   s.Expirations,
		CurrentSize:   s.CurrentSize,
		CurrentBytes:  s.CurrentBytes,
		HitRatio:      s.HitRatio(),
		UptimeSeconds: s.Uptime().Seconds(),
		MemoryUsageMB: s.MemoryUsageMB(),
	})
}

type statsResponse struct {
	Hits          uint64  `json:"hits"`
	Misses        uint64  `json:"misses"`
	Sets          uint64  `json:"sets"`
	Deletes       uint64  `json:"deletes"`
	Evictions     uint64  `json:"evictions"`
	Expirations   uint64  `json:"expirations"`
	CurrentSize   int     `json:"current_size"`
	CurrentBytes  int     `json:"current_bytes"`
	HitRatio      float64 `json:"hit_ratio"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	MemoryUsageMB float64 `json:"memory_usage_mb"`
}

// handleKeys lists keys matching ?pattern. An omitted ?limit means 1000; any
// limit is clamped to maxKeysPageSize.
func (api *CacheAPI) handleKeys(c Context) error {
	const defaultKeysLimit = 1000
	pattern := c.QueryParam("pattern")
	limit := api.maxKeysPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
		}
		if n < limit {
			limit = n
		}
	} else if limit > defaultKeysLimit {
		limit = defaultKeysLimit
	}

	keys, err := api.engine.Keys(pattern, limit)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, keysResponse{Keys: keys})
}

type keysResponse struct {
	Keys []string `json:"keys"`
}

// batchWorkerCount bounds the worker pool size to the batch size itself,
// never exceeding a small fixed ceiling so one oversized request can't
// spin up an unbounded number of goroutines.
func batchWorkerCount(n int) int {
	const ceiling = 32
	if n <= 0 {
		return 1
	}
	if n > ceiling {
		return ceiling
	}
	return n
}
