package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testKey = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// helper: new Echo with a fake identity, the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetIdentity(c, Identity{UserID: 7, Role: RoleBorrower})
			return next(c)
		}
	})
	e.Use(IdempotencyMiddleware(rdb, ttl))
	e.POST("/api/loan-requests", handler)
	e.GET("/api/loan-requests", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderIdempotencyKey: testKey,
		HeaderRequestAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// simple handler to exercise respRecorder capture & saveFinal
func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	if rec := doReq(t, e, http.MethodGet, "/api/loan-requests", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)
	valid := validHeaders()

	cases := map[string]map[string]string{
		"missing key": {HeaderRequestAt: valid[HeaderRequestAt]},
		"invalid key": {HeaderIdempotencyKey: "NOT-VALID", HeaderRequestAt: valid[HeaderRequestAt]},
		"missing at":  {HeaderIdempotencyKey: testKey},
		"invalid at":  {HeaderIdempotencyKey: testKey, HeaderRequestAt: "not-a-time"},
		"skewed at": {
			HeaderIdempotencyKey: testKey,
			HeaderRequestAt:      time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339),
		},
	}
	for name, h := range cases {
		rec := doReq(t, e, http.MethodPost, "/api/loan-requests", mkJSONBody(t, map[string]int{"x": 1}), h)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s => want 400, got %d", name, rec.Code)
		}
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniRedis(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		calls++
		return okCreatedHandler(c)
	})

	rec1 := doReq(t, e, http.MethodPost, "/api/loan-requests", mkJSONBody(t, map[string]any{"book_id": 42}), validHeaders())
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	// Second request with SAME headers & body -> replay stored response (also 201)
	rec2 := doReq(t, e, http.MethodPost, "/api/loan-requests", mkJSONBody(t, map[string]any{"book_id": 42}), validHeaders())
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func Test_KeyIsScopedPerCaller(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	// another caller already used the same key
	other := buildKey(http.MethodPost, "/api/loan-requests", "8", testKey)
	if ok, err := provisionalSet(context.Background(), rdb, other, idempEntry{InProgress: true}); err != nil || !ok {
		t.Fatalf("seed: ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/api/loan-requests", mkJSONBody(t, map[string]any{"book_id": 42}), validHeaders())
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)
	body := []byte(`{"x":1}`)

	key := buildKey(http.MethodPost, "/api/loan-requests", "7", testKey)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(body), Key: testKey, CreatedAt: nowUTC()}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/api/loan-requests", bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	key := buildKey(http.MethodPost, "/api/loan-requests", "7", testKey)
	final := idempEntry{
		Code:       http.StatusCreated,
		Body:       []byte(`{"ok":true}`),
		BodySHA256: bodyHash([]byte(`{"x":1}`)),
		Key:        testKey,
		CreatedAt:  nowUTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/api/loan-requests", bytes.NewReader([]byte(`{"x":2}`)), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "different body") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func Test_ServerError_ReleasesKey(t *testing.T) {
	_, rdb := newMiniRedis(t)
	fail := true
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		if fail {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
		}
		return okCreatedHandler(c)
	})

	rec := doReq(t, e, http.MethodPost, "/api/loan-requests", mkJSONBody(t, map[string]int{"x": 1}), validHeaders())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}

	fail = false
	rec = doReq(t, e, http.MethodPost, "/api/loan-requests", mkJSONBody(t, map[string]int{"x": 1}), validHeaders())
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry after 5xx => want 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address → SetNX error (fast fail vs waiting the whole context)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	rec := doReq(t, e, http.MethodPost, "/api/loan-requests", bytes.NewReader([]byte(`{}`)), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
