package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
)

func newTestContainer(filter restful.FilterFunction, handler restful.RouteFunction) *restful.Container {
	container := restful.NewContainer()

	ws := new(restful.WebService)
	ws.Path("/test").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").To(handler))

	container.Add(ws)
	container.Filter(filter)

	return container
}

func okHandler(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, map[string]string{"status": "ok"})
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	container := newTestContainer(RequestID, func(req *restful.Request, resp *restful.Response) {
		seen = GetRequestID(req)
		okHandler(req, resp)
	})

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if seen == "" {
		t.Error("Expected a generated request ID in the request attributes")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("Expected response header %q to echo %q, got %q", RequestIDHeader, seen, got)
	}
}

func TestRequestID_EchoesCallerID(t *testing.T) {
	container := newTestContainer(RequestID, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "caller-id-123")

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "caller-id-123" {
		t.Errorf("Expected caller's request ID to be echoed, got %q", got)
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	container := newTestContainer(APIKeyAuth(false, "secret"), okHandler)

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with auth disabled, got %d", rec.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	container := newTestContainer(APIKeyAuth(true, "secret"), okHandler)

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for missing key, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse error body: %v", err)
	}
	if body.Error != "missing API key" {
		t.Errorf("Expected 'missing API key' error, got %q", body.Error)
	}
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	container := newTestContainer(APIKeyAuth(true, "secret"), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(APIKeyHeader, "nope")

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong key, got %d", rec.Code)
	}
}

func TestAPIKeyAuth_CorrectKey(t *testing.T) {
	container := newTestContainer(APIKeyAuth(true, "secret"), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(APIKeyHeader, "secret")

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for correct key, got %d", rec.Code)
	}
}

func TestRecoverPanic(t *testing.T) {
	container := newTestContainer(RecoverPanic, func(req *restful.Request, resp *restful.Response) {
		panic("handler exploded")
	})

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 after panic, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse error body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("Expected generic error message, got %q", body.Error)
	}
}

func TestProcessTime_SetsHeader(t *testing.T) {
	handler := ProcessTime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Process-Time-Ms") == "" {
		t.Error("Expected X-Process-Time-Ms header to be set")
	}
}

func TestProcessTime_ImplicitHeader(t *testing.T) {
	// A handler that writes the body without an explicit WriteHeader call.
	handler := ProcessTime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Process-Time-Ms") == "" {
		t.Error("Expected X-Process-Time-Ms header to be set")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected implicit 200, got %d", rec.Code)
	}
}
