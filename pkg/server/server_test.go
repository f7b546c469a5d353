package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/observability"
	"github.com/matzehuels/brickwall/pkg/pipeline"
	"github.com/matzehuels/brickwall/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(pipeline.NewRunner(nil, nil, nil), store.NewMemoryStore(), nil, pipeline.Options{})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

const createBody = `{
	"config": {"column_width": 100, "row_height": 100},
	"container": {"width": 300, "height": 200},
	"items": [
		{"id": "a", "width": 200, "height": 100},
		{"id": "b", "width": 100, "height": 100},
		{"id": "c", "width": 100, "height": 100},
		{"id": "d", "width": 100, "height": 100}
	]
}`

func createSession(t *testing.T, h http.Handler, body string) layoutResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/sessions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[layoutResponse](t, rec)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreateSession(t *testing.T) {
	srv := newTestServer(t)
	resp := createSession(t, srv, createBody)

	if err := bwerrors.ValidateSessionID(resp.SessionID); err != nil {
		t.Errorf("session id: %v", err)
	}
	if resp.LayoutID == "" {
		t.Error("missing layout id")
	}
	res := resp.Layout.Result
	if res.GridCols != 3 || res.GridRows != 2 {
		t.Errorf("grid = %dx%d, want 3x2", res.GridCols, res.GridRows)
	}
	if p := res.Placements[1]; p.X != 200 || p.Y != 0 {
		t.Errorf("b at (%v,%v), want (200,0)", p.X, p.Y)
	}
	if p := res.Placements[3]; p.X != 100 || p.Y != 100 {
		t.Errorf("d at (%v,%v), want (100,100)", p.X, p.Y)
	}
}

func TestCreateSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code bwerrors.Code
	}{
		{"empty body", ``, bwerrors.ErrCodeInvalidInput},
		{"malformed", `{"items": [`, bwerrors.ErrCodeInvalidInput},
		{"unknown field", `{"colour": "red"}`, bwerrors.ErrCodeInvalidInput},
		{"bad orientation", `{"config": {"orientation": "diagonal"}}`, bwerrors.ErrCodeInvalidInput},
		{"negative item", `{"items": [{"width": -1, "height": 10}]}`, bwerrors.ErrCodeInvalidItems},
		{"duplicate ids", `{"items": [{"id": "x", "width": 1, "height": 1}, {"id": "x", "width": 1, "height": 1}]}`, bwerrors.ErrCodeInvalidItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := do(t, srv, http.MethodPost, "/v1/sessions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			if body := decode[errorBody](t, rec); body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
			if n := srv.sessions.len(); n != 0 {
				t.Errorf("%d sessions left after failed create", n)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv, createBody)

	body := `{"container": {"width": 200, "height": 400}, "items": [{"width": 100, "height": 100}, {"width": 100, "height": 100}, {"width": 100, "height": 100}]}`
	rec := do(t, srv, http.MethodPost, "/v1/sessions/"+created.SessionID+"/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[layoutResponse](t, rec)
	if resp.SessionID != created.SessionID || resp.LayoutID == created.LayoutID {
		t.Errorf("ids = %s/%s", resp.SessionID, resp.LayoutID)
	}
	if p := resp.Layout.Result.Placements[2]; p.X != 0 || p.Y != 100 {
		t.Errorf("third item at (%v,%v), want (0,100)", p.X, p.Y)
	}
}

func TestResize(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv, createBody)
	path := "/v1/sessions/" + created.SessionID + "/resize"

	rec := do(t, srv, http.MethodPost, path, `{"container": {"width": 350, "height": 250}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	same := decode[resizeResponse](t, rec)
	if same.Changed || same.Layout != nil {
		t.Errorf("same counts reported a change: %+v", same)
	}

	rec = do(t, srv, http.MethodPost, path, `{"container": {"width": 400, "height": 200}}`)
	changed := decode[resizeResponse](t, rec)
	if !changed.Changed || changed.Layout == nil {
		t.Fatalf("wider container not reported as change: %s", rec.Body.String())
	}
	if changed.Segments.Cols != 4 {
		t.Errorf("Segments.Cols = %d, want 4", changed.Segments.Cols)
	}
	res := changed.Layout.Layout.Result
	if len(res.Placements) != 4 {
		t.Fatalf("re-layout used %d items, want the session's 4", len(res.Placements))
	}
	// a (2 wide), b, c fill the first row of four; d wraps.
	if p := res.Placements[2]; p.X != 300 || p.Y != 0 {
		t.Errorf("c at (%v,%v), want (300,0)", p.X, p.Y)
	}

	rec = do(t, srv, http.MethodGet, "/v1/sessions/"+created.SessionID+"/layouts", nil)
	list := decode[listResponse](t, rec)
	if len(list.Layouts) != 2 {
		t.Errorf("stored layouts = %d, want 2", len(list.Layouts))
	}
}

func TestResizeOrientationOnly(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv, `{
		"config": {"column_width": 100, "row_height": 100, "resize_orientation_only": true},
		"container": {"width": 300, "height": 200},
		"items": [{"width": 100, "height": 100}]
	}`)

	rec := do(t, srv, http.MethodPost, "/v1/sessions/"+created.SessionID+"/resize", `{"container": {"width": 300, "height": 900}}`)
	if resp := decode[resizeResponse](t, rec); resp.Changed {
		t.Error("row-only change reported for a vertical session")
	}
}

func TestSessionNotFound(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   bwerrors.Code
	}{
		{"layout unknown", http.MethodPost, "/v1/sessions/" + uuid.NewString() + "/layout", http.StatusNotFound, bwerrors.ErrCodeSessionNotFound},
		{"resize unknown", http.MethodPost, "/v1/sessions/" + uuid.NewString() + "/resize", http.StatusNotFound, bwerrors.ErrCodeSessionNotFound},
		{"delete unknown", http.MethodDelete, "/v1/sessions/" + uuid.NewString(), http.StatusNotFound, bwerrors.ErrCodeSessionNotFound},
		{"malformed id", http.MethodPost, "/v1/sessions/not-a-uuid/layout", http.StatusBadRequest, bwerrors.ErrCodeInvalidInput},
		{"layout missing", http.MethodGet, "/v1/layouts/" + uuid.NewString(), http.StatusNotFound, bwerrors.ErrCodeLayoutNotFound},
		{"bad limit", http.MethodGet, "/v1/sessions/" + uuid.NewString() + "/layouts?limit=x", http.StatusBadRequest, bwerrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, `{}`)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if body := decode[errorBody](t, rec); body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv, createBody)

	rec := do(t, srv, http.MethodDelete, "/v1/sessions/"+created.SessionID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, "/v1/sessions/"+created.SessionID+"/layout", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("layout after delete status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/v1/layouts/"+created.LayoutID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("stored layout survived session delete: %d", rec.Code)
	}
}

func TestGetLayout(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv, createBody)

	rec := do(t, srv, http.MethodGet, "/v1/layouts/"+created.LayoutID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := decode[store.Document](t, rec)
	if doc.SessionID != created.SessionID || doc.Layout.Result.GridCols != 3 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestConcurrentLayouts(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv, createBody)
	path := "/v1/sessions/" + created.SessionID + "/layout"

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := do(t, srv, http.MethodPost, path, `{"items": [{"width": 100, "height": 100}]}`)
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d", rec.Code)
			}
		}()
	}
	wg.Wait()
}

// recordingHTTPHooks keeps the routes it saw.
type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t)
	do(t, srv, http.MethodGet, "/healthz", nil)
	do(t, srv, http.MethodGet, "/v1/layouts/"+uuid.NewString(), nil)

	want := []string{"GET /healthz", "GET /v1/layouts/{id}"}
	if len(hooks.routes) != len(want) {
		t.Fatalf("routes = %v, want %v", hooks.routes, want)
	}
	for i := range want {
		if hooks.routes[i] != want[i] {
			t.Errorf("route[%d] = %q, want %q", i, hooks.routes[i], want[i])
		}
	}
}
