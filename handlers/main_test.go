package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"letterstosanta.app/cloud/internal/notify"
	"letterstosanta.app/cloud/internal/testutil"
	"letterstosanta.app/cloud/storage"
)

type testServer struct {
	*Server
	DB         *storage.MemoryStorage
	NewOrders  *notify.Recorder
	DailyMails *notify.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := storage.NewMemoryStorage()
	newOrders := &notify.Recorder{}
	dailyMails := &notify.Recorder{}
	srv := NewHttpServer(testutil.TestConfig(), db, newOrders, dailyMails)
	return &testServer{Server: srv, DB: db, NewOrders: newOrders, DailyMails: dailyMails}
}

// do sends a JSON request through the full router. headers come in
// key/value pairs.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}
