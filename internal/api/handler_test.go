package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/abbasm/cashier-topup/internal/engine"
	"github.com/abbasm/cashier-topup/internal/smscache"
)

type fakeEngine struct {
	inbound []engine.Inbound
}

func (f *fakeEngine) HandleMessage(_ context.Context, in engine.Inbound) error {
	f.inbound = append(f.inbound, in)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *smscache.Cache, *fakeEngine) {
	t.Helper()

	ex, err := smscache.NewRegexExtractor(smscache.DefaultPattern)
	if err != nil {
		t.Fatalf("compile extractor: %v", err)
	}
	cache := smscache.New(0, 0, ex)
	eng := &fakeEngine{}
	return NewHandler(cache, eng, nil), cache, eng
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	h, _, _ := newTestHandler(t)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "running") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestSMSIngest(t *testing.T) {
	h, cache, _ := newTestHandler(t)

	body := `{"sender":"bank","message":"Amount received: 25000 SYP. The operation code is 999111."}`
	w := serve(h, httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "received" {
		t.Errorf("status field = %q", resp["status"])
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("cache holds %d records, want 1", got)
	}
}

func TestSMSIngestAcceptsAnyContent(t *testing.T) {
	h, cache, _ := newTestHandler(t)

	w := serve(h, httptest.NewRequest(http.MethodPost, "/sms",
		strings.NewReader(`{"sender":"","message":"gibberish"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, ingest must never reject based on content", w.Code)
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("cache holds %d records, want 1", got)
	}
}

func TestSMSIngestRejectsMalformedJSON(t *testing.T) {
	h, cache, _ := newTestHandler(t)

	w := serve(h, httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(`{not json`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := cache.Len(); got != 0 {
		t.Errorf("malformed payload was ingested, cache len = %d", got)
	}
}

func TestWebhookDispatch(t *testing.T) {
	h, _, eng := newTestHandler(t)

	body := `{"update_id":7,"message":{"message_id":1,"from":{"id":42,"username":"ahmad"},"chat":{"id":42},"text":"/start"}}`
	w := serve(h, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(eng.inbound) != 1 {
		t.Fatalf("engine received %d messages, want 1", len(eng.inbound))
	}
	in := eng.inbound[0]
	if in.UserID != 42 || in.ChatID != 42 || in.Username != "ahmad" || in.Text != "/start" {
		t.Errorf("inbound = %+v", in)
	}
}

func TestWebhookIgnoresNonTextUpdates(t *testing.T) {
	h, _, eng := newTestHandler(t)

	for _, body := range []string{
		`{"update_id":1}`,
		`{"update_id":2,"message":{"message_id":1,"chat":{"id":42},"text":""}}`,
	} {
		w := serve(h, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d for %q", w.Code, body)
		}
	}
	if len(eng.inbound) != 0 {
		t.Errorf("engine received %d messages, want 0", len(eng.inbound))
	}
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	h, _, _ := newTestHandler(t)

	w := serve(h, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`[`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
