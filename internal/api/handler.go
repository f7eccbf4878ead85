// Package api provides HTTP handlers for the top-up verification service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abbasm/cashier-topup/internal/engine"
	"github.com/abbasm/cashier-topup/internal/smscache"
	"github.com/abbasm/cashier-topup/internal/telegram"
)

// UpdateHandler dispatches one decoded chat update.
type UpdateHandler interface {
	HandleMessage(ctx context.Context, in engine.Inbound) error
}

// Handler wires the two inbound webhook channels to the cache and the
// conversation engine.
type Handler struct {
	cache  *smscache.Cache
	engine UpdateHandler
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(cache *smscache.Cache, updates UpdateHandler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{cache: cache, engine: updates, logger: logger}
}

// RegisterRoutes mounts the public endpoints on r. webhookGuards apply to
// the chat webhook only; the SMS forwarder cannot attach the secret header.
func (h *Handler) RegisterRoutes(r chi.Router, webhookGuards ...func(http.Handler) http.Handler) {
	r.Get("/", h.handleRoot)
	r.Post("/sms", h.handleSMS)
	r.With(webhookGuards...).Post("/webhook", h.handleWebhook)
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Server is running"))
}

type smsPayload struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// handleSMS ingests one forwarded bank SMS. Content is never rejected:
// anything that decodes is accepted and left for the correlation cache to
// judge at match time.
func (h *Handler) handleSMS(w http.ResponseWriter, r *http.Request) {
	var payload smsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h.logger.Info("sms received", "sender", payload.Sender, "length", len(payload.Message))
	h.cache.Ingest(payload.Sender, payload.Message)

	JSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// handleWebhook decodes one chat update and runs it through the engine.
// Internal failures are logged, never surfaced to the transport: Telegram
// retries non-200 responses, and replaying a conversation step is worse
// than dropping a reply.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		Error(w, http.StatusBadRequest, "invalid update payload")
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	err := h.engine.HandleMessage(r.Context(), engine.Inbound{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.Username,
		Text:     msg.Text,
	})
	if err != nil {
		h.logger.Error("update handling failed", "update_id", update.UpdateID, "user_id", msg.From.ID, "error", err)
	}

	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
