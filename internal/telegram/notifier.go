package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abbasm/cashier-topup/internal/domain"
)

// Notifier sends a confirmation summary to the admin chat after every
// successful top-up. Delivery is best-effort: failures are logged and
// never propagate into the user's conversation.
type Notifier struct {
	client *Client
	chatID int64
	logger *slog.Logger
}

// NewNotifier creates a notifier for the given admin chat.
func NewNotifier(client *Client, chatID int64, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{client: client, chatID: chatID, logger: logger}
}

// TopupConfirmed implements engine.AdminNotifier.
func (n *Notifier) TopupConfirmed(ctx context.Context, sess *domain.Session, amount int64) {
	if n.chatID == 0 {
		return
	}

	username := sess.Username
	if username == "" {
		username = "—"
	}
	text := fmt.Sprintf(
		"Account top-up confirmed\n\nName: %s\nAge: %d\nTop-ups: %d\nAmount: %d SYP\nUserID: %d\nUsername: @%s",
		sess.FullName, sess.Age, sess.SuccessfulTopups, amount, sess.UserID, username,
	)

	if err := n.client.SendMessage(ctx, n.chatID, text, nil); err != nil {
		n.logger.Error("admin notification failed", "user_id", sess.UserID, "error", err)
	}
}
