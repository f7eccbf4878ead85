package telegram

import (
	"context"

	"github.com/abbasm/cashier-topup/internal/engine"
)

// Sender adapts Client to the engine's Messenger interface, mapping
// keyboard hints to Bot API reply markup.
type Sender struct {
	client *Client
}

// NewSender wraps a client.
func NewSender(client *Client) *Sender {
	return &Sender{client: client}
}

// Send implements engine.Messenger.
func (s *Sender) Send(ctx context.Context, chatID int64, text string, kb engine.Keyboard) error {
	return s.client.SendMessage(ctx, chatID, text, markupFor(kb))
}

func markupFor(kb engine.Keyboard) any {
	switch kb {
	case engine.KeyboardRemove:
		return ReplyKeyboardRemove{RemoveKeyboard: true}
	case engine.KeyboardMain:
		return keyboard(
			row(engine.BtnTopup),
			row(engine.BtnProfile),
			row(engine.BtnHelp),
		)
	case engine.KeyboardYesNo:
		return keyboard(row(engine.BtnYes, engine.BtnNo))
	case engine.KeyboardBack:
		return keyboard(row(engine.BtnBack))
	case engine.KeyboardDoneBack:
		return keyboard(
			row(engine.BtnDone),
			row(engine.BtnBack),
		)
	case engine.KeyboardMethodBack:
		return keyboard(
			row(engine.BtnSyriatel),
			row(engine.BtnBack),
		)
	}
	return nil
}

func keyboard(rows ...[]KeyboardButton) ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}

func row(labels ...string) []KeyboardButton {
	buttons := make([]KeyboardButton, len(labels))
	for i, label := range labels {
		buttons[i] = KeyboardButton{Text: label}
	}
	return buttons
}
