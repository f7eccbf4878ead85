package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abbasm/cashier-topup/internal/domain"
	"github.com/abbasm/cashier-topup/internal/validate"
)

type reply struct {
	text string
	kb   Keyboard
}

// dispatch applies one input to the session and returns the reply to send.
// Global overrides (/start, Back) run before per-state dispatch.
func (e *Engine) dispatch(ctx context.Context, sess *domain.Session, text string) reply {
	if text == CmdStart {
		return e.start(sess)
	}

	if text == BtnBack {
		// Registration fields are mandatory; navigation is locked until
		// both are captured.
		if sess.State == domain.StateAwaitingName || sess.State == domain.StateAwaitingAge {
			return reply{msgFinishSignup, KeyboardBack}
		}
		sess.State = domain.StateMainMenu
		sess.Pending = nil
		return reply{msgBackToMenu, KeyboardMain}
	}

	switch sess.State {
	case domain.StateInitial:
		return e.consent(sess, text)
	case domain.StateNoAccount:
		return reply{fmt.Sprintf(msgNeedsRegister, e.cfg.SupportContact), KeyboardRemove}
	case domain.StateAwaitingName:
		return e.captureName(sess, text)
	case domain.StateAwaitingAge:
		return e.captureAge(sess, text)
	case domain.StateMainMenu:
		return e.mainMenu(sess, text)
	case domain.StateAwaitingMethod:
		return e.chooseMethod(sess, text)
	case domain.StateAwaitingAmount:
		return e.captureAmount(sess, text)
	case domain.StateAwaitingSent:
		return e.confirmSent(sess, text)
	case domain.StateAwaitingCode:
		return e.verifyCode(ctx, sess, text)
	}

	// Unknown state can only appear through a corrupted store; recover to
	// the entry point.
	e.logger.Error("session in unknown state, resetting", "user_id", sess.UserID, "state", sess.State)
	sess.State = domain.StateInitial
	sess.Pending = nil
	return e.start(sess)
}

func (e *Engine) start(sess *domain.Session) reply {
	sess.Pending = nil
	if sess.Registered() {
		// Idempotent re-entry: registered users skip consent.
		sess.State = domain.StateMainMenu
		return reply{msgWelcomeBack, KeyboardMain}
	}
	sess.State = domain.StateInitial
	return reply{msgConsent, KeyboardYesNo}
}

func (e *Engine) consent(sess *domain.Session, text string) reply {
	switch text {
	case BtnYes:
		if sess.Registered() {
			sess.State = domain.StateMainMenu
			return reply{msgWelcomeBack, KeyboardMain}
		}
		sess.State = domain.StateAwaitingName
		return reply{msgAskName, KeyboardRemove}
	case BtnNo:
		sess.State = domain.StateNoAccount
		return reply{fmt.Sprintf(msgNeedsRegister, e.cfg.SupportContact), KeyboardRemove}
	}
	return reply{msgConsent, KeyboardYesNo}
}

func (e *Engine) captureName(sess *domain.Session, text string) reply {
	if !validate.IsFullName(text) {
		return reply{msgBadName, KeyboardBack}
	}
	sess.FullName = text
	sess.State = domain.StateAwaitingAge
	return reply{msgAskAge, KeyboardBack}
}

func (e *Engine) captureAge(sess *domain.Session, text string) reply {
	if !validate.IsAge(text) {
		return reply{msgBadAge, KeyboardBack}
	}
	age, _ := strconv.Atoi(strings.TrimSpace(text))
	sess.Age = age
	sess.State = domain.StateMainMenu
	return reply{msgSaved, KeyboardMain}
}

func (e *Engine) mainMenu(sess *domain.Session, text string) reply {
	switch text {
	case BtnTopup:
		sess.State = domain.StateAwaitingMethod
		return reply{msgChooseMethod, KeyboardMethodBack}
	case BtnProfile:
		return reply{profileSummary(sess.FullName, sess.Age, sess.SuccessfulTopups), KeyboardMain}
	case BtnHelp:
		return reply{fmt.Sprintf(msgHelp, e.cfg.SupportContact), KeyboardMain}
	}
	return reply{msgMenu, KeyboardMain}
}

func (e *Engine) chooseMethod(sess *domain.Session, text string) reply {
	if text != BtnSyriatel {
		return reply{msgOnlySyriatel, KeyboardMethodBack}
	}
	sess.Pending = &domain.PendingClaim{Method: domain.MethodSyriatelCash}
	sess.State = domain.StateAwaitingAmount
	return reply{msgAskAmount, KeyboardBack}
}

func (e *Engine) captureAmount(sess *domain.Session, text string) reply {
	amount, ok := validate.ParseAmount(text)
	if !ok {
		return reply{msgBadAmount, KeyboardBack}
	}
	if sess.Pending == nil {
		sess.Pending = &domain.PendingClaim{Method: domain.MethodSyriatelCash}
	}
	sess.Pending.Amount = amount
	sess.State = domain.StateAwaitingSent
	return reply{paymentInstructions(e.cfg.PaymentNumber, e.cfg.PaymentCode), KeyboardDoneBack}
}

func (e *Engine) confirmSent(sess *domain.Session, text string) reply {
	if text != BtnDone {
		return reply{paymentInstructions(e.cfg.PaymentNumber, e.cfg.PaymentCode) + "\n\n" + msgPressDone, KeyboardDoneBack}
	}
	sess.State = domain.StateAwaitingCode
	return reply{msgAskCode, KeyboardBack}
}

func (e *Engine) verifyCode(ctx context.Context, sess *domain.Session, text string) reply {
	var amount int64
	if sess.Pending != nil {
		amount = sess.Pending.Amount
	}

	if !e.cache.MatchAndConsume(text, amount) {
		return reply{msgTopupFail, KeyboardBack}
	}

	sess.SuccessfulTopups++
	sess.Pending = nil
	sess.State = domain.StateMainMenu

	e.logger.Info("top-up confirmed",
		"user_id", sess.UserID, "amount", amount, "total_topups", sess.SuccessfulTopups)
	if e.notifier != nil {
		e.notifier.TopupConfirmed(ctx, sess, amount)
	}
	return reply{msgTopupOK, KeyboardMain}
}
