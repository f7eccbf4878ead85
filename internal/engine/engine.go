// Package engine implements the per-user conversation state machine that
// drives the cashier top-up dialogue.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abbasm/cashier-topup/internal/domain"
	"github.com/abbasm/cashier-topup/internal/store"
)

// Inbound is one chat message routed to the engine.
type Inbound struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
}

// Messenger delivers replies back to the chat transport.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, kb Keyboard) error
}

// Correlator verifies a user-supplied operation code against the SMS
// correlation cache, consuming the matched record.
type Correlator interface {
	MatchAndConsume(code string, amount int64) bool
}

// AdminNotifier receives a best-effort notification for every confirmed
// top-up.
type AdminNotifier interface {
	TopupConfirmed(ctx context.Context, session *domain.Session, amount int64)
}

// Config carries the payment instructions and support contact rendered
// into replies.
type Config struct {
	PaymentNumber  string
	PaymentCode    string
	SupportContact string
}

// Engine owns all conversation sessions. In-memory sessions are
// authoritative for the process lifetime; the repository is written through
// after every mutating transition and failures there are logged, not
// surfaced (availability over durability).
type Engine struct {
	repo      store.Repository
	cache     Correlator
	messenger Messenger
	notifier  AdminNotifier
	cfg       Config
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*domain.Session
	locks    map[int64]*sync.Mutex
}

// New creates an engine. The notifier may be nil when no admin chat is
// configured.
func New(repo store.Repository, cache Correlator, messenger Messenger, notifier AdminNotifier, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		repo:      repo,
		cache:     cache,
		messenger: messenger,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		sessions:  make(map[int64]*domain.Session),
		locks:     make(map[int64]*sync.Mutex),
	}
}

// WarmUp preloads persisted sessions into memory so restarts resume
// conversations where they left off.
func (e *Engine) WarmUp(ctx context.Context) error {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, sess := range sessions {
		e.sessions[sess.UserID] = sess
	}
	return nil
}

// HandleMessage runs one inbound message through the state machine.
// Messages for the same user are serialized on a per-user lock so
// transitions never interleave; different users proceed concurrently.
func (e *Engine) HandleMessage(ctx context.Context, in Inbound) error {
	lock := e.lockFor(in.UserID)
	lock.Lock()
	defer lock.Unlock()

	sess := e.session(in)
	text := strings.TrimSpace(in.Text)

	reply := e.dispatch(ctx, sess, text)
	e.persist(ctx, sess)

	return e.messenger.Send(ctx, sess.ChatID, reply.text, reply.kb)
}

// Session returns a copy of the user's session, or nil if the user has
// never been seen. Intended for inspection, not mutation.
func (e *Engine) Session(userID int64) *domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, ok := e.sessions[userID]
	if !ok {
		return nil
	}
	cp := *sess
	if sess.Pending != nil {
		p := *sess.Pending
		cp.Pending = &p
	}
	return &cp
}

func (e *Engine) lockFor(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

// session fetches the in-memory session, falling back to the repository
// and finally to a fresh record. Chat ID and username track the latest
// message.
func (e *Engine) session(in Inbound) *domain.Session {
	e.mu.Lock()
	sess, ok := e.sessions[in.UserID]
	e.mu.Unlock()

	if !ok {
		stored, err := e.repo.GetSession(context.Background(), in.UserID)
		if err != nil {
			e.logger.Error("session read failed, starting fresh", "user_id", in.UserID, "error", err)
		}
		if stored != nil {
			sess = stored
		} else {
			now := time.Now()
			sess = &domain.Session{
				UserID:    in.UserID,
				State:     domain.StateInitial,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
		e.mu.Lock()
		e.sessions[in.UserID] = sess
		e.mu.Unlock()
	}

	sess.ChatID = in.ChatID
	if in.Username != "" {
		sess.Username = in.Username
	}
	return sess
}

// persist writes the session through to the repository. Write failures are
// logged and swallowed: the in-memory session stays authoritative and the
// conversation continues.
func (e *Engine) persist(ctx context.Context, sess *domain.Session) {
	sess.UpdatedAt = time.Now()
	if err := e.repo.UpsertSession(ctx, sess); err != nil {
		e.logger.Error("session write failed", "user_id", sess.UserID, "error", err)
	}
}
