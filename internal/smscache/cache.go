// Package smscache holds recently received bank SMS notifications and
// correlates them with user-submitted transfer claims.
package smscache

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/abbasm/cashier-topup/internal/domain"
	"github.com/abbasm/cashier-topup/internal/validate"
)

// Retention and capacity defaults. Capacity bounds memory against
// notification floods; retention bounds how long a transfer code stays
// redeemable.
const (
	DefaultCapacity  = 200
	DefaultRetention = 5 * time.Minute
)

// Cache is a bounded, time-windowed store of inbound notifications.
// A single mutex makes Ingest and MatchAndConsume linearizable: a
// notification is either fully visible to a match attempt or not yet
// ingested, never partially.
type Cache struct {
	mu        sync.Mutex
	records   []domain.Notification
	capacity  int
	retention time.Duration
	extract   Extractor

	now func() time.Time // injectable for tests
}

// New creates a cache. Non-positive capacity or retention fall back to the
// defaults.
func New(capacity int, retention time.Duration, extract Extractor) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Cache{
		records:   make([]domain.Notification, 0, capacity),
		capacity:  capacity,
		retention: retention,
		extract:   extract,
		now:       time.Now,
	}
}

// Ingest appends a notification stamped with the current time. It never
// fails: malformed text is accepted and simply never matches later. On
// overflow the oldest record is dropped unconditionally, even if unexpired.
func (c *Cache) Ingest(sender, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictLocked(now)

	if len(c.records) == c.capacity {
		c.records = c.records[1:]
	}
	c.records = append(c.records, domain.Notification{
		Sender:     sender,
		Text:       text,
		ReceivedAt: now,
	})
}

// MatchAndConsume scans records oldest-to-newest for one whose extracted
// amount and operation code equal the supplied pair after digit
// normalization. The first hit is removed and true returned; on a failed
// scan no record is modified. At most one record is consumed per call,
// which is the exactly-once guarantee the verification flow depends on.
func (c *Cache) MatchAndConsume(code string, amount int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictLocked(c.now())

	wantAmount := strconv.FormatInt(amount, 10)
	wantCode := validate.Digits(code)
	if wantCode == "" {
		return false
	}

	for i, rec := range c.records {
		amountTok, codeTok, ok := c.extract.Extract(rec.Text)
		if !ok {
			continue
		}
		if validate.Digits(amountTok) != wantAmount || validate.Digits(codeTok) != wantCode {
			continue
		}
		c.records = append(c.records[:i], c.records[i+1:]...)
		slog.Info("sms matched and consumed", "sender", rec.Sender, "amount", amount)
		return true
	}
	return false
}

// Len reports how many records are currently retained, after eviction.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked(c.now())
	return len(c.records)
}

// evictLocked drops records older than the retention window. Eviction is
// lazy: it runs at the head of each cache operation, never on a timer, so
// an idle cache spends nothing.
func (c *Cache) evictLocked(now time.Time) {
	i := 0
	for i < len(c.records) && now.Sub(c.records[i].ReceivedAt) > c.retention {
		i++
	}
	if i > 0 {
		c.records = c.records[i:]
	}
}
