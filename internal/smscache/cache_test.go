package smscache

import (
	"fmt"
	"testing"
	"time"
)

func newTestCache(t *testing.T, capacity int) (*Cache, *time.Time) {
	t.Helper()

	ex, err := NewRegexExtractor(DefaultPattern)
	if err != nil {
		t.Fatalf("compile default pattern: %v", err)
	}

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(capacity, DefaultRetention, ex)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func smsText(amount int64, code string) string {
	return fmt.Sprintf("Amount received: %d SYP. The operation code is %s.", amount, code)
}

func TestMatchAndConsume(t *testing.T) {
	c, _ := newTestCache(t, 0)

	c.Ingest("bank", smsText(25000, "999111"))

	if c.MatchAndConsume("999111", 30000) {
		t.Fatal("matched with wrong amount")
	}
	if c.MatchAndConsume("123456", 25000) {
		t.Fatal("matched with wrong code")
	}
	if got := c.Len(); got != 1 {
		t.Fatalf("failed scans must not consume, got %d records", got)
	}

	if !c.MatchAndConsume("999111", 25000) {
		t.Fatal("expected match for correct (code, amount) pair")
	}
	if c.MatchAndConsume("999111", 25000) {
		t.Fatal("second consume of the same record must fail")
	}
}

func TestMatchNormalizesSeparators(t *testing.T) {
	c, _ := newTestCache(t, 0)

	c.Ingest("bank", "Amount received: 25,000 SYP. The operation code is 999-111.")

	if !c.MatchAndConsume(" 999 111 ", 25000) {
		t.Fatal("expected match after digit normalization of both tokens")
	}
}

func TestUnparseableTextNeverMatches(t *testing.T) {
	c, _ := newTestCache(t, 0)

	c.Ingest("bank", "your account balance is 25000")
	c.Ingest("spam", "win 25000 now, code 999111")

	if c.MatchAndConsume("999111", 25000) {
		t.Fatal("matched text without the expected template")
	}
	if got := c.Len(); got != 2 {
		t.Fatalf("unparseable records must stay until expiry, got %d", got)
	}
}

func TestRetentionBoundary(t *testing.T) {
	c, clock := newTestCache(t, 0)

	c.Ingest("bank", smsText(25000, "999111"))

	*clock = clock.Add(299 * time.Second)
	if got := c.Len(); got != 1 {
		t.Fatalf("record expired before the retention window, len = %d", got)
	}

	*clock = clock.Add(2 * time.Second) // now 301s after ingest
	if c.MatchAndConsume("999111", 25000) {
		t.Fatal("matched a record past the retention window")
	}
	if got := c.Len(); got != 0 {
		t.Fatalf("expired record not evicted, len = %d", got)
	}
}

func TestCapacityDropsOldest(t *testing.T) {
	c, _ := newTestCache(t, DefaultCapacity)

	for i := 0; i < DefaultCapacity+1; i++ {
		c.Ingest("bank", smsText(25000, fmt.Sprintf("%06d", i)))
	}

	if got := c.Len(); got != DefaultCapacity {
		t.Fatalf("len = %d, want %d", got, DefaultCapacity)
	}
	if c.MatchAndConsume("000000", 25000) {
		t.Fatal("oldest record should have been evicted on overflow")
	}
	if !c.MatchAndConsume("000001", 25000) {
		t.Fatal("second-oldest record should survive the overflow")
	}
}

func TestOldestMatchingRecordWins(t *testing.T) {
	c, clock := newTestCache(t, 0)

	c.Ingest("bank", smsText(25000, "999111"))
	first := *clock
	*clock = clock.Add(10 * time.Second)
	c.Ingest("bank", smsText(25000, "999111")) // duplicate / replayed message

	if !c.MatchAndConsume("999111", 25000) {
		t.Fatal("expected match")
	}

	// The surviving duplicate must be the younger one.
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) != 1 {
		t.Fatalf("want 1 surviving record, got %d", len(c.records))
	}
	if !c.records[0].ReceivedAt.After(first) {
		t.Fatal("consumed the newer duplicate, want oldest-wins")
	}
}
