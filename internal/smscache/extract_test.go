package smscache

import "testing"

func TestRegexExtractor(t *testing.T) {
	ex, err := NewRegexExtractor(DefaultPattern)
	if err != nil {
		t.Fatalf("compile default pattern: %v", err)
	}

	tests := []struct {
		name       string
		text       string
		wantAmount string
		wantCode   string
		wantOK     bool
	}{
		{
			name:       "plain template",
			text:       "Amount received: 25000 SYP. The operation code is 999111.",
			wantAmount: "25000",
			wantCode:   "999111",
			wantOK:     true,
		},
		{
			name:       "separators and case",
			text:       "AMOUNT RECEIVED 25,000 SYP ... operation code is 999-111",
			wantAmount: "25,000",
			wantCode:   "999-111",
			wantOK:     true,
		},
		{
			name:       "multiline body",
			text:       "Syriatel Cash\namount received: 50000\nyour operation code is: 123456\nthank you",
			wantAmount: "50000",
			wantCode:   "123456",
			wantOK:     true,
		},
		{name: "missing code", text: "Amount received: 25000 SYP", wantOK: false},
		{name: "unrelated text", text: "your balance is low", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, code, ok := ex.Extract(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if amount != tt.wantAmount || code != tt.wantCode {
				t.Errorf("Extract = (%q, %q), want (%q, %q)", amount, code, tt.wantAmount, tt.wantCode)
			}
		})
	}
}

func TestNewRegexExtractorRejectsBadPatterns(t *testing.T) {
	if _, err := NewRegexExtractor("(["); err == nil {
		t.Fatal("expected error for invalid regexp")
	}
	if _, err := NewRegexExtractor(`amount (\d+) only`); err == nil {
		t.Fatal("expected error for pattern with a single capture group")
	}
}
