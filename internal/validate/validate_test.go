package validate

import (
	"strconv"
	"testing"
)

func TestIsFullName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"three parts", "Ahmad Ali Hassan", true},
		{"four parts", "Ahmad Ali Hassan Saleh", true},
		{"extra whitespace", "  Ahmad \t Ali   Hassan ", true},
		{"two parts", "Ahmad Ali", false},
		{"one part", "Ahmad", false},
		{"empty", "", false},
		{"only whitespace", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFullName(tt.in); got != tt.want {
				t.Errorf("IsFullName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsAge(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"10", true},
		{"100", true},
		{"15", true},
		{"9", false},
		{"101", false},
		{"abc", false},
		{"15 ", true},
		{"-15", false},
		{"1e2", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAge(tt.in); got != tt.want {
			t.Errorf("IsAge(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsAmount(t *testing.T) {
	// Every in-range multiple of the step is accepted.
	for a := int64(MinAmount); a <= MaxAmount; a += AmountStep {
		if !IsAmount(strconv.FormatInt(a, 10)) {
			t.Fatalf("IsAmount(%d) = false, want true", a)
		}
	}

	rejected := []string{"9999", "1000001", "10001", "5000", "0", "", "25000.5", "abc"}
	for _, in := range rejected {
		if IsAmount(in) {
			t.Errorf("IsAmount(%q) = true, want false", in)
		}
	}
}

func TestParseAmount(t *testing.T) {
	if got, ok := ParseAmount("25000"); !ok || got != 25000 {
		t.Fatalf("ParseAmount(25000) = %d, %v", got, ok)
	}
	if _, ok := ParseAmount("10001"); ok {
		t.Fatal("ParseAmount(10001) accepted an unquantized amount")
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"25,000", "25000"},
		{"999-111", "999111"},
		{" 50 000 ", "50000"},
		{"no digits", ""},
		{"123", "123"},
	}

	for _, tt := range tests {
		if got := Digits(tt.in); got != tt.want {
			t.Errorf("Digits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
