package stoplight

import (
	"errors"
	"testing"
)

func TestStrategy_IsValid(t *testing.T) {
	tests := []struct {
		s    Strategy
		want bool
	}{
		{StrategySuppress, true},
		{StrategyPartialSuppress, true},
		{StrategyMock, true},
		{StrategyVary, true},
		{0, false},
		{Strategy(99), false},
	}

	for _, tt := range tests {
		t.Run(tt.s.String(), func(t *testing.T) {
			if got := tt.s.IsValid(); got != tt.want {
				t.Errorf("%v.IsValid() = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"suppress", StrategySuppress, false},
		{"partial_suppress", StrategyPartialSuppress, false},
		{" Mock ", StrategyMock, false},
		{"VARY", StrategyVary, false},
		{"supress", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRule) {
					t.Errorf("ParseStrategy(%q) error = %v, want ErrInvalidRule", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStrategy_TextRoundTrip(t *testing.T) {
	for s := range strategyNames {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", s, err)
		}
		var got Strategy
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error: %v", text, err)
		}
		if got != s {
			t.Errorf("round trip of %v = %v", s, got)
		}
	}

	if _, err := Strategy(0).MarshalText(); err == nil {
		t.Error("MarshalText() should fail for the zero strategy")
	}
}

func TestParseMockKind(t *testing.T) {
	tests := []struct {
		name    string
		want    MockKind
		wantErr bool
	}{
		{"address", MockAddress, false},
		{"name", MockName, false},
		{"Datetime", MockDatetime, false},
		{"date", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMockKind(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrValueKind) {
					t.Errorf("ParseMockKind(%q) error = %v, want ErrValueKind", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMockKind(%q) error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseMockKind(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestMockKind_String(t *testing.T) {
	if got := MockAddress.String(); got != "address" {
		t.Errorf("MockAddress.String() = %q, want %q", got, "address")
	}
	if got := MockKind(0).String(); got != "mockkind(0)" {
		t.Errorf("MockKind(0).String() = %q, want %q", got, "mockkind(0)")
	}
}
