package stoplight

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-sql/civil"
)

func TestMock_Address(t *testing.T) {
	const original = "1000 Olin Way, Needham MA 02492"

	got, err := Mock(original, MockAddress)
	if err != nil {
		t.Fatalf("Mock() error: %v", err)
	}
	s, ok := got.(string)
	if !ok {
		t.Fatalf("Mock() returned %T, want string", got)
	}
	if s == "" || s == original {
		t.Errorf("Mock() = %q, want a new address", s)
	}
}

func TestMock_NameVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		got, err := Mock("Mango Joe", MockName)
		if err != nil {
			t.Fatalf("Mock() error: %v", err)
		}
		seen[got.(string)] = true
	}
	if len(seen) < 2 {
		t.Errorf("Mock() produced %d distinct names in 20 calls, want more than 1", len(seen))
	}
}

func TestMock_NamedString(t *testing.T) {
	got, err := Mock(phoneNumber("x"), MockName)
	if err != nil {
		t.Fatalf("Mock() error: %v", err)
	}
	if _, ok := got.(phoneNumber); !ok {
		t.Errorf("Mock() returned %T, want phoneNumber", got)
	}
}

func TestMock_Datetime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	original := time.Date(2021, 12, 9, 8, 4, 0, 0, loc)

	got, err := Mock(original, MockDatetime)
	if err != nil {
		t.Fatalf("Mock() error: %v", err)
	}
	tm, ok := got.(time.Time)
	if !ok {
		t.Fatalf("Mock() returned %T, want time.Time", got)
	}
	if tm.Equal(original) {
		t.Error("Mock() should generate a new datetime")
	}
	if tm.Location() != loc {
		t.Errorf("Mock() location = %v, want %v", tm.Location(), loc)
	}
}

func TestMock_Date(t *testing.T) {
	original := civil.Date{Year: 2021, Month: time.December, Day: 9}

	got, err := Mock(original, MockDatetime)
	if err != nil {
		t.Fatalf("Mock() error: %v", err)
	}
	d, ok := got.(civil.Date)
	if !ok {
		t.Fatalf("Mock() returned %T, want civil.Date", got)
	}
	if !d.IsValid() {
		t.Errorf("Mock() = %v, want a valid date", d)
	}
}

func TestMock_Errors(t *testing.T) {
	tests := []struct {
		name string
		v    any
		args []any
		want error
	}{
		{"address on int", 42, []any{MockAddress}, ErrTypeKind},
		{"name on time", time.Now(), []any{MockName}, ErrTypeKind},
		{"datetime on string", "2021-12-09", []any{MockDatetime}, ErrTypeKind},
		{"datetime on int", 20211209, []any{MockDatetime}, ErrTypeKind},
		{"no kind", "x", nil, ErrValueKind},
		{"two kinds", "x", []any{MockName, MockAddress}, ErrValueKind},
		{"string kind", "x", []any{"address"}, ErrValueKind},
		{"unknown kind", "x", []any{MockKind(42)}, ErrValueKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Mock(tt.v, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Mock() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMock_NilPointerStillChecked(t *testing.T) {
	if _, err := Mock((*int)(nil), MockName); !errors.Is(err, ErrTypeKind) {
		t.Errorf("Mock(nil *int, name) error = %v, want ErrTypeKind", err)
	}
	if _, err := Mock((*string)(nil), MockDatetime); !errors.Is(err, ErrTypeKind) {
		t.Errorf("Mock(nil *string, datetime) error = %v, want ErrTypeKind", err)
	}
	if _, err := Mock((*string)(nil)); !errors.Is(err, ErrValueKind) {
		t.Errorf("Mock(nil *string) error = %v, want ErrValueKind", err)
	}

	got, err := Mock((*time.Time)(nil), MockDatetime)
	if err != nil {
		t.Fatalf("Mock(nil *time.Time) error: %v", err)
	}
	if got.(*time.Time) != nil {
		t.Error("Mock(nil *time.Time) should return a nil pointer")
	}
}
