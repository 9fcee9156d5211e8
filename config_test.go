package stoplight_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/stoplight"
	stoplighttest "github.com/zoobzio/stoplight/testing"
)

const personConfig = `
models:
  Person:
    - field: age
      strategy: vary
      args: [15]
    - field: phone
      strategy: partial_suppress
      args: ["*** *** XXXX"]
    - field: name
      strategy: suppress
    - field: address
      strategy: mock
      args: [address]
    - field: LastVisit
      strategy: mock
      args: [datetime]
`

func TestParseConfig(t *testing.T) {
	cfg, err := stoplight.ParseConfig([]byte(personConfig))
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	m, err := cfg.Mapping("Person")
	if err != nil {
		t.Fatalf("Mapping() error: %v", err)
	}
	want := stoplight.Mapping{
		{Field: "age", Strategy: stoplight.StrategyVary, Args: []any{15.0}},
		{Field: "phone", Strategy: stoplight.StrategyPartialSuppress, Args: []any{"*** *** XXXX"}},
		{Field: "name", Strategy: stoplight.StrategySuppress},
		{Field: "address", Strategy: stoplight.StrategyMock, Args: []any{stoplight.MockAddress}},
		{Field: "LastVisit", Strategy: stoplight.StrategyMock, Args: []any{stoplight.MockDatetime}},
	}
	if len(m) != len(want) {
		t.Fatalf("Mapping() has %d rules, want %d", len(m), len(want))
	}
	for i := range want {
		if m[i].Field != want[i].Field || m[i].Strategy != want[i].Strategy {
			t.Errorf("rule %d = %+v, want %+v", i, m[i], want[i])
		}
		if len(m[i].Args) != len(want[i].Args) || (len(want[i].Args) == 1 && m[i].Args[0] != want[i].Args[0]) {
			t.Errorf("rule %d args = %#v, want %#v", i, m[i].Args, want[i].Args)
		}
	}

	if _, err := cfg.Mapping("Order"); !errors.Is(err, stoplight.ErrInvalidRule) {
		t.Errorf("Mapping(Order) error = %v, want ErrInvalidRule", err)
	}
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := stoplight.LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if len(cfg.Models) != 0 {
		t.Errorf("LoadConfig() models = %v, want none", cfg.Models)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "unknown strategy",
			yaml: "models:\n  Person:\n    - field: name\n      strategy: scramble\n",
			want: stoplight.ErrInvalidRule,
		},
		{
			name: "missing field",
			yaml: "models:\n  Person:\n    - strategy: suppress\n",
			want: stoplight.ErrInvalidRule,
		},
		{
			name: "bad mock kind",
			yaml: "models:\n  Person:\n    - field: name\n      strategy: mock\n      args: [planet]\n",
			want: stoplight.ErrValueKind,
		},
		{
			name: "two sigmas",
			yaml: "models:\n  Person:\n    - field: age\n      strategy: vary\n      args: [1, 2]\n",
			want: stoplight.ErrValueKind,
		},
		{
			name: "NaN sigma",
			yaml: "models:\n  Person:\n    - field: age\n      strategy: vary\n      args: [.nan]\n",
			want: stoplight.ErrValueKind,
		},
		{
			name: "negative sigma",
			yaml: "models:\n  Person:\n    - field: age\n      strategy: vary\n      args: [-2]\n",
			want: stoplight.ErrValueKind,
		},
		{
			name: "string infinite sigma",
			yaml: "models:\n  Person:\n    - field: age\n      strategy: vary\n      args: [\"Inf\"]\n",
			want: stoplight.ErrValueKind,
		},
		{
			name: "non-string pattern",
			yaml: "models:\n  Person:\n    - field: phone\n      strategy: partial_suppress\n      args: [42]\n",
			want: stoplight.ErrValueKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stoplight.ParseConfig([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseConfig() error = %v, want %v", err, tt.want)
			}
			var cfgErr *stoplight.ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Model != "Person" {
				t.Errorf("ParseConfig() error = %#v, want *ConfigError for Person", err)
			}
		})
	}
}

func TestParseConfig_UnknownKey(t *testing.T) {
	_, err := stoplight.ParseConfig([]byte("modelz:\n  Person: []\n"))
	if err == nil {
		t.Fatal("ParseConfig() should reject unknown keys")
	}
}

func TestConfigure(t *testing.T) {
	cfg, err := stoplight.ParseConfig([]byte(personConfig))
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	a := stoplight.New(stoplight.WithSampler(stoplighttest.FixedSampler(-1)))
	if err := a.Configure(cfg, (*stoplighttest.Person)(nil)); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}

	p := stoplighttest.NewPerson()
	if err := a.Anonymize(context.Background(), p, nil); err != nil {
		t.Fatalf("Anonymize() error: %v", err)
	}
	if p.Age != stoplighttest.PersonAge-15 {
		t.Errorf("Age = %d, want %d", p.Age, stoplighttest.PersonAge-15)
	}
	if p.Phone != "*** *** 6789" {
		t.Errorf("Phone = %q, want %q", p.Phone, "*** *** 6789")
	}
	if p.Name != stoplight.SuppressedValue {
		t.Errorf("Name = %q, want %q", p.Name, stoplight.SuppressedValue)
	}
}

func TestConfigure_UnknownModel(t *testing.T) {
	cfg, err := stoplight.ParseConfig([]byte(personConfig))
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	a := stoplight.New()
	err = a.Configure(cfg, (*stoplighttest.TaggedPerson)(nil))
	if !errors.Is(err, stoplight.ErrInvalidRecord) {
		t.Errorf("Configure() error = %v, want ErrInvalidRecord", err)
	}

	if err := a.Configure(cfg, 42); !errors.Is(err, stoplight.ErrInvalidRecord) {
		t.Errorf("Configure(42) error = %v, want ErrInvalidRecord", err)
	}
}
