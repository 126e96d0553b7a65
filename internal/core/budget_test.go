package core

import (
	"errors"
	"testing"
)

func TestParseUpdateMode(t *testing.T) {
	for _, good := range []string{"accumulate", "replace", "none", " replace "} {
		if _, err := ParseUpdateMode(good); err != nil {
			t.Fatalf("%q expected ok, got %v", good, err)
		}
	}
	for _, bad := range []string{"", "Replace", "merge", "add"} {
		if _, err := ParseUpdateMode(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestResolveBudgetUpdate(t *testing.T) {
	existing := Budget{Amount: Money{Cents: 100000}, Period: Monthly}
	unset := DefaultBudget()

	cases := []struct {
		name        string
		current     Budget
		change      BudgetChange
		wantCents   int64
		wantPeriod  BudgetPeriod
		wantChanged bool
		wantErr     error
	}{
		{
			name:        "accumulate adds to existing",
			current:     existing,
			change:      BudgetChange{Amount: Money{Cents: 25000}, Period: Weekly, Mode: ModeAccumulate},
			wantCents:   125000,
			wantPeriod:  Weekly,
			wantChanged: true,
		},
		{
			name:        "replace discards existing",
			current:     existing,
			change:      BudgetChange{Amount: Money{Cents: 25000}, Period: Yearly, Mode: ModeReplace},
			wantCents:   25000,
			wantPeriod:  Yearly,
			wantChanged: true,
		},
		{
			name:        "replace is the only path without a budget",
			current:     unset,
			change:      BudgetChange{Amount: Money{Cents: 50000}, Period: Monthly, Mode: ModeReplace},
			wantCents:   50000,
			wantPeriod:  Monthly,
			wantChanged: true,
		},
		{
			name:    "accumulate without a budget is rejected",
			current: unset,
			change:  BudgetChange{Amount: Money{Cents: 50000}, Period: Monthly, Mode: ModeAccumulate},
			wantErr: ErrInvalidMode,
		},
		{
			name:        "declining keeps everything untouched",
			current:     existing,
			change:      BudgetChange{Amount: Money{Cents: 99999}, Period: Weekly, Mode: ModeNone},
			wantCents:   100000,
			wantPeriod:  Monthly,
			wantChanged: false,
		},
		{
			name:    "unknown mode is rejected",
			current: existing,
			change:  BudgetChange{Amount: Money{Cents: 1}, Period: Monthly, Mode: "merge"},
			wantErr: ErrInvalidMode,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed, err := ResolveBudgetUpdate(tc.current, tc.change)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if changed != tc.wantChanged {
				t.Fatalf("changed: expected %v, got %v", tc.wantChanged, changed)
			}
			if got.Amount.Cents != tc.wantCents {
				t.Fatalf("amount: expected %d, got %d", tc.wantCents, got.Amount.Cents)
			}
			if got.Period != tc.wantPeriod {
				t.Fatalf("period: expected %q, got %q", tc.wantPeriod, got.Period)
			}
		})
	}
}
