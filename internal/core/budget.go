package core

import "strings"

// UpdateMode selects how a budget submission merges with the stored budget.
// The original flow asked the user two sequential yes/no questions; over an
// API the caller states the outcome up front.
type UpdateMode string

const (
	// ModeAccumulate adds the submitted amount to the existing one.
	// Only legal while a budget is already set.
	ModeAccumulate UpdateMode = "accumulate"
	// ModeReplace discards the existing amount. Always legal, and the
	// only path when no budget is set yet.
	ModeReplace UpdateMode = "replace"
	// ModeNone declines the update; nothing is persisted.
	ModeNone UpdateMode = "none"
)

// ParseUpdateMode validates a raw mode string.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch UpdateMode(strings.TrimSpace(s)) {
	case ModeAccumulate:
		return ModeAccumulate, nil
	case ModeReplace:
		return ModeReplace, nil
	case ModeNone:
		return ModeNone, nil
	default:
		return "", ErrInvalidMode
	}
}

// BudgetChange is a requested budget update. Amount must already be
// validated positive by the caller.
type BudgetChange struct {
	Amount Money
	Period BudgetPeriod
	Mode   UpdateMode
}

// ResolveBudgetUpdate applies the update policy as a decision table:
//
//	mode        current.amount == 0      current.amount > 0
//	accumulate  ErrInvalidMode           current + requested
//	replace     requested                requested
//	none        unchanged, no write      unchanged, no write
//
// The period is overwritten to the requested one whenever a write results.
// The second return value tells the caller whether to persist.
func ResolveBudgetUpdate(current Budget, change BudgetChange) (Budget, bool, error) {
	switch change.Mode {
	case ModeAccumulate:
		if !current.IsSet() {
			return current, false, ErrInvalidMode
		}
		return Budget{Amount: current.Amount.Add(change.Amount), Period: change.Period}, true, nil
	case ModeReplace:
		return Budget{Amount: change.Amount, Period: change.Period}, true, nil
	case ModeNone:
		return current, false, nil
	default:
		return current, false, ErrInvalidMode
	}
}
