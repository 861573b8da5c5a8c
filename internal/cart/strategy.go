package cart

import (
	"fmt"
)

// RefreshStrategy names how the session snapshot is brought back in line
// with the backend after an add. The authoritative strategy refetches the
// whole cart; the optimistic strategy patches the snapshot locally and
// skips the follow-up fetch.
type RefreshStrategy string

const (
	// StrategyAuthoritative refetches the cart after every mutation. It is
	// the default: the backend owns merge and stock semantics, and a
	// refetch cannot drift.
	StrategyAuthoritative RefreshStrategy = "authoritative"

	// StrategyOptimistic merges the added line into the local snapshot
	// without a follow-up fetch. Cheaper, but the snapshot can disagree
	// with the backend until the next full load.
	StrategyOptimistic RefreshStrategy = "optimistic"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (RefreshStrategy, error) {
	switch RefreshStrategy(s) {
	case StrategyAuthoritative, StrategyOptimistic:
		return RefreshStrategy(s), nil
	case "":
		return StrategyAuthoritative, nil
	default:
		return "", fmt.Errorf("unknown refresh strategy %q", s)
	}
}
