package export

import (
	"context"

	"budgetplan/internal/core"
)

// RowAppender is the outbound port for transaction export. Implementations
// append one row per transaction and return a reference to it.
type RowAppender interface {
	Append(ctx context.Context, userEmail string, t core.Transaction) (rowRef string, err error)
}
