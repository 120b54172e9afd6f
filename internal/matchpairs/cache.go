package matchpairs

import "context"

// PairCache is the persistent cache described for the fuzzy matcher: it
// records confirmed pairs and explicit rejections so subsequent scans skip
// candidates that have already been decided.
type PairCache interface {
	// RecordConfirmed stores a confirmed (eventAID, eventBID) decision.
	RecordConfirmed(ctx context.Context, eventAID, eventBID string) error

	// RecordRejected stores an explicit rejection.
	RecordRejected(ctx context.Context, eventAID, eventBID string) error

	// Decision returns (true, confirmed) if the pair has already been
	// decided, or (false, false) if it has never been scored.
	Decision(ctx context.Context, eventAID, eventBID string) (decided bool, confirmed bool, err error)

	// Close releases any underlying resources.
	Close() error
}
