package push

// DispatchResult is the aggregate outcome of one multicast attempt.
// Per-token failures are recorded in the push log, never surfaced as an
// error to whoever triggered the dispatch.
type DispatchResult struct {
	SuccessCount  int      `json:"successCount"`
	FailureCount  int      `json:"failureCount"`
	FailedTokens  []string `json:"failedTokens,omitempty"`
	Undeliverable int      `json:"undeliverable"`
}

// FailureLogEntry records which tokens failed in a delivery attempt,
// keyed by a minute-granularity time bucket. A later attempt in the same
// minute overwrites the entry; that coarse dedupe is deliberate.
type FailureLogEntry struct {
	BucketID     string   `firestore:"-" json:"bucketId"`
	FailedTokens []string `firestore:"failedTokens" json:"failedTokens"`
	MessageID    string   `firestore:"messageId" json:"messageId"`
}
