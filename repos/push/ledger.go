package push

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/camels-app/availability-sync/pkg/faults"
)

const pushLogCollection = "pushLogs"

// FirestoreLedger stores failure-log entries as pushLogs/<bucketID>
// documents. Entries are only ever written by a dispatch with at least
// one failure; nothing in this service deletes them.
type FirestoreLedger struct {
	Client *firestore.Client
}

// NewFirestoreLedger creates a ledger over the given client.
func NewFirestoreLedger(client *firestore.Client) *FirestoreLedger {
	return &FirestoreLedger{Client: client}
}

func (l *FirestoreLedger) Record(ctx context.Context, entry FailureLogEntry) error {
	_, err := l.Client.Collection(pushLogCollection).Doc(entry.BucketID).Set(ctx, entry)
	if err != nil {
		log.Printf("Failed to write push log %s to Firestore: %v\n", entry.BucketID, err)
		return faults.Storage(err)
	}
	return nil
}
