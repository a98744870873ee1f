package push

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/camels-app/availability-sync/pkg/timebucket"
)

const (
	// maxTokensPerSend is the transport's hard per-call recipient limit.
	maxTokensPerSend = 500

	// sendTimeout bounds one transport call. A timed-out call counts as
	// a full failure for every token in the chunk.
	sendTimeout = 10 * time.Second

	// messageIDUnavailable is stored when no response carried an id.
	messageIDUnavailable = "not available"
)

// MulticastSender is the slice of the FCM client the dispatcher needs.
// Satisfied by *messaging.Client.
type MulticastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Ledger persists the failed-token record for a delivery attempt.
type Ledger interface {
	Record(ctx context.Context, entry FailureLogEntry) error
}

// Service fans a notification out to a token list and keeps the books on
// partial delivery failures. It never retries and never persists match
// state.
type Service struct {
	sender MulticastSender
	ledger Ledger

	now func() time.Time
}

// NewService creates a new dispatcher.
func NewService(sender MulticastSender, ledger Ledger) *Service {
	return &Service{
		sender: sender,
		ledger: ledger,
		now:    time.Now,
	}
}

// Dispatch sends one notification to every token. Members without a
// registered device (empty token) are skipped and counted as
// undeliverable. Rosters above the per-call limit are split into
// multiple transport calls.
func (s *Service) Dispatch(ctx context.Context, title, body string, tokens []string) (DispatchResult, error) {
	var result DispatchResult

	deliverable := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			result.Undeliverable++
			continue
		}
		deliverable = append(deliverable, token)
	}
	if len(deliverable) == 0 {
		return result, nil
	}

	messageID := messageIDUnavailable
	for start := 0; start < len(deliverable); start += maxTokensPerSend {
		end := start + maxTokensPerSend
		if end > len(deliverable) {
			end = len(deliverable)
		}
		chunk := deliverable[start:end]

		chunkID, chunkResult := s.sendChunk(ctx, title, body, chunk)
		if chunkID != "" {
			messageID = chunkID
		}
		result.SuccessCount += chunkResult.SuccessCount
		result.FailureCount += chunkResult.FailureCount
		result.FailedTokens = append(result.FailedTokens, chunkResult.FailedTokens...)
	}

	log.Printf("%d messages were sent successfully\n", result.SuccessCount)

	if len(result.FailedTokens) > 0 {
		log.Printf("List of tokens that caused failures: %v\n", result.FailedTokens)
		entry := FailureLogEntry{
			BucketID:     timebucket.ID(s.now()),
			FailedTokens: result.FailedTokens,
			MessageID:    messageID,
		}
		if err := s.ledger.Record(ctx, entry); err != nil {
			log.Printf("Failed to record push failures: %v\n", err)
		}
	}
	return result, nil
}

// sendChunk performs one bounded transport call. The response slice is
// aligned positionally with the chunk, so failed tokens keep their
// original order.
func (s *Service) sendChunk(ctx context.Context, title, body string, chunk []string) (string, DispatchResult) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Tokens: chunk,
	}

	response, err := s.sender.SendEachForMulticast(sendCtx, message)
	if err != nil {
		log.Printf("Multicast send failed, counting %d tokens as failed: %v\n", len(chunk), err)
		return "", DispatchResult{
			FailureCount: len(chunk),
			FailedTokens: append([]string(nil), chunk...),
		}
	}

	var result DispatchResult
	messageID := ""
	for idx, resp := range response.Responses {
		if resp.MessageID != "" {
			messageID = resp.MessageID
		}
		if !resp.Success {
			result.FailedTokens = append(result.FailedTokens, chunk[idx])
		}
	}
	result.SuccessCount = response.SuccessCount
	result.FailureCount = response.FailureCount
	return messageID, result
}
