package push

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender scripts one per-token outcome per registered token and
// records every message it is handed.
type fakeSender struct {
	outcomes map[string]bool // token -> delivered
	calls    []*messaging.MulticastMessage
	err      error
}

func (f *fakeSender) SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.calls = append(f.calls, message)
	if f.err != nil {
		return nil, f.err
	}

	response := &messaging.BatchResponse{}
	for _, token := range message.Tokens {
		if f.outcomes[token] {
			response.SuccessCount++
			response.Responses = append(response.Responses, &messaging.SendResponse{
				Success:   true,
				MessageID: "msg-" + token,
			})
		} else {
			response.FailureCount++
			response.Responses = append(response.Responses, &messaging.SendResponse{
				Success: false,
			})
		}
	}
	return response, nil
}

type fakeLedger struct {
	entries []FailureLogEntry
}

func (f *fakeLedger) Record(ctx context.Context, entry FailureLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func newTestService(sender MulticastSender, ledger Ledger) *Service {
	s := NewService(sender, ledger)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 18, 5, 0, 0, time.UTC) }
	return s
}

func TestDispatchRecordsFailedTokens(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]bool{"A": true, "B": false, "C": true}}
	ledger := &fakeLedger{}
	s := newTestService(sender, ledger)

	result, err := s.Dispatch(context.Background(), "Camels vs. Rovers", "Set your availability.", []string{"A", "B", "C"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, []string{"B"}, result.FailedTokens)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, []string{"B"}, ledger.entries[0].FailedTokens)
	assert.Equal(t, "932024185", ledger.entries[0].BucketID)
	assert.Equal(t, "msg-C", ledger.entries[0].MessageID, "last observed message id wins")
}

func TestDispatchAllDeliveredWritesNoLogEntry(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]bool{"A": true, "B": true}}
	ledger := &fakeLedger{}
	s := newTestService(sender, ledger)

	result, err := s.Dispatch(context.Background(), "t", "b", []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)
	assert.Empty(t, result.FailedTokens)
	assert.Empty(t, ledger.entries)
}

func TestDispatchSkipsMembersWithoutDevices(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]bool{"A": true}}
	ledger := &fakeLedger{}
	s := newTestService(sender, ledger)

	result, err := s.Dispatch(context.Background(), "t", "b", []string{"", "A", ""})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Undeliverable)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"A"}, sender.calls[0].Tokens)
}

func TestDispatchNothingToSend(t *testing.T) {
	sender := &fakeSender{}
	ledger := &fakeLedger{}
	s := newTestService(sender, ledger)

	result, err := s.Dispatch(context.Background(), "t", "b", []string{"", ""})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Undeliverable)
	assert.Empty(t, sender.calls, "transport should not be called at all")
	assert.Empty(t, ledger.entries)
}

func TestDispatchChunksLargeRosters(t *testing.T) {
	outcomes := map[string]bool{}
	tokens := make([]string, 0, maxTokensPerSend+3)
	for i := 0; i < maxTokensPerSend+3; i++ {
		token := "token-" + strconv.Itoa(i)
		outcomes[token] = true
		tokens = append(tokens, token)
	}
	sender := &fakeSender{outcomes: outcomes}
	ledger := &fakeLedger{}
	s := newTestService(sender, ledger)

	result, err := s.Dispatch(context.Background(), "t", "b", tokens)
	require.NoError(t, err)

	require.Len(t, sender.calls, 2, "roster above the limit needs two transport calls")
	assert.Len(t, sender.calls[0].Tokens, maxTokensPerSend)
	assert.Len(t, sender.calls[1].Tokens, 3)
	assert.Equal(t, maxTokensPerSend+3, result.SuccessCount)
}

func TestDispatchTransportErrorCountsAllTokensFailed(t *testing.T) {
	sender := &fakeSender{err: errors.New("deadline exceeded")}
	ledger := &fakeLedger{}
	s := newTestService(sender, ledger)

	result, err := s.Dispatch(context.Background(), "t", "b", []string{"A", "B"})
	require.NoError(t, err, "delivery failures are absorbed, not surfaced")

	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 2, result.FailureCount)
	assert.Equal(t, []string{"A", "B"}, result.FailedTokens)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, "not available", ledger.entries[0].MessageID)
}
