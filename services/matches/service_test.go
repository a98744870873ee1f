package matches

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"

	"github.com/camels-app/availability-sync/pkg/faults"
	"github.com/camels-app/availability-sync/repos/directory"
	"github.com/camels-app/availability-sync/repos/matchstore"
	"github.com/camels-app/availability-sync/repos/push"
)

// fakeStore keeps matches in memory. UpdateMemberStatus mutates a single
// squad entry under lock, mirroring the store-native field-path update.
type fakeStore struct {
	mu      sync.Mutex
	matches map[string]matchstore.Match
	patches []matchstore.MatchPatch
}

func newFakeStore() *fakeStore {
	return &fakeStore{matches: map[string]matchstore.Match{}}
}

func (f *fakeStore) Set(ctx context.Context, match matchstore.Match) (matchstore.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches[match.ID] = match
	return match, nil
}

func (f *fakeStore) ApplyPatch(ctx context.Context, id string, patch matchstore.MatchPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	match, ok := f.matches[id]
	if !ok {
		return faults.NotFound("match %s", id)
	}
	f.patches = append(f.patches, patch)
	if patch.Venue != nil {
		match.Venue = *patch.Venue
	}
	if patch.Opponent != nil {
		match.Opponent = *patch.Opponent
	}
	if patch.Squad != nil {
		match.Squad = patch.Squad
	}
	f.matches[id] = match
	return nil
}

func (f *fakeStore) UpdateMemberStatus(ctx context.Context, matchID, memberID string, st matchstore.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	match, ok := f.matches[matchID]
	if !ok {
		return faults.NotFound("match %s", matchID)
	}
	record := match.Squad[memberID]
	record.Status = st
	match.Squad[memberID] = record
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (matchstore.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	match, ok := f.matches[id]
	if !ok {
		return matchstore.Match{}, faults.NotFound("match %s", id)
	}
	return match, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.matches, id)
	return nil
}

func (f *fakeStore) List(ctx context.Context, dir matchstore.Direction) ([]matchstore.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []matchstore.Match
	for _, m := range f.matches {
		out = append(out, m)
	}
	return out, nil
}

type fakeDirectory struct {
	members []directory.Member
	err     error
}

func (f *fakeDirectory) ListMembers(ctx context.Context) ([]directory.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

type dispatchCall struct {
	title  string
	body   string
	tokens []string
}

type fakeDispatcher struct {
	calls []dispatchCall
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, title, body string, tokens []string) (push.DispatchResult, error) {
	f.calls = append(f.calls, dispatchCall{title: title, body: body, tokens: tokens})
	return push.DispatchResult{SuccessCount: len(tokens)}, nil
}

func roster() []directory.Member {
	return []directory.Member{
		{UID: "alice", DisplayName: "Alice", PushToken: "tok-alice"},
		{UID: "bob", DisplayName: "Bob", PushToken: "tok-bob"},
		{UID: "carol", DisplayName: "Carol"}, // no registered device
	}
}

func validCreate() CreateMatchRequest {
	return CreateMatchRequest{
		Venue:    "Victoria Park",
		Address:  "E9 7BT",
		Date:     "2024-05-11",
		Time:     "14:30",
		Opponent: "Rovers",
		Status:   "scheduled",
	}
}

func TestCreateResolvesFullRoster(t *testing.T) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	s := NewMatchesService(store, &fakeDirectory{members: roster()}, dispatcher)

	match, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.Len(t, match.Squad, 3, "exactly one record per directory member")
	for _, member := range roster() {
		record, ok := match.Squad[member.UID]
		require.True(t, ok, "missing record for %s", member.UID)
		assert.Equal(t, matchstore.StatusNotResponded, record.Status)
		assert.Equal(t, member.DisplayName, record.DisplayName)
		assert.Equal(t, member.PushToken, record.PushToken)
	}

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, "Camels vs. Rovers", dispatcher.calls[0].title)
	assert.Equal(t, "Set your availability.", dispatcher.calls[0].body)
	assert.Len(t, dispatcher.calls[0].tokens, 3)
}

func TestCreateDeterministicID(t *testing.T) {
	store := newFakeStore()
	s := NewMatchesService(store, &fakeDirectory{members: roster()}, &fakeDispatcher{})

	first, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)
	second, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same fixture maps to the same id")
	assert.Len(t, store.matches, 1)
}

func TestCreateMissingOpponentRejected(t *testing.T) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	s := NewMatchesService(store, &fakeDirectory{members: roster()}, dispatcher)

	req := validCreate()
	req.Opponent = ""
	_, err := s.Create(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrValidation)
	assert.Empty(t, store.matches, "validation failure must not persist anything")
	assert.Empty(t, dispatcher.calls, "validation failure must not dispatch")
}

func TestCreateBadDateRejected(t *testing.T) {
	s := NewMatchesService(newFakeStore(), &fakeDirectory{members: roster()}, &fakeDispatcher{})

	req := validCreate()
	req.Date = "next saturday"
	_, err := s.Create(context.Background(), req)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestCreateDirectoryDownAborts(t *testing.T) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	dirErr := faults.Directory(errors.New("listUsers: unavailable"))
	s := NewMatchesService(store, &fakeDirectory{err: dirErr}, dispatcher)

	_, err := s.Create(context.Background(), validCreate())

	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrDirectoryUnavailable)
	assert.Empty(t, store.matches)
	assert.Empty(t, dispatcher.calls)
}

func TestConcurrentMemberStatusUpdates(t *testing.T) {
	store := newFakeStore()
	s := NewMatchesService(store, &fakeDirectory{members: roster()}, &fakeDispatcher{})

	match, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.PatchMemberStatus(context.Background(), match.ID, "alice", matchstore.StatusYes))
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, s.PatchMemberStatus(context.Background(), match.ID, "bob", matchstore.StatusNo))
	}()
	wg.Wait()

	stored, err := s.Get(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, matchstore.StatusYes, stored.Squad["alice"].Status, "alice's answer was lost")
	assert.Equal(t, matchstore.StatusNo, stored.Squad["bob"].Status, "bob's answer was lost")
	assert.Equal(t, matchstore.StatusNotResponded, stored.Squad["carol"].Status)
}

func TestPatchMemberStatusValidation(t *testing.T) {
	s := NewMatchesService(newFakeStore(), &fakeDirectory{}, &fakeDispatcher{})

	err := s.PatchMemberStatus(context.Background(), "", "alice", matchstore.StatusYes)
	assert.ErrorIs(t, err, faults.ErrValidation)

	err = s.PatchMemberStatus(context.Background(), "some-match", "alice", matchstore.Status("maybe"))
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestPatchPreservesAttendance(t *testing.T) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	s := NewMatchesService(store, &fakeDirectory{members: roster()}, dispatcher)

	match, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.NoError(t, s.PatchMemberStatus(context.Background(), match.ID, "alice", matchstore.StatusYes))

	err = s.Patch(context.Background(), match.ID, PatchMatchRequest{Venue: pointer.String("Hackney Marshes")})
	require.NoError(t, err)

	stored, err := s.Get(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hackney Marshes", stored.Venue)
	assert.Equal(t, matchstore.StatusYes, stored.Squad["alice"].Status, "patch without refresh must keep answers")

	require.Len(t, dispatcher.calls, 2)
	assert.Equal(t, "Match details updated, check your availability.", dispatcher.calls[1].body)
}

func TestPatchRefreshSquadResetsAnswers(t *testing.T) {
	store := newFakeStore()
	s := NewMatchesService(store, &fakeDirectory{members: roster()}, &fakeDispatcher{})

	match, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.NoError(t, s.PatchMemberStatus(context.Background(), match.ID, "alice", matchstore.StatusYes))

	err = s.Patch(context.Background(), match.ID, PatchMatchRequest{RefreshSquad: true})
	require.NoError(t, err)

	stored, err := s.Get(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, matchstore.StatusNotResponded, stored.Squad["alice"].Status, "refresh resets every answer")
	assert.Len(t, stored.Squad, 3)
}

func TestPatchMissingID(t *testing.T) {
	s := NewMatchesService(newFakeStore(), &fakeDirectory{}, &fakeDispatcher{})
	err := s.Patch(context.Background(), "", PatchMatchRequest{})
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestPatchUnknownMatch(t *testing.T) {
	s := NewMatchesService(newFakeStore(), &fakeDirectory{}, &fakeDispatcher{})
	err := s.Patch(context.Background(), "nope", PatchMatchRequest{})
	assert.ErrorIs(t, err, faults.ErrNotFound)
}
