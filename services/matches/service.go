package matches

import (
	"context"
	"fmt"
	"log"

	"github.com/camels-app/availability-sync/pkg/faults"
	"github.com/camels-app/availability-sync/repos/directory"
	"github.com/camels-app/availability-sync/repos/matchstore"
	"github.com/camels-app/availability-sync/repos/push"
)

const (
	announceBody = "Set your availability."
	updatedBody  = "Match details updated, check your availability."
)

// Store is the slice of the match store this service needs.
type Store interface {
	Set(ctx context.Context, match matchstore.Match) (matchstore.Match, error)
	ApplyPatch(ctx context.Context, id string, patch matchstore.MatchPatch) error
	UpdateMemberStatus(ctx context.Context, matchID, memberID string, st matchstore.Status) error
	Get(ctx context.Context, id string) (matchstore.Match, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, dir matchstore.Direction) ([]matchstore.Match, error)
}

// Directory is the read side of the member directory.
type Directory interface {
	ListMembers(ctx context.Context) ([]directory.Member, error)
}

// Dispatcher fans a notification out to the squad's tokens.
type Dispatcher interface {
	Dispatch(ctx context.Context, title, body string, tokens []string) (push.DispatchResult, error)
}

// MatchesService owns the match lifecycle: creation with a freshly
// resolved squad, descriptive patches, per-member answers and removal.
type MatchesService struct {
	store      Store
	directory  Directory
	dispatcher Dispatcher
}

// NewMatchesService creates a new matches service.
func NewMatchesService(store Store, dir Directory, dispatcher Dispatcher) *MatchesService {
	return &MatchesService{
		store:      store,
		directory:  dir,
		dispatcher: dispatcher,
	}
}

// Create validates and persists a new match with one attendance record
// per directory member, then announces it to the squad. The create is
// successful even when every push delivery fails; delivery problems are
// recorded in the push log, not surfaced.
func (s *MatchesService) Create(ctx context.Context, req CreateMatchRequest) (matchstore.Match, error) {
	if req.Venue == "" || req.Date == "" || req.Time == "" || req.Opponent == "" {
		return matchstore.Match{}, faults.Validation("venue, date, time and opponent are required")
	}

	matchDate, err := matchstore.ParseMatchDate(req.Date, req.Time)
	if err != nil {
		return matchstore.Match{}, faults.Validation("%v", err)
	}

	squad, err := s.resolveSquad(ctx)
	if err != nil {
		return matchstore.Match{}, err
	}

	match := matchstore.Match{
		ID:        matchstore.MatchID(req.Date, req.Time, req.Opponent),
		Venue:     req.Venue,
		Address:   req.Address,
		Date:      req.Date,
		Time:      req.Time,
		Opponent:  req.Opponent,
		Status:    req.Status,
		MatchDate: matchDate,
		Squad:     squad,
	}

	match, err = s.store.Set(ctx, match)
	if err != nil {
		return matchstore.Match{}, err
	}

	s.notify(ctx, match.Opponent, announceBody, squad)
	return match, nil
}

// Patch updates the supplied descriptive fields. The attendance map is
// kept unless the caller explicitly asks for a roster refresh, which
// rebuilds it from the directory and resets all answers.
func (s *MatchesService) Patch(ctx context.Context, id string, req PatchMatchRequest) error {
	if id == "" {
		return faults.Validation("match id is required")
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	patch := matchstore.MatchPatch{
		Venue:    req.Venue,
		Address:  req.Address,
		Date:     req.Date,
		Time:     req.Time,
		Opponent: req.Opponent,
		Status:   req.Status,
	}

	if req.Date != nil || req.Time != nil {
		date, kickoff := existing.Date, existing.Time
		if req.Date != nil {
			date = *req.Date
		}
		if req.Time != nil {
			kickoff = *req.Time
		}
		matchDate, err := matchstore.ParseMatchDate(date, kickoff)
		if err != nil {
			return faults.Validation("%v", err)
		}
		patch.MatchDate = &matchDate
	}

	squad := existing.Squad
	if req.RefreshSquad {
		squad, err = s.resolveSquad(ctx)
		if err != nil {
			return err
		}
		patch.Squad = squad
	}

	if err := s.store.ApplyPatch(ctx, id, patch); err != nil {
		return err
	}

	opponent := existing.Opponent
	if req.Opponent != nil {
		opponent = *req.Opponent
	}
	s.notify(ctx, opponent, updatedBody, squad)
	return nil
}

// PatchMemberStatus records one member's answer without touching any
// other record or descriptive field. The write goes through the store's
// single-field update so concurrent answers for different members never
// overwrite each other.
func (s *MatchesService) PatchMemberStatus(ctx context.Context, matchID, memberID string, st matchstore.Status) error {
	if matchID == "" || memberID == "" {
		return faults.Validation("match id and member id are required")
	}
	if !st.Valid() {
		return faults.Validation("unknown attendance status %q", st)
	}
	return s.store.UpdateMemberStatus(ctx, matchID, memberID, st)
}

// Get returns the full stored match.
func (s *MatchesService) Get(ctx context.Context, id string) (matchstore.Match, error) {
	if id == "" {
		return matchstore.Match{}, faults.Validation("match id is required")
	}
	return s.store.Get(ctx, id)
}

// Delete removes the match and its attendance data.
func (s *MatchesService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return faults.Validation("match id is required")
	}
	return s.store.Delete(ctx, id)
}

// List returns every match ordered by match date.
func (s *MatchesService) List(ctx context.Context, dir matchstore.Direction) ([]matchstore.Match, error) {
	return s.store.List(ctx, dir)
}

func (s *MatchesService) notify(ctx context.Context, opponent, body string, squad map[string]matchstore.AttendanceRecord) {
	title := fmt.Sprintf("Camels vs. %s", opponent)
	result, err := s.dispatcher.Dispatch(ctx, title, body, squadTokens(squad))
	if err != nil {
		log.Printf("Dispatch failed for %q: %v\n", title, err)
		return
	}
	if result.FailureCount > 0 {
		log.Printf("Dispatch for %q: %d delivered, %d failed\n", title, result.SuccessCount, result.FailureCount)
	}
}
