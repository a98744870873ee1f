package home

import (
	"context"
	"time"

	"github.com/camels-app/availability-sync/pkg/faults"
	"github.com/camels-app/availability-sync/repos/matchstore"
)

// Store is the slice of the match store the query layer needs.
type Store interface {
	Upcoming(ctx context.Context, after time.Time) (*matchstore.Match, error)
	List(ctx context.Context, dir matchstore.Direction) ([]matchstore.Match, error)
	Get(ctx context.Context, id string) (matchstore.Match, error)
}

// HomeService answers the member-facing projections over the match
// store: the next fixture, the unread count and a member's view of one
// match. It never writes.
type HomeService struct {
	store Store

	now func() time.Time
}

// NewHomeService creates a new home service.
func NewHomeService(store Store) *HomeService {
	return &HomeService{
		store: store,
		now:   time.Now,
	}
}

// NextUpcoming returns the single match with the earliest match date
// strictly after now, projected for the member, or nil when no future
// match exists. A member without a squad entry sees not responded.
func (s *HomeService) NextUpcoming(ctx context.Context, memberID string) (*MatchView, error) {
	if memberID == "" {
		return nil, faults.Validation("member id is required")
	}

	match, err := s.store.Upcoming(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	view := viewFor(*match, memberID)
	return &view, nil
}

// UnreadCount counts the matches the member has not responded to.
// Policy: a member absent from a match's squad counts as not responded
// rather than faulting, so stale matches never break the badge.
func (s *HomeService) UnreadCount(ctx context.Context, memberID string) (int, error) {
	if memberID == "" {
		return 0, faults.Validation("member id is required")
	}

	matches, err := s.store.List(ctx, matchstore.Ascending)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, match := range matches {
		if match.MemberStatus(memberID) == matchstore.StatusNotResponded {
			count++
		}
	}
	return count, nil
}

// DetailsForMember returns the full match minus the squad map, with the
// member's own status substituted in.
func (s *HomeService) DetailsForMember(ctx context.Context, matchID, memberID string) (MatchView, error) {
	if matchID == "" || memberID == "" {
		return MatchView{}, faults.Validation("match id and member id are required")
	}

	match, err := s.store.Get(ctx, matchID)
	if err != nil {
		return MatchView{}, err
	}
	return viewFor(match, memberID), nil
}
