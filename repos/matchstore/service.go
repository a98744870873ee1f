package matchstore

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/camels-app/availability-sync/pkg/faults"
)

const matchCollection = "matches"

// Direction selects the ordering for match listings.
type Direction int

const (
	// Ascending lists matches from the nearest fixture onward.
	Ascending Direction = iota
	// Descending lists matches newest first, the history view.
	Descending
)

// Service owns the match documents in Firestore. It is the only writer
// of the matches collection.
type Service struct {
	Client *firestore.Client

	now func() time.Time
}

// NewService creates a new store over the given Firestore client.
func NewService(client *firestore.Client) *Service {
	return &Service{
		Client: client,
		now:    time.Now,
	}
}

// Set writes the full match document, stamping created/updated times.
// An existing document with the same id is overwritten whole.
func (s *Service) Set(ctx context.Context, match Match) (Match, error) {
	now := s.now().UTC()
	match.CreatedTime = now
	match.UpdatedTime = now

	_, err := s.Client.Collection(matchCollection).Doc(match.ID).Set(ctx, match)
	if err != nil {
		log.Printf("Failed to write match %s to Firestore: %v\n", match.ID, err)
		return Match{}, faults.Storage(err)
	}
	return match, nil
}

// ApplyPatch updates only the supplied descriptive fields of an existing
// match. A non-nil Squad replaces the attendance map wholesale; the
// per-member path update lives in UpdateMemberStatus.
func (s *Service) ApplyPatch(ctx context.Context, id string, patch MatchPatch) error {
	updates := []firestore.Update{
		{Path: "updatedTime", Value: s.now().UTC()},
	}
	for path, value := range map[string]*string{
		"venue":    patch.Venue,
		"address":  patch.Address,
		"date":     patch.Date,
		"time":     patch.Time,
		"opponent": patch.Opponent,
		"status":   patch.Status,
	} {
		if value != nil {
			updates = append(updates, firestore.Update{Path: path, Value: *value})
		}
	}
	if patch.MatchDate != nil {
		updates = append(updates, firestore.Update{Path: "matchDate", Value: *patch.MatchDate})
	}
	if patch.Squad != nil {
		updates = append(updates, firestore.Update{Path: "squad", Value: patch.Squad})
	}

	_, err := s.Client.Collection(matchCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return faults.NotFound("match %s", id)
		}
		log.Printf("Failed to update match %s in Firestore: %v\n", id, err)
		return faults.Storage(err)
	}
	return nil
}

// UpdateMemberStatus sets squad.<memberID>.status and nothing else. The
// write touches a single field path, so two members answering the same
// match at once cannot clobber each other's records.
func (s *Service) UpdateMemberStatus(ctx context.Context, matchID, memberID string, st Status) error {
	_, err := s.Client.Collection(matchCollection).Doc(matchID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"squad", memberID, "status"}, Value: st},
		{Path: "updatedTime", Value: s.now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return faults.NotFound("match %s", matchID)
		}
		log.Printf("Failed to update status for %s on match %s: %v\n", memberID, matchID, err)
		return faults.Storage(err)
	}
	return nil
}

// Get returns the stored match document.
func (s *Service) Get(ctx context.Context, id string) (Match, error) {
	doc, err := s.Client.Collection(matchCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Match{}, faults.NotFound("match %s", id)
		}
		log.Printf("Failed to get match %s from Firestore: %v\n", id, err)
		return Match{}, faults.Storage(err)
	}

	var match Match
	if err := doc.DataTo(&match); err != nil {
		// If this fails, we have an inconsistency error as we control both
		// the data written to Firestore and the shape of the Match struct.
		return Match{}, xerrors.Errorf(
			"consistency error. Converting %+v to match struct failed: %w",
			doc,
			err,
		)
	}
	return match, nil
}

// Delete removes the match and its attendance data. Push logs are
// match-agnostic and unaffected.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.Client.Collection(matchCollection).Doc(id).Delete(ctx)
	if err != nil {
		log.Printf("Failed to delete match %s from Firestore: %v\n", id, err)
		return faults.Storage(err)
	}
	return nil
}

// List returns all matches ordered by their scheduling key.
func (s *Service) List(ctx context.Context, dir Direction) ([]Match, error) {
	order := firestore.Asc
	if dir == Descending {
		order = firestore.Desc
	}

	iter := s.Client.Collection(matchCollection).OrderBy("matchDate", order).Documents(ctx)
	defer iter.Stop()

	var matches []Match
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			log.Printf("Failed to list matches from Firestore: %v\n", err)
			return nil, faults.Storage(err)
		}

		var match Match
		if err := doc.DataTo(&match); err != nil {
			return nil, xerrors.Errorf(
				"consistency error. Converting %+v to match struct failed: %w",
				doc,
				err,
			)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Upcoming returns the single match with the earliest scheduling key
// strictly after the given instant, or nil when none exists.
func (s *Service) Upcoming(ctx context.Context, after time.Time) (*Match, error) {
	docs, err := s.Client.Collection(matchCollection).
		Where("matchDate", ">", after).
		OrderBy("matchDate", firestore.Asc).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		log.Printf("Failed to query upcoming match from Firestore: %v\n", err)
		return nil, faults.Storage(err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var match Match
	if err := docs[0].DataTo(&match); err != nil {
		return nil, xerrors.Errorf(
			"consistency error. Converting %+v to match struct failed: %w",
			docs[0],
			err,
		)
	}
	return &match, nil
}
