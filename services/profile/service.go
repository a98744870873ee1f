package profile

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/camels-app/availability-sync/pkg/faults"
)

const profileCollection = "profile"

// ProfileService is thin plumbing over the per-member profile documents.
type ProfileService struct {
	firestoreClient *firestore.Client
}

// NewProfileService creates a new profile service.
func NewProfileService(firestoreClient *firestore.Client) *ProfileService {
	return &ProfileService{firestoreClient: firestoreClient}
}

// Get returns the raw profile document for a member.
func (s *ProfileService) Get(ctx context.Context, uid string) (map[string]interface{}, error) {
	doc, err := s.firestoreClient.Collection(profileCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, faults.NotFound("profile %s", uid)
		}
		log.Printf("Failed to get profile %s from Firestore: %v\n", uid, err)
		return nil, faults.Storage(err)
	}
	return doc.Data(), nil
}

// PatchType replaces the profile's type map.
func (s *ProfileService) PatchType(ctx context.Context, uid string, profileType map[string]interface{}) error {
	if uid == "" || len(profileType) == 0 {
		return faults.Validation("uid and type are required")
	}

	_, err := s.firestoreClient.Collection(profileCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "type", Value: profileType},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return faults.NotFound("profile %s", uid)
		}
		log.Printf("Failed to update profile %s in Firestore: %v\n", uid, err)
		return faults.Storage(err)
	}
	return nil
}
