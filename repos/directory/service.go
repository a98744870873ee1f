package directory

import (
	"context"
	"log"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"

	"github.com/camels-app/availability-sync/pkg/faults"
)

const (
	claimRole      = "role"
	claimPushToken = "pushToken"
)

// Service reads and maintains the member directory held in Firebase
// Auth. The availability core only ever reads it; the users service also
// writes through it.
type Service struct {
	authClient *fbauth.Client
}

// NewService creates a new directory over the given auth client.
func NewService(authClient *fbauth.Client) *Service {
	return &Service{authClient: authClient}
}

// ListMembers returns the full current directory snapshot. There is no
// partial or cached fallback: an unreachable directory fails the call.
func (s *Service) ListMembers(ctx context.Context) ([]Member, error) {
	iter := s.authClient.Users(ctx, "")

	var members []Member
	for {
		user, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			log.Printf("Failed to list directory members: %v\n", err)
			return nil, faults.Directory(err)
		}
		members = append(members, memberFromRecord(user.UserRecord))
	}
	return members, nil
}

// GetMember returns a single directory entry.
func (s *Service) GetMember(ctx context.Context, uid string) (Member, error) {
	user, err := s.authClient.GetUser(ctx, uid)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return Member{}, faults.NotFound("member %s", uid)
		}
		log.Printf("Failed to get directory member %s: %v\n", uid, err)
		return Member{}, faults.Directory(err)
	}
	return memberFromRecord(user), nil
}

// CreateMember adds a directory entry and stamps its role and push token
// claims. Returns the new member's uid.
func (s *Service) CreateMember(ctx context.Context, req NewMemberRequest) (string, error) {
	params := (&fbauth.UserToCreate{}).
		DisplayName(req.DisplayName).
		Email(req.Email).
		Password(req.Password)

	user, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		log.Printf("Failed to create directory member: %v\n", err)
		return "", faults.Directory(err)
	}

	claims := map[string]interface{}{claimRole: req.Role, claimPushToken: req.PushToken}
	if err := s.authClient.SetCustomUserClaims(ctx, user.UID, claims); err != nil {
		log.Printf("Failed to set claims for new member %s: %v\n", user.UID, err)
		return "", faults.Directory(err)
	}
	return user.UID, nil
}

// UpdateMember changes the display name and role, preserving whatever
// push token is already registered.
func (s *Service) UpdateMember(ctx context.Context, uid, displayName string, role int64) error {
	current, err := s.GetMember(ctx, uid)
	if err != nil {
		return err
	}

	if _, err := s.authClient.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).DisplayName(displayName)); err != nil {
		log.Printf("Failed to update directory member %s: %v\n", uid, err)
		return faults.Directory(err)
	}

	claims := map[string]interface{}{claimRole: role, claimPushToken: current.PushToken}
	if err := s.authClient.SetCustomUserClaims(ctx, uid, claims); err != nil {
		log.Printf("Failed to set claims for member %s: %v\n", uid, err)
		return faults.Directory(err)
	}
	return nil
}

// SetPushToken registers a member's device token, preserving the role.
func (s *Service) SetPushToken(ctx context.Context, uid, pushToken string) error {
	current, err := s.GetMember(ctx, uid)
	if err != nil {
		return err
	}

	claims := map[string]interface{}{claimRole: current.Role, claimPushToken: pushToken}
	if err := s.authClient.SetCustomUserClaims(ctx, uid, claims); err != nil {
		log.Printf("Failed to set push token for member %s: %v\n", uid, err)
		return faults.Directory(err)
	}
	return nil
}

// DeleteMember removes a directory entry.
func (s *Service) DeleteMember(ctx context.Context, uid string) error {
	if err := s.authClient.DeleteUser(ctx, uid); err != nil {
		if fbauth.IsUserNotFound(err) {
			return faults.NotFound("member %s", uid)
		}
		log.Printf("Failed to delete directory member %s: %v\n", uid, err)
		return faults.Directory(err)
	}
	return nil
}

func memberFromRecord(user *fbauth.UserRecord) Member {
	member := Member{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	if user.UserMetadata != nil {
		member.CreationTime = formatMillis(user.UserMetadata.CreationTimestamp)
		member.LastSignInTime = formatMillis(user.UserMetadata.LastLogInTimestamp)
	}
	if role, ok := user.CustomClaims[claimRole].(float64); ok {
		member.Role = int64(role)
	}
	if token, ok := user.CustomClaims[claimPushToken].(string); ok {
		member.PushToken = token
	}
	return member
}

func formatMillis(millis int64) string {
	if millis == 0 {
		return ""
	}
	return time.UnixMilli(millis).UTC().Format(time.RFC1123)
}
