package users

import (
	"context"
	"log"

	"github.com/camels-app/availability-sync/pkg/faults"
	"github.com/camels-app/availability-sync/pkg/invitecode"
	"github.com/camels-app/availability-sync/repos/directory"
)

// Directory is the member directory this service administers.
type Directory interface {
	ListMembers(ctx context.Context) ([]directory.Member, error)
	GetMember(ctx context.Context, uid string) (directory.Member, error)
	CreateMember(ctx context.Context, req directory.NewMemberRequest) (string, error)
	UpdateMember(ctx context.Context, uid, displayName string, role int64) error
	SetPushToken(ctx context.Context, uid, pushToken string) error
	DeleteMember(ctx context.Context, uid string) error
}

// Inviter sends and records signup invites.
type Inviter interface {
	SendInvite(ctx context.Context, email, code string) error
	MarkInvited(ctx context.Context, email string) error
	IsInvited(ctx context.Context, email string) (bool, error)
}

// UsersService is thin plumbing over the member directory plus the
// invite-gated signup flow.
type UsersService struct {
	directory Directory
	inviter   Inviter
}

// NewUsersService creates a new users service.
func NewUsersService(dir Directory, inviter Inviter) *UsersService {
	return &UsersService{
		directory: dir,
		inviter:   inviter,
	}
}

// Signup creates a directory entry for an invited address. Uninvited
// addresses are rejected before anything is written.
func (s *UsersService) Signup(ctx context.Context, req directory.NewMemberRequest) (string, error) {
	if req.DisplayName == "" || req.Password == "" || req.Email == "" || req.Role == 0 {
		return "", faults.Validation("displayName, password, email and role are required")
	}

	invited, err := s.inviter.IsInvited(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if !invited {
		return "", faults.Validation("your email address is not invited")
	}

	return s.directory.CreateMember(ctx, req)
}

// Invite records the address and mails it a signup link.
func (s *UsersService) Invite(ctx context.Context, email string) error {
	if email == "" {
		return faults.Validation("email is required")
	}

	if err := s.inviter.MarkInvited(ctx, email); err != nil {
		return err
	}

	code := invitecode.Generate(email)
	if err := s.inviter.SendInvite(ctx, email, code); err != nil {
		log.Printf("Failed to send invite to %s: %v\n", email, err)
		return err
	}
	return nil
}

// List returns every directory member.
func (s *UsersService) List(ctx context.Context) ([]directory.Member, error) {
	return s.directory.ListMembers(ctx)
}

// Get returns one directory member.
func (s *UsersService) Get(ctx context.Context, uid string) (directory.Member, error) {
	return s.directory.GetMember(ctx, uid)
}

// Patch updates a member's display name and role.
func (s *UsersService) Patch(ctx context.Context, uid, displayName string, role int64) error {
	if uid == "" || displayName == "" || role == 0 {
		return faults.Validation("uid, displayName and role are required")
	}
	return s.directory.UpdateMember(ctx, uid, displayName, role)
}

// SetPushToken registers a member's device for push delivery.
func (s *UsersService) SetPushToken(ctx context.Context, uid, pushToken string) error {
	if pushToken == "" {
		return faults.Validation("pushToken is required")
	}
	return s.directory.SetPushToken(ctx, uid, pushToken)
}

// Delete removes a member from the directory.
func (s *UsersService) Delete(ctx context.Context, uid string) error {
	return s.directory.DeleteMember(ctx, uid)
}
