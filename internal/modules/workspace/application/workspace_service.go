package application

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	notification "github.com/Knaifu0030/task-nexus/internal/modules/notification/application"
	"github.com/Knaifu0030/task-nexus/internal/modules/workspace/domain"
)

type WorkspaceService struct {
	repo     domain.WorkspaceRepository
	triggers *notification.TriggerService
}

func NewWorkspaceService(repo domain.WorkspaceRepository, triggers *notification.TriggerService) *WorkspaceService {
	return &WorkspaceService{repo: repo, triggers: triggers}
}

// InviteMember adds the user behind email to the workspace and notifies
// them. Only owners and admins may invite. The notification is best-effort;
// a failed push never rolls back the membership.
func (s *WorkspaceService) InviteMember(ctx context.Context, workspaceID, inviterID uuid.UUID, email string) (*domain.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrUserNotFound
	}

	role, err := s.repo.MemberRole(ctx, workspaceID, inviterID)
	if err != nil {
		return nil, err
	}
	if !domain.CanInvite(role) {
		return nil, domain.ErrForbidden
	}

	invitee, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	alreadyMember, err := s.repo.IsMember(ctx, workspaceID, invitee.ID)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, domain.ErrAlreadyMember
	}

	if err := s.repo.AddMember(ctx, workspaceID, invitee.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	member, err := s.repo.GetMember(ctx, workspaceID, invitee.ID)
	if err != nil {
		return nil, err
	}

	workspace, err := s.repo.Get(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if err := s.triggers.WorkspaceInvited(ctx, notification.WorkspaceInvite{
		WorkspaceID:   workspaceID,
		WorkspaceName: workspace.Name,
		InviteeID:     invitee.ID,
		ActorID:       inviterID,
	}); err != nil {
		log.Printf("[Workspace] invite notification failed for user %s: %v", invitee.ID, err)
	}

	return member, nil
}
