package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notification "github.com/Knaifu0030/task-nexus/internal/modules/notification/application"
	notificationdomain "github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
	"github.com/Knaifu0030/task-nexus/internal/modules/workspace/domain"
)

type workspaceRepoMock struct {
	getFn             func(context.Context, uuid.UUID) (*domain.Workspace, error)
	memberRoleFn      func(context.Context, uuid.UUID, uuid.UUID) (string, error)
	isMemberFn        func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	addMemberFn       func(context.Context, uuid.UUID, uuid.UUID, string) error
	getMemberFn       func(context.Context, uuid.UUID, uuid.UUID) (*domain.Member, error)
	findUserByEmailFn func(context.Context, string) (*domain.Invitee, error)
}

func (m workspaceRepoMock) Get(ctx context.Context, workspaceID uuid.UUID) (*domain.Workspace, error) {
	return m.getFn(ctx, workspaceID)
}

func (m workspaceRepoMock) MemberRole(ctx context.Context, workspaceID, userID uuid.UUID) (string, error) {
	return m.memberRoleFn(ctx, workspaceID, userID)
}

func (m workspaceRepoMock) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	return m.isMemberFn(ctx, workspaceID, userID)
}

func (m workspaceRepoMock) AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role string) error {
	return m.addMemberFn(ctx, workspaceID, userID, role)
}

func (m workspaceRepoMock) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	return m.getMemberFn(ctx, workspaceID, userID)
}

func (m workspaceRepoMock) FindUserByEmail(ctx context.Context, email string) (*domain.Invitee, error) {
	return m.findUserByEmailFn(ctx, email)
}

type notificationRepoMock struct {
	created []*notificationdomain.Notification
	err     error
}

func (m *notificationRepoMock) Create(_ context.Context, n *notificationdomain.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, n)
	return nil
}

func (m *notificationRepoMock) GetByUserID(context.Context, uuid.UUID, int, int) ([]notificationdomain.Notification, error) {
	return nil, nil
}

func (m *notificationRepoMock) CountByUserID(context.Context, uuid.UUID) (int, error) { return 0, nil }

func (m *notificationRepoMock) UnreadCount(context.Context, uuid.UUID) (int, error) { return 0, nil }

func (m *notificationRepoMock) MarkAsRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (m *notificationRepoMock) MarkAllAsRead(context.Context, uuid.UUID) (int, error) { return 0, nil }

type noopPublisher struct{}

func (noopPublisher) PublishNotification(context.Context, *notificationdomain.Notification) error {
	return nil
}

func newService(repo workspaceRepoMock, notifications *notificationRepoMock) *WorkspaceService {
	svc := notification.NewNotificationService(notifications, noopPublisher{})
	triggers := notification.NewTriggerService(svc, nil, nil)
	return NewWorkspaceService(repo, triggers)
}

func TestWorkspaceService_InviteMember(t *testing.T) {
	workspaceID := uuid.New()
	inviterID := uuid.New()
	invitee := &domain.Invitee{ID: uuid.New(), Username: "ana_b", Email: "ana@co.io"}
	member := &domain.Member{WorkspaceID: workspaceID, UserID: invitee.ID, Role: domain.RoleMember, Username: "ana_b", Email: "ana@co.io"}
	workspace := &domain.Workspace{ID: workspaceID, Name: "Acme", OwnerID: inviterID}

	happyRepo := func(addedRole *string) workspaceRepoMock {
		return workspaceRepoMock{
			getFn: func(_ context.Context, gotWorkspaceID uuid.UUID) (*domain.Workspace, error) {
				assert.Equal(t, workspaceID, gotWorkspaceID)
				return workspace, nil
			},
			memberRoleFn: func(_ context.Context, _, gotUserID uuid.UUID) (string, error) {
				assert.Equal(t, inviterID, gotUserID)
				return domain.RoleOwner, nil
			},
			isMemberFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return false, nil },
			addMemberFn: func(_ context.Context, _, gotUserID uuid.UUID, role string) error {
				assert.Equal(t, invitee.ID, gotUserID)
				if addedRole != nil {
					*addedRole = role
				}
				return nil
			},
			getMemberFn: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Member, error) {
				return member, nil
			},
			findUserByEmailFn: func(_ context.Context, email string) (*domain.Invitee, error) {
				assert.Equal(t, "ana@co.io", email)
				return invitee, nil
			},
		}
	}

	t.Run("invite adds member and notifies", func(t *testing.T) {
		var addedRole string
		notifications := &notificationRepoMock{}
		svc := newService(happyRepo(&addedRole), notifications)

		got, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "  Ana@Co.IO ")
		require.NoError(t, err)
		assert.Equal(t, member, got)
		assert.Equal(t, domain.RoleMember, addedRole)

		require.Len(t, notifications.created, 1)
		n := notifications.created[0]
		assert.Equal(t, invitee.ID, n.UserID)
		assert.Equal(t, notificationdomain.NotificationTypeInvite, n.Type)
		assert.Contains(t, n.Message, `"Acme"`)
	})

	t.Run("plain member cannot invite", func(t *testing.T) {
		repo := happyRepo(nil)
		repo.memberRoleFn = func(context.Context, uuid.UUID, uuid.UUID) (string, error) {
			return domain.RoleMember, nil
		}
		svc := newService(repo, &notificationRepoMock{})

		_, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "ana@co.io")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("non-member cannot invite", func(t *testing.T) {
		repo := happyRepo(nil)
		repo.memberRoleFn = func(context.Context, uuid.UUID, uuid.UUID) (string, error) {
			return "", domain.ErrNotMember
		}
		svc := newService(repo, &notificationRepoMock{})

		_, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "ana@co.io")
		assert.ErrorIs(t, err, domain.ErrNotMember)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := happyRepo(nil)
		repo.findUserByEmailFn = func(context.Context, string) (*domain.Invitee, error) {
			return nil, domain.ErrUserNotFound
		}
		svc := newService(repo, &notificationRepoMock{})

		_, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "nobody@co.io")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("blank email", func(t *testing.T) {
		svc := newService(happyRepo(nil), &notificationRepoMock{})

		_, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "   ")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("already a member", func(t *testing.T) {
		repo := happyRepo(nil)
		repo.isMemberFn = func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return true, nil }
		notifications := &notificationRepoMock{}
		svc := newService(repo, notifications)

		_, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "ana@co.io")
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
		assert.Empty(t, notifications.created)
	})

	t.Run("notification failure does not roll back membership", func(t *testing.T) {
		notifications := &notificationRepoMock{err: errors.New("db down")}
		svc := newService(happyRepo(nil), notifications)

		got, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "ana@co.io")
		require.NoError(t, err)
		assert.Equal(t, member, got)
	})

	t.Run("add member failure propagates", func(t *testing.T) {
		repo := happyRepo(nil)
		repo.addMemberFn = func(context.Context, uuid.UUID, uuid.UUID, string) error {
			return errors.New("db down")
		}
		svc := newService(repo, &notificationRepoMock{})

		_, err := svc.InviteMember(context.Background(), workspaceID, inviterID, "ana@co.io")
		assert.EqualError(t, err, "db down")
	})
}
