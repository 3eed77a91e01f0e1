package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
)

// DeadlineLookahead is the rolling window ahead of "now" within which a due
// task becomes notifiable.
const DeadlineLookahead = 24 * time.Hour

// TriggerService derives notifications from domain events. Every trigger
// funnels through NotificationService.Create, so each underlying event
// notifies at most once no matter how often it re-fires.
type TriggerService struct {
	notifications *NotificationService
	tasks         domain.TaskReader
	directory     domain.UserDirectory
}

func NewTriggerService(notifications *NotificationService, tasks domain.TaskReader, directory domain.UserDirectory) *TriggerService {
	return &TriggerService{notifications: notifications, tasks: tasks, directory: directory}
}

type TaskAssignment struct {
	TaskID     uuid.UUID
	ProjectID  uuid.UUID
	TaskTitle  string
	AssigneeID uuid.UUID
	ActorID    uuid.UUID
}

// TaskAssigned fires when a task's assignee changes to a non-null value.
// Self-assignment is silent.
func (t *TriggerService) TaskAssigned(ctx context.Context, event TaskAssignment) error {
	if event.AssigneeID == uuid.Nil || event.AssigneeID == event.ActorID {
		return nil
	}

	_, _, err := t.notifications.Create(ctx,
		event.AssigneeID,
		domain.NotificationTypeAssignment,
		"New task assignment",
		fmt.Sprintf("Task %q was assigned to you.", taskTitleOrDefault(event.TaskTitle)),
		domain.Metadata{
			"taskId":     event.TaskID.String(),
			"projectId":  event.ProjectID.String(),
			"assignedBy": actorRef(event.ActorID),
		},
		fmt.Sprintf("assignment:%s:%s", event.TaskID, event.AssigneeID),
	)
	return err
}

type MentionScan struct {
	TaskID    uuid.UUID
	ProjectID uuid.UUID
	TaskTitle string
	Text      string
	ActorID   uuid.UUID
}

// NotifyMentions scans free text for @handles and email addresses, resolves
// them against the user directory and notifies every resolved user except the
// actor. Re-editing the same text with the same mention does not re-notify.
func (t *TriggerService) NotifyMentions(ctx context.Context, event MentionScan) error {
	targets := ExtractMentionTargets(event.Text)
	if targets.Empty() {
		return nil
	}

	users, err := t.directory.ResolveHandles(ctx, targets.Usernames, targets.Emails)
	if err != nil {
		return fmt.Errorf("failed to resolve mention targets: %w", err)
	}

	for _, user := range users {
		if user.ID == uuid.Nil || user.ID == event.ActorID {
			continue
		}

		mentionTarget := user.Username
		if mentionTarget == "" {
			mentionTarget = user.Email
		}

		if _, _, err := t.notifications.Create(ctx,
			user.ID,
			domain.NotificationTypeMention,
			"You were mentioned",
			fmt.Sprintf("You were mentioned in task %q.", taskTitleOrDefault(event.TaskTitle)),
			domain.Metadata{
				"taskId":        event.TaskID.String(),
				"projectId":     event.ProjectID.String(),
				"mentionedBy":   actorRef(event.ActorID),
				"mentionTarget": mentionTarget,
			},
			fmt.Sprintf("mention:%s:%s", event.TaskID, user.ID),
		); err != nil {
			// One recipient failing must not starve the rest of the
			// mention list.
			log.Printf("[Trigger] mention notification for user %s failed: %v", user.ID, err)
		}
	}
	return nil
}

// ScanDeadlines notifies the user about every incomplete assigned task due
// within the lookahead window. The dedupe key embeds the due timestamp, so a
// rescheduled task notifies again while an unchanged one never does.
func (t *TriggerService) ScanDeadlines(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}

	tasks, err := t.tasks.DueWithin(ctx, userID, DeadlineLookahead)
	if err != nil {
		return fmt.Errorf("failed to scan due tasks: %w", err)
	}

	for _, task := range tasks {
		dueISO := task.DueDate.UTC().Format(time.RFC3339)
		if _, _, err := t.notifications.Create(ctx,
			userID,
			domain.NotificationTypeDeadline,
			"Task due within 24 hours",
			fmt.Sprintf("Task %q is due soon.", task.Title),
			domain.Metadata{
				"taskId":    task.ID.String(),
				"projectId": task.ProjectID.String(),
				"dueDate":   dueISO,
			},
			fmt.Sprintf("deadline:%s:%s", task.ID, dueISO),
		); err != nil {
			return err
		}
	}
	return nil
}

type WorkspaceInvite struct {
	WorkspaceID   uuid.UUID
	WorkspaceName string
	InviteeID     uuid.UUID
	ActorID       uuid.UUID
}

// WorkspaceInvited fires when a user is added to a workspace. Authorization
// of the acting user is the workspace collaborator's responsibility.
func (t *TriggerService) WorkspaceInvited(ctx context.Context, event WorkspaceInvite) error {
	_, _, err := t.notifications.Create(ctx,
		event.InviteeID,
		domain.NotificationTypeInvite,
		"Workspace collaboration invite",
		fmt.Sprintf("You have been invited to workspace %q.", event.WorkspaceName),
		domain.Metadata{
			"workspaceId": event.WorkspaceID.String(),
			"invitedBy":   actorRef(event.ActorID),
		},
		fmt.Sprintf("invite:%s:%s", event.WorkspaceID, event.InviteeID),
	)
	return err
}

func taskTitleOrDefault(title string) string {
	if title == "" {
		return "Untitled Task"
	}
	return title
}

func actorRef(actorID uuid.UUID) any {
	if actorID == uuid.Nil {
		return nil
	}
	return actorID.String()
}
