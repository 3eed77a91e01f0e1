package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeDeadline   NotificationType = "deadline"
	NotificationTypeAssignment NotificationType = "assignment"
	NotificationTypeMention    NotificationType = "mention"
	NotificationTypeInvite     NotificationType = "invite"
)

// Valid reports whether t is one of the supported notification types.
// The enumeration is closed: unknown values are rejected at creation.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeDeadline, NotificationTypeAssignment, NotificationTypeMention, NotificationTypeInvite:
		return true
	}
	return false
}

// MetadataDedupeKey is the reserved metadata field carrying the dedupe key.
const MetadataDedupeKey = "dedupeKey"

// Metadata is an open key/value map carrying event-specific references
// (task id, project id, actor id). Persisted as JSONB.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Metadata", src)
	}
	if len(raw) == 0 {
		*m = Metadata{}
		return nil
	}
	return json.Unmarshal(raw, m)
}

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Metadata  Metadata         `json:"metadata" db:"metadata"`
	DedupeKey string           `json:"-" db:"dedupe_key"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// NewNotification validates the input and builds an unread notification with a
// fresh id, timestamp and effective dedupe key. The key is, in order of
// preference: the explicit dedupeKey argument, the reserved metadata field, or
// a deterministic fallback composed from type, recipient, title and message so
// that key-less callers still get idempotent creation.
func NewNotification(userID uuid.UUID, typ NotificationType, title, message string, metadata Metadata, dedupeKey string) (*Notification, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)

	if userID == uuid.Nil {
		return nil, &ValidationError{Field: "user_id", Reason: "a valid recipient is required"}
	}
	if !typ.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported notification type %q", typ)}
	}
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if message == "" {
		return nil, &ValidationError{Field: "message", Reason: "message must not be empty"}
	}

	key := strings.TrimSpace(dedupeKey)
	if key == "" {
		if fromMeta, ok := metadata[MetadataDedupeKey].(string); ok {
			key = strings.TrimSpace(fromMeta)
		}
	}
	if key == "" {
		key = fmt.Sprintf("%s:%s:%s:%s", typ, userID, title, message)
	}

	// The stored metadata always carries the effective key so the record is
	// self-describing even when the caller supplied none.
	meta := Metadata{}
	for k, v := range metadata {
		meta[k] = v
	}
	meta[MetadataDedupeKey] = key

	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Metadata:  meta,
		DedupeKey: key,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}, nil
}
