package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const Source = "lms-service"

// Event types broadcast so open views can refresh. Delivery is a hint,
// never a source of truth.
const (
	TypeAssignmentCreated  = "assignment.created"
	TypeQuizCreated        = "quiz.created"
	TypeCourseCreated      = "course.created"
	TypeGradePosted        = "grade.posted"
	TypeBulkNotification   = "system.bulk_notification"
	TypeAnnouncementPosted = "announcement.posted"
)

type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func (e Event) Marshal() ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return payload, nil
}

// EventPublisher broadcasts events to whatever views are currently
// subscribed. At-most-once: events published with no subscriber are lost.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// EventSubscriber receives the broadcast stream.
type EventSubscriber interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}
