package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestNewEvent_FillsEnvelope(t *testing.T) {
	event := NewEvent(EventCourseCreated, CourseEvent{CourseID: 1, TeacherID: 2})

	if event.ID == "" {
		t.Fatal("event must get a fresh ID")
	}
	if event.Source != EventSource {
		t.Fatalf("source = %q, want %q", event.Source, EventSource)
	}
	if event.Type != EventCourseCreated {
		t.Fatalf("type = %q", event.Type)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}

	other := NewEvent(EventCourseCreated, nil)
	if other.ID == event.ID {
		t.Fatal("event IDs must be unique")
	}
}

func TestMockEventPublisher_RecordsAndClears(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	if err := publisher.Publish(ctx, NewEvent(EventStudentEnrolled, EnrollmentEvent{StudentID: 1, CourseID: 2})); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := publisher.Publish(ctx, NewEvent(EventStudentUnenrolled, EnrollmentEvent{StudentID: 1, CourseID: 2})); err != nil {
		t.Fatalf("publish: %v", err)
	}

	events := publisher.GetPublishedEvents()
	if len(events) != 2 {
		t.Fatalf("expected 2 recorded events, got %d", len(events))
	}
	if events[0].Type != EventStudentEnrolled || events[1].Type != EventStudentUnenrolled {
		t.Fatalf("unexpected order: %s, %s", events[0].Type, events[1].Type)
	}

	// The snapshot is detached from later publishes.
	_ = publisher.Publish(ctx, NewEvent(EventCourseDeleted, nil))
	if len(events) != 2 {
		t.Fatal("snapshot must not grow after later publishes")
	}

	publisher.ClearEvents()
	if got := publisher.GetPublishedEvents(); len(got) != 0 {
		t.Fatalf("expected no events after clear, got %d", len(got))
	}
}
