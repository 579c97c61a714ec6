package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dlsms/dlsms-backend/internal/model"
	ws "github.com/dlsms/dlsms-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssignmentStore is the assignment persistence used by AssignmentService.
type AssignmentStore interface {
	Create(ctx context.Context, a *model.Assignment) error
	ListByClassroom(ctx context.Context, classroomID uuid.UUID) ([]model.Assignment, error)
}

// CreateAssignmentInput is a parsed assignment form. Files have already
// been stored; only their metadata is kept.
type CreateAssignmentInput struct {
	ClassroomID  uuid.UUID
	Title        string
	Instructions string
	DueAt        *time.Time
	Points       *int
	Files        []model.File
}

// AssignmentService creates and lists classroom assignments.
type AssignmentService struct {
	assignments AssignmentStore
	classrooms  *ClassroomService
	events      EventPublisher
	log         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignments AssignmentStore, classrooms *ClassroomService, events EventPublisher, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		classrooms:  classrooms,
		events:      events,
		log:         log.With().Str("component", "assignment_service").Logger(),
	}
}

// Create stores an assignment in a classroom owned by tutorID and notifies
// connected members. A failed notification is logged and ignored.
func (s *AssignmentService) Create(ctx context.Context, tutorID uuid.UUID, in CreateAssignmentInput) (*model.Assignment, error) {
	if _, err := s.classrooms.Authorize(ctx, Principal{ID: tutorID, Role: model.RoleTutor}, in.ClassroomID); err != nil {
		return nil, err
	}

	files := in.Files
	if files == nil {
		files = []model.File{}
	}
	a := &model.Assignment{
		ID:           uuid.New(),
		ClassroomID:  in.ClassroomID,
		Title:        strings.TrimSpace(in.Title),
		Instructions: strings.TrimSpace(in.Instructions),
		DueAt:        in.DueAt,
		Points:       in.Points,
		Files:        files,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.log.Info().
		Str("assignment_id", a.ID.String()).
		Str("classroom_id", a.ClassroomID.String()).
		Int("files", len(a.Files)).
		Msg("Assignment created")

	s.publishCreated(ctx, a)
	return a, nil
}

// List returns a classroom's assignments to its owner or an enrolled student.
func (s *AssignmentService) List(ctx context.Context, p Principal, classroomID uuid.UUID) ([]model.Assignment, error) {
	if _, err := s.classrooms.Authorize(ctx, p, classroomID); err != nil {
		return nil, err
	}
	return s.assignments.ListByClassroom(ctx, classroomID)
}

func (s *AssignmentService) publishCreated(ctx context.Context, a *model.Assignment) {
	if s.events == nil {
		return
	}
	event, err := ws.NewClassroomEvent(ws.EventAssignmentCreated, a.ClassroomID, a)
	if err == nil {
		err = s.events.Publish(ctx, event)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("assignment_id", a.ID.String()).Msg("Failed to publish assignment event")
	}
}

// ParseDueAt combines a YYYY-MM-DD date and an optional HH:MM time in UTC.
// An empty date means no due date; a time without a date is invalid.
func ParseDueAt(date, clock string) (*time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		if clock != "" {
			return nil, &ValidationError{Fields: map[string]string{"due_date": "Required when due_time is set"}}
		}
		return nil, nil
	}
	if clock == "" {
		clock = "23:59"
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"due_date": "Must be a valid date and time"}}
	}
	return &t, nil
}
