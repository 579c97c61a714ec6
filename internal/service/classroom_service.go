package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ClassroomStore is the classroom persistence used by ClassroomService.
// Lookups return (nil, nil) when nothing matches.
type ClassroomStore interface {
	Create(ctx context.Context, c *model.Classroom) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Classroom, error)
	GetByCode(ctx context.Context, code string) (*model.Classroom, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]model.Classroom, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.ClassroomSummary, error)
	AddStudent(ctx context.Context, classroomID, studentID uuid.UUID) error
	IsMember(ctx context.Context, classroomID, studentID uuid.UUID) (bool, error)
}

// Principal is the authenticated caller of a classroom operation.
type Principal struct {
	ID   uuid.UUID
	Role model.Role
}

const (
	codeLength   = 8
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeAttempts = 3
)

// ClassroomService manages classrooms and their membership.
type ClassroomService struct {
	classrooms ClassroomStore
	log        zerolog.Logger
}

// NewClassroomService creates a new ClassroomService.
func NewClassroomService(classrooms ClassroomStore, log zerolog.Logger) *ClassroomService {
	return &ClassroomService{
		classrooms: classrooms,
		log:        log.With().Str("component", "classroom_service").Logger(),
	}
}

// Create stores a classroom owned by tutorID. The abbreviation is derived
// from the name. An omitted code is generated; a supplied code that is
// already taken fails with ErrClassroomCodeTaken.
func (s *ClassroomService) Create(ctx context.Context, tutorID uuid.UUID, req model.CreateClassroomRequest) (*model.Classroom, error) {
	c := &model.Classroom{
		ID:           uuid.New(),
		TutorID:      tutorID,
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Abbreviation: model.Abbreviate(req.Name),
	}

	supplied := strings.ToUpper(strings.TrimSpace(req.Code))
	for attempt := 0; ; attempt++ {
		if supplied != "" {
			c.Code = supplied
		} else {
			code, err := generateCode()
			if err != nil {
				return nil, err
			}
			c.Code = code
		}

		err := s.classrooms.Create(ctx, c)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrAccountMissing) {
			return nil, ErrAccountNotFound
		}
		if !errors.Is(err, repository.ErrClassroomCodeTaken) {
			return nil, fmt.Errorf("create classroom: %w", err)
		}
		if supplied != "" || attempt+1 >= codeAttempts {
			return nil, ErrClassroomCodeTaken
		}
	}

	s.log.Info().
		Str("classroom_id", c.ID.String()).
		Str("tutor_id", tutorID.String()).
		Str("code", c.Code).
		Msg("Classroom created")
	return c, nil
}

// ListForTutor returns the classrooms a tutor owns.
func (s *ClassroomService) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]model.Classroom, error) {
	return s.classrooms.ListByTutor(ctx, tutorID)
}

// ListForStudent returns the classrooms a student is enrolled in.
func (s *ClassroomService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.ClassroomSummary, error) {
	return s.classrooms.ListByStudent(ctx, studentID)
}

// GetByCode returns the classroom with the given join code.
func (s *ClassroomService) GetByCode(ctx context.Context, code string) (*model.Classroom, error) {
	c, err := s.classrooms.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Join enrolls a student in the classroom with the given code. Joining
// twice is a no-op.
func (s *ClassroomService) Join(ctx context.Context, studentID uuid.UUID, code string) (*model.Classroom, error) {
	c, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.classrooms.AddStudent(ctx, c.ID, studentID); err != nil {
		if errors.Is(err, repository.ErrAccountMissing) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("add student: %w", err)
	}

	for _, id := range c.StudentIDs {
		if id == studentID {
			return c, nil
		}
	}
	c.StudentIDs = append(c.StudentIDs, studentID)

	s.log.Info().Str("classroom_id", c.ID.String()).Str("student_id", studentID.String()).Msg("Student joined classroom")
	return c, nil
}

// Authorize returns the classroom when p owns it (tutor) or is enrolled in
// it (student).
func (s *ClassroomService) Authorize(ctx context.Context, p Principal, classroomID uuid.UUID) (*model.Classroom, error) {
	c, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	switch p.Role {
	case model.RoleTutor:
		if c.TutorID != p.ID {
			return nil, ErrForbidden
		}
	case model.RoleStudent:
		member, err := s.classrooms.IsMember(ctx, classroomID, p.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrInvalidRole
	}
	return c, nil
}

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate classroom code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
