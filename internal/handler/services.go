package handler

import (
	"context"
	"mime/multipart"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/google/uuid"
)

// AuthService is the account workflow surface used by the handlers.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.Account, error)
	VerifyEmail(ctx context.Context, token string) (*model.Account, error)
	ResendVerification(ctx context.Context, email string) (*model.Account, error)
	Login(ctx context.Context, role model.Role, email, password string) (*service.LoginResult, error)
	Profile(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error)
}

// ClassroomService is the classroom surface used by the handlers.
type ClassroomService interface {
	Create(ctx context.Context, tutorID uuid.UUID, req model.CreateClassroomRequest) (*model.Classroom, error)
	ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]model.Classroom, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.ClassroomSummary, error)
	GetByCode(ctx context.Context, code string) (*model.Classroom, error)
	Join(ctx context.Context, studentID uuid.UUID, code string) (*model.Classroom, error)
	Authorize(ctx context.Context, p service.Principal, classroomID uuid.UUID) (*model.Classroom, error)
}

// AssignmentService is the assignment surface used by the handlers.
type AssignmentService interface {
	Create(ctx context.Context, tutorID uuid.UUID, in service.CreateAssignmentInput) (*model.Assignment, error)
	List(ctx context.Context, p service.Principal, classroomID uuid.UUID) ([]model.Assignment, error)
}

// MediaService stores uploaded files.
type MediaService interface {
	SaveUploads(ctx context.Context, headers []*multipart.FileHeader) ([]model.File, error)
}
