package handler

import (
	"context"
	"mime/multipart"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/google/uuid"
)

type stubAuth struct {
	register func(service.RegisterInput) (*model.Account, error)
	verify   func(string) (*model.Account, error)
	resend   func(string) (*model.Account, error)
	login    func(model.Role, string, string) (*service.LoginResult, error)
	profile  func(model.Role, uuid.UUID) (*model.Account, error)
}

func (s *stubAuth) Register(_ context.Context, in service.RegisterInput) (*model.Account, error) {
	return s.register(in)
}

func (s *stubAuth) VerifyEmail(_ context.Context, token string) (*model.Account, error) {
	return s.verify(token)
}

func (s *stubAuth) ResendVerification(_ context.Context, email string) (*model.Account, error) {
	return s.resend(email)
}

func (s *stubAuth) Login(_ context.Context, role model.Role, email, password string) (*service.LoginResult, error) {
	return s.login(role, email, password)
}

func (s *stubAuth) Profile(_ context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	return s.profile(role, id)
}

type stubClassrooms struct {
	create    func(uuid.UUID, model.CreateClassroomRequest) (*model.Classroom, error)
	byCode    func(string) (*model.Classroom, error)
	authorize func(service.Principal, uuid.UUID) (*model.Classroom, error)
}

func (s *stubClassrooms) Create(_ context.Context, tutorID uuid.UUID, req model.CreateClassroomRequest) (*model.Classroom, error) {
	return s.create(tutorID, req)
}

func (s *stubClassrooms) ListForTutor(context.Context, uuid.UUID) ([]model.Classroom, error) {
	return []model.Classroom{}, nil
}

func (s *stubClassrooms) ListForStudent(context.Context, uuid.UUID) ([]model.ClassroomSummary, error) {
	return []model.ClassroomSummary{}, nil
}

func (s *stubClassrooms) GetByCode(_ context.Context, code string) (*model.Classroom, error) {
	return s.byCode(code)
}

func (s *stubClassrooms) Join(_ context.Context, _ uuid.UUID, code string) (*model.Classroom, error) {
	return s.byCode(code)
}

func (s *stubClassrooms) Authorize(_ context.Context, p service.Principal, id uuid.UUID) (*model.Classroom, error) {
	return s.authorize(p, id)
}

type stubAssignments struct {
	created []service.CreateAssignmentInput
}

func (s *stubAssignments) Create(_ context.Context, _ uuid.UUID, in service.CreateAssignmentInput) (*model.Assignment, error) {
	s.created = append(s.created, in)
	return &model.Assignment{ID: uuid.New(), ClassroomID: in.ClassroomID, Title: in.Title, Files: in.Files}, nil
}

func (s *stubAssignments) List(context.Context, service.Principal, uuid.UUID) ([]model.Assignment, error) {
	return []model.Assignment{}, nil
}

type stubMedia struct {
	saved int
}

func (s *stubMedia) SaveUploads(_ context.Context, headers []*multipart.FileHeader) ([]model.File, error) {
	files := make([]model.File, 0, len(headers))
	for _, h := range headers {
		s.saved++
		files = append(files, model.File{Name: h.Filename, MediaType: "text/plain", StoragePath: "/uploads/" + h.Filename, Size: h.Size})
	}
	return files, nil
}
