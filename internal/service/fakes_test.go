package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/repository"
	ws "github.com/dlsms/dlsms-backend/internal/websocket"
	"github.com/google/uuid"
)

// fakeAccountStore enforces cross-role email uniqueness atomically, like
// the account_emails table.
type fakeAccountStore struct {
	mu       sync.Mutex
	byEmail  map[string]*model.Account
	byID     map[uuid.UUID]*model.Account
	findErr  error
	inserted int
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		byEmail: map[string]*model.Account{},
		byID:    map[uuid.UUID]*model.Account{},
	}
}

func (f *fakeAccountStore) FindByEmail(_ context.Context, role model.Role, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	a, ok := f.byEmail[email]
	if !ok || a.Role != role {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountStore) FindByID(_ context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.Role != role {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountStore) Insert(_ context.Context, a *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[a.Email]; ok {
		return repository.ErrEmailTaken
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.byEmail[a.Email] = &cp
	f.byID[a.ID] = &cp
	f.inserted++
	return nil
}

func (f *fakeAccountStore) SetVerificationState(_ context.Context, role model.Role, id uuid.UUID, state model.VerificationState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.Role != role {
		return repository.ErrAccountMissing
	}
	if a.VerificationState == model.VerificationVerified && state != model.VerificationVerified {
		return nil
	}
	a.VerificationState = state
	return nil
}

func (f *fakeAccountStore) get(email string) *model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byEmail[email]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeThrottle struct {
	seen map[string]bool
	err  error
}

func (t *fakeThrottle) Allow(_ context.Context, key string, _ time.Duration) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if t.seen == nil {
		t.seen = map[string]bool{}
	}
	if t.seen[key] {
		return false, nil
	}
	t.seen[key] = true
	return true, nil
}

type fakeClassroomStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.Classroom
	taken   map[string]bool
	members map[uuid.UUID]map[uuid.UUID]bool
	// deleted lists account ids whose rows are gone.
	deleted map[uuid.UUID]bool
}

func newFakeClassroomStore() *fakeClassroomStore {
	return &fakeClassroomStore{
		byID:    map[uuid.UUID]*model.Classroom{},
		taken:   map[string]bool{},
		members: map[uuid.UUID]map[uuid.UUID]bool{},
		deleted: map[uuid.UUID]bool{},
	}
}

func (f *fakeClassroomStore) Create(_ context.Context, c *model.Classroom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleted[c.TutorID] {
		return repository.ErrAccountMissing
	}
	if f.taken[c.Code] {
		return repository.ErrClassroomCodeTaken
	}
	f.taken[c.Code] = true
	c.StudentIDs = []uuid.UUID{}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeClassroomStore) withMembers(c *model.Classroom) *model.Classroom {
	cp := *c
	cp.StudentIDs = []uuid.UUID{}
	for id := range f.members[c.ID] {
		cp.StudentIDs = append(cp.StudentIDs, id)
	}
	return &cp
}

func (f *fakeClassroomStore) GetByID(_ context.Context, id uuid.UUID) (*model.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return f.withMembers(c), nil
}

func (f *fakeClassroomStore) GetByCode(_ context.Context, code string) (*model.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.Code == code {
			return f.withMembers(c), nil
		}
	}
	return nil, nil
}

func (f *fakeClassroomStore) ListByTutor(_ context.Context, tutorID uuid.UUID) ([]model.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Classroom{}
	for _, c := range f.byID {
		if c.TutorID == tutorID {
			out = append(out, *f.withMembers(c))
		}
	}
	return out, nil
}

func (f *fakeClassroomStore) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.ClassroomSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ClassroomSummary{}
	for id, m := range f.members {
		if m[studentID] {
			c := f.byID[id]
			out = append(out, model.ClassroomSummary{
				ID:           c.ID,
				Name:         c.Name,
				Code:         c.Code,
				Abbreviation: c.Abbreviation,
				Tutor:        model.TutorRef{ID: c.TutorID},
				StudentCount: len(m),
			})
		}
	}
	return out, nil
}

func (f *fakeClassroomStore) AddStudent(_ context.Context, classroomID, studentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleted[studentID] {
		return repository.ErrAccountMissing
	}
	if f.members[classroomID] == nil {
		f.members[classroomID] = map[uuid.UUID]bool{}
	}
	f.members[classroomID][studentID] = true
	return nil
}

func (f *fakeClassroomStore) IsMember(_ context.Context, classroomID, studentID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[classroomID][studentID], nil
}

type fakeAssignmentStore struct {
	created []*model.Assignment
}

func (f *fakeAssignmentStore) Create(_ context.Context, a *model.Assignment) error {
	a.CreatedAt = time.Now()
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAssignmentStore) ListByClassroom(_ context.Context, classroomID uuid.UUID) ([]model.Assignment, error) {
	out := []model.Assignment{}
	for _, a := range f.created {
		if a.ClassroomID == classroomID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakePublisher struct {
	events []ws.ClassroomEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e ws.ClassroomEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

var errBoom = errors.New("boom")
