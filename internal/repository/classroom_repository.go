package repository

import (
	"context"
	"errors"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrClassroomCodeTaken is returned when a classroom code is already in use.
	// Writes that reference a missing tutor or student row return
	// ErrAccountMissing (declared in account_repository.go).
	ErrClassroomCodeTaken = errors.New("classroom code already in use")
)

const foreignKeyViolation = "23503"

// ClassroomRepository handles classroom and membership data access.
type ClassroomRepository struct {
	pool *pgxpool.Pool
}

// NewClassroomRepository creates a new ClassroomRepository.
func NewClassroomRepository(pool *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{pool: pool}
}

const classroomColumns = `c.id, c.tutor_id, c.name, c.description, c.code, c.abbreviation,
	COALESCE(array_agg(cs.student_id) FILTER (WHERE cs.student_id IS NOT NULL), '{}'),
	c.created_at, c.updated_at`

func scanClassroom(row pgx.Row) (*model.Classroom, error) {
	c := &model.Classroom{}
	err := row.Scan(&c.ID, &c.TutorID, &c.Name, &c.Description, &c.Code, &c.Abbreviation,
		&c.StudentIDs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new classroom. The code must be unique.
func (r *ClassroomRepository) Create(ctx context.Context, c *model.Classroom) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classrooms (id, tutor_id, name, description, code, abbreviation)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		c.ID, c.TutorID, c.Name, c.Description, c.Code, c.Abbreviation,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return ErrClassroomCodeTaken
			case foreignKeyViolation:
				return ErrAccountMissing
			}
		}
		return err
	}
	if c.StudentIDs == nil {
		c.StudentIDs = []uuid.UUID{}
	}
	return nil
}

// GetByID returns the classroom with its member ids, or nil.
func (r *ClassroomRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Classroom, error) {
	c, err := scanClassroom(r.pool.QueryRow(ctx,
		`SELECT `+classroomColumns+`
		 FROM classrooms c LEFT JOIN classroom_students cs ON cs.classroom_id = c.id
		 WHERE c.id = $1 GROUP BY c.id`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// GetByCode returns the classroom with the given join code, or nil.
func (r *ClassroomRepository) GetByCode(ctx context.Context, code string) (*model.Classroom, error) {
	c, err := scanClassroom(r.pool.QueryRow(ctx,
		`SELECT `+classroomColumns+`
		 FROM classrooms c LEFT JOIN classroom_students cs ON cs.classroom_id = c.id
		 WHERE c.code = $1 GROUP BY c.id`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// ListByTutor returns the classrooms owned by a tutor, newest first.
func (r *ClassroomRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]model.Classroom, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classroomColumns+`
		 FROM classrooms c LEFT JOIN classroom_students cs ON cs.classroom_id = c.id
		 WHERE c.tutor_id = $1 GROUP BY c.id ORDER BY c.created_at DESC`, tutorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classrooms := []model.Classroom{}
	for rows.Next() {
		c, err := scanClassroom(rows)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, *c)
	}
	return classrooms, rows.Err()
}

// ListByStudent returns the classrooms a student is enrolled in, with tutor details.
func (r *ClassroomRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.ClassroomSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.description, c.code, c.abbreviation,
		        t.id, t.first_name, t.last_name, t.email,
		        (SELECT COUNT(*) FROM classroom_students x WHERE x.classroom_id = c.id)
		 FROM classroom_students cs
		 JOIN classrooms c ON c.id = cs.classroom_id
		 JOIN tutors t ON t.id = c.tutor_id
		 WHERE cs.student_id = $1
		 ORDER BY cs.joined_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.ClassroomSummary{}
	for rows.Next() {
		var s model.ClassroomSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Code, &s.Abbreviation,
			&s.Tutor.ID, &s.Tutor.FirstName, &s.Tutor.LastName, &s.Tutor.Email, &s.StudentCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// AddStudent enrolls a student. Enrolling twice is a no-op.
func (r *ClassroomRepository) AddStudent(ctx context.Context, classroomID, studentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO classroom_students (classroom_id, student_id) VALUES ($1, $2)
		 ON CONFLICT (classroom_id, student_id) DO NOTHING`,
		classroomID, studentID,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation && pgErr.ConstraintName == "classroom_students_student_id_fkey" {
		return ErrAccountMissing
	}
	return err
}

// IsMember reports whether a student is enrolled in a classroom.
func (r *ClassroomRepository) IsMember(ctx context.Context, classroomID, studentID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM classroom_students WHERE classroom_id = $1 AND student_id = $2)`,
		classroomID, studentID,
	).Scan(&ok)
	return ok, err
}
