package repository

import (
	"context"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles assignment data access. File descriptors
// are stored as an ordered JSONB array on the assignment row.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	if a.Files == nil {
		a.Files = []model.File{}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO assignments (id, classroom_id, title, instructions, due_at, points, files)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		a.ID, a.ClassroomID, a.Title, a.Instructions, a.DueAt, a.Points, a.Files,
	).Scan(&a.CreatedAt)
}

// ListByClassroom returns a classroom's assignments, newest first.
func (r *AssignmentRepository) ListByClassroom(ctx context.Context, classroomID uuid.UUID) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, classroom_id, title, instructions, due_at, points, files, created_at
		 FROM assignments WHERE classroom_id = $1
		 ORDER BY created_at DESC`, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.ClassroomID, &a.Title, &a.Instructions, &a.DueAt, &a.Points, &a.Files, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
