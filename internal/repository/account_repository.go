package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store-level errors for accounts.
var (
	// ErrEmailTaken is returned when an email is already claimed by any account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAccountMissing is returned by updates that matched no account row.
	ErrAccountMissing = errors.New("account does not exist")
)

const uniqueViolation = "23505"

// AccountRepository persists tutors and students. Email uniqueness across
// both roles is enforced by the account_emails primary key.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// accountTable maps a role to its table and the column holding the
// role-specific student number ("" for tutors).
func accountTable(role model.Role) (table, studentCol string, err error) {
	switch role {
	case model.RoleTutor:
		return "tutors", "", nil
	case model.RoleStudent:
		return "students", "student_number", nil
	default:
		return "", "", fmt.Errorf("no table for role %q", role)
	}
}

func selectAccount(role model.Role, where string) (string, error) {
	table, studentCol, err := accountTable(role)
	if err != nil {
		return "", err
	}
	studentExpr := "''"
	if studentCol != "" {
		studentExpr = studentCol
	}
	return fmt.Sprintf(
		`SELECT id, first_name, last_name, institution, %s, email, password_hash,
		        verification_state, created_at, updated_at
		 FROM %s WHERE %s`, studentExpr, table, where), nil
}

func (r *AccountRepository) findOne(ctx context.Context, role model.Role, where string, arg any) (*model.Account, error) {
	query, err := selectAccount(role, where)
	if err != nil {
		return nil, err
	}

	a := &model.Account{Role: role}
	err = r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Institution, &a.StudentID, &a.Email,
		&a.PasswordHash, &a.VerificationState, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindByEmail returns the account of the given role with this email, or nil.
func (r *AccountRepository) FindByEmail(ctx context.Context, role model.Role, email string) (*model.Account, error) {
	return r.findOne(ctx, role, "email = $1", email)
}

// FindByID returns the account of the given role with this id, or nil.
func (r *AccountRepository) FindByID(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	return r.findOne(ctx, role, "id = $1", id)
}

// Insert claims the email and creates the account row in one transaction.
// A concurrent registration of the same email in either role loses with ErrEmailTaken.
func (r *AccountRepository) Insert(ctx context.Context, a *model.Account) error {
	table, studentCol, err := accountTable(a.Role)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO account_emails (email, role, account_id) VALUES ($1, $2, $3)`,
		a.Email, a.Role, a.ID,
	); err != nil {
		return translateEmailErr(err)
	}

	cols := "id, first_name, last_name, institution, email, password_hash, verification_state"
	vals := "$1, $2, $3, $4, $5, $6, $7"
	args := []any{a.ID, a.FirstName, a.LastName, a.Institution, a.Email, a.PasswordHash, a.VerificationState}
	if studentCol != "" {
		cols += ", " + studentCol
		vals += ", $8"
		args = append(args, a.StudentID)
	}

	err = tx.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING created_at, updated_at`, table, cols, vals),
		args...,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return translateEmailErr(err)
	}

	return tx.Commit(ctx)
}

// SetVerificationState moves an account to the given state. A verified
// account is never moved back to an unverified state.
func (r *AccountRepository) SetVerificationState(ctx context.Context, role model.Role, id uuid.UUID, state model.VerificationState) error {
	table, _, err := accountTable(role)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET verification_state = $1::text, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND (verification_state <> 'verified' OR $1::text = 'verified')`, table),
		state, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.FindByID(ctx, role, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrAccountMissing
		}
	}
	return nil
}

func translateEmailErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}
