package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/campus-portal/internal/apperror"
	"github.com/sakif/campus-portal/internal/model"
	"github.com/sakif/campus-portal/internal/repository"
)

// AccountStore implements repository.AccountRepository.
type AccountStore struct {
	conn *sql.DB
}

// compile-time interface check
var _ repository.AccountRepository = (*AccountStore)(nil)

const accountColumns = `id, email, password_hash, role, first_name, middle_name,
	last_name, student_number, college, major, phone,
	must_change_password, must_complete_profile, created_at`

// accountConflict translates a UNIQUE violation into the field-specific
// Conflict the UI needs ("email taken" vs "student number taken").
func accountConflict(err error) error {
	column, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	switch column {
	case "email":
		return apperror.Conflict("email", "this email is already registered")
	case "student_number":
		return apperror.Conflict("student_number", "this student number already exists")
	default:
		return apperror.Conflict(column, "duplicate entry")
	}
}

// Create inserts a new account and fills in its generated ID and CreatedAt.
// The caller is responsible for normalizing the email first.
func (s *AccountStore) Create(ctx context.Context, account *model.Account) error {
	account.CreatedAt = time.Now().UTC()

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash, role, first_name, middle_name,
			last_name, student_number, college, major, phone,
			must_change_password, must_complete_profile, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		nullIfEmpty(account.FirstName),
		nullIfEmpty(account.MiddleName),
		nullIfEmpty(account.LastName),
		nullIfEmpty(account.StudentNumber),
		nullIfEmpty(account.College),
		nullIfEmpty(account.Major),
		nullIfEmpty(account.Phone),
		account.MustChangePassword,
		account.MustCompleteProfile,
		account.CreatedAt,
	)
	if err != nil {
		if conflict := accountConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: inserting account %s: %w", account.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted account id: %w", err)
	}
	account.ID = id
	return nil
}

// GetByID retrieves an account by its numeric ID.
// Returns apperror.ErrNotFound if no account exists with that ID.
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("account")
		}
		return nil, fmt.Errorf("sqlite: getting account %d: %w", id, err)
	}
	return account, nil
}

// GetByEmail retrieves an account by email. The lookup is case-insensitive
// via the column collation, but callers normalize first anyway.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ? LIMIT 1`, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("account")
		}
		return nil, fmt.Errorf("sqlite: getting account by email: %w", err)
	}
	return account, nil
}

// List returns all accounts, newest first.
func (s *AccountStore) List(ctx context.Context) ([]model.Account, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating accounts: %w", err)
	}
	return accounts, nil
}

// Update rewrites every mutable column of the account row.
// Returns apperror.ErrNotFound if the ID doesn't exist, or a Conflict when
// the new email/student number collides with another account.
func (s *AccountStore) Update(ctx context.Context, account *model.Account) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE accounts SET email = ?, password_hash = ?, role = ?,
			first_name = ?, middle_name = ?, last_name = ?, student_number = ?,
			college = ?, major = ?, phone = ?,
			must_change_password = ?, must_complete_profile = ?
		 WHERE id = ?`,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		nullIfEmpty(account.FirstName),
		nullIfEmpty(account.MiddleName),
		nullIfEmpty(account.LastName),
		nullIfEmpty(account.StudentNumber),
		nullIfEmpty(account.College),
		nullIfEmpty(account.Major),
		nullIfEmpty(account.Phone),
		account.MustChangePassword,
		account.MustCompleteProfile,
		account.ID,
	)
	if err != nil {
		if conflict := accountConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: updating account %d: %w", account.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of account %d: %w", account.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("account")
	}
	return nil
}

// Delete removes an account by ID.
// Returns apperror.ErrNotFound if no account exists with that ID.
func (s *AccountStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting account %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of account %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("account")
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	var (
		a    model.Account
		role string

		firstName, middleName, lastName sql.NullString
		studentNumber, college          sql.NullString
		major, phone                    sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&role,
		&firstName,
		&middleName,
		&lastName,
		&studentNumber,
		&college,
		&major,
		&phone,
		&a.MustChangePassword,
		&a.MustCompleteProfile,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Role = model.ParseRole(role)
	a.FirstName = orEmpty(firstName)
	a.MiddleName = orEmpty(middleName)
	a.LastName = orEmpty(lastName)
	a.StudentNumber = orEmpty(studentNumber)
	a.College = orEmpty(college)
	a.Major = orEmpty(major)
	a.Phone = orEmpty(phone)
	return &a, nil
}
