package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/campus-portal/internal/apperror"
	"github.com/sakif/campus-portal/internal/model"
	"github.com/sakif/campus-portal/internal/repository"
)

// ProgramStore implements repository.ProgramRepository.
type ProgramStore struct {
	conn *sql.DB
}

var _ repository.ProgramRepository = (*ProgramStore)(nil)

const programColumns = `p.id, p.college_id, p.name, p.slug, p.credits, p.duration,
	p.description, p.sort_order, p.department, p.required_gpa,
	p.high_school_track, p.degree_type, p.degree_level, p.about_text,
	p.image_url, p.created_at, p.updated_at`

// programWriteError maps the two constraint failures a program write can
// hit: duplicate (college_id, slug) and a dangling college foreign key.
func programWriteError(err error) error {
	if _, ok := uniqueViolation(err); ok {
		return apperror.Conflict("slug", "a program with this slug already exists in this college")
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return apperror.NotFound("college")
	}
	return nil
}

// Create inserts a program under its college.
// Returns Conflict on a duplicate slug within the college and NotFound when
// the college doesn't exist (foreign key violation).
func (s *ProgramStore) Create(ctx context.Context, program *model.Program) error {
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.DegreeLevel == "" {
		program.DegreeLevel = "UNDERGRADUATE"
	}

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO academic_programs (college_id, name, slug, credits, duration,
			description, sort_order, department, required_gpa, high_school_track,
			degree_type, degree_level, about_text, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		program.CollegeID,
		program.Name,
		program.Slug,
		nullIfZero(program.Credits),
		nullIfEmpty(program.Duration),
		nullIfEmpty(program.Description),
		program.SortOrder,
		nullIfEmpty(program.Department),
		nullIfEmpty(program.RequiredGPA),
		nullIfEmpty(program.HighSchoolTrack),
		nullIfEmpty(program.DegreeType),
		program.DegreeLevel,
		nullIfEmpty(program.AboutText),
		nullIfEmpty(program.ImageURL),
		program.CreatedAt,
		program.UpdatedAt,
	)
	if err != nil {
		if mapped := programWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("sqlite: inserting program %s: %w", program.Slug, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted program id: %w", err)
	}
	program.ID = id
	return nil
}

// GetByID retrieves a program joined with its college's display names.
func (s *ProgramStore) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+programColumns+`, c.name, c.short_name
		 FROM academic_programs p
		 JOIN colleges c ON c.id = p.college_id
		 WHERE p.id = ?`, id)

	program, err := scanProgram(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("program")
		}
		return nil, fmt.Errorf("sqlite: getting program %d: %w", id, err)
	}
	return program, nil
}

// ListByCollege returns the programs of one college in display order.
func (s *ProgramStore) ListByCollege(ctx context.Context, collegeID int64) ([]model.Program, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+programColumns+` FROM academic_programs p
		 WHERE p.college_id = ? ORDER BY p.sort_order, p.name`, collegeID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing programs of college %d: %w", collegeID, err)
	}
	return collectPrograms(rows, false)
}

// ListAll returns every program joined with its college name, ordered by
// college then display order. Feeds the admin dashboard's flat majors list.
func (s *ProgramStore) ListAll(ctx context.Context) ([]model.Program, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+programColumns+`, c.name, c.short_name
		 FROM academic_programs p
		 JOIN colleges c ON c.id = p.college_id
		 ORDER BY c.name, p.sort_order, p.name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all programs: %w", err)
	}
	return collectPrograms(rows, true)
}

// Update rewrites a program row and bumps updated_at.
func (s *ProgramStore) Update(ctx context.Context, program *model.Program) error {
	program.UpdatedAt = time.Now().UTC()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE academic_programs SET name = ?, slug = ?, credits = ?, duration = ?,
			description = ?, sort_order = ?, department = ?, required_gpa = ?,
			high_school_track = ?, degree_type = ?, degree_level = ?,
			about_text = ?, image_url = ?, updated_at = ?
		 WHERE id = ?`,
		program.Name,
		program.Slug,
		nullIfZero(program.Credits),
		nullIfEmpty(program.Duration),
		nullIfEmpty(program.Description),
		program.SortOrder,
		nullIfEmpty(program.Department),
		nullIfEmpty(program.RequiredGPA),
		nullIfEmpty(program.HighSchoolTrack),
		nullIfEmpty(program.DegreeType),
		program.DegreeLevel,
		nullIfEmpty(program.AboutText),
		nullIfEmpty(program.ImageURL),
		program.UpdatedAt,
		program.ID,
	)
	if err != nil {
		if mapped := programWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("sqlite: updating program %d: %w", program.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of program %d: %w", program.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("program")
	}
	return nil
}

// Delete removes a program by ID.
func (s *ProgramStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM academic_programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting program %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of program %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("program")
	}
	return nil
}

func collectPrograms(rows *sql.Rows, withCollege bool) ([]model.Program, error) {
	defer rows.Close()

	programs := []model.Program{}
	for rows.Next() {
		program, err := scanProgram(rows, withCollege)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning program row: %w", err)
		}
		programs = append(programs, *program)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating programs: %w", err)
	}
	return programs, nil
}

func scanProgram(row scanner, withCollege bool) (*model.Program, error) {
	var (
		p model.Program

		credits                       sql.NullInt64
		duration, description         sql.NullString
		department, requiredGPA       sql.NullString
		highSchoolTrack, degreeType   sql.NullString
		degreeLevel, aboutText        sql.NullString
		imageURL                      sql.NullString
		collegeName, collegeShortName sql.NullString
	)

	dest := []any{
		&p.ID,
		&p.CollegeID,
		&p.Name,
		&p.Slug,
		&credits,
		&duration,
		&description,
		&p.SortOrder,
		&department,
		&requiredGPA,
		&highSchoolTrack,
		&degreeType,
		&degreeLevel,
		&aboutText,
		&imageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if withCollege {
		dest = append(dest, &collegeName, &collegeShortName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	p.Credits = int(credits.Int64)
	p.Duration = orEmpty(duration)
	p.Description = orEmpty(description)
	p.Department = orEmpty(department)
	p.RequiredGPA = orEmpty(requiredGPA)
	p.HighSchoolTrack = orEmpty(highSchoolTrack)
	p.DegreeType = orEmpty(degreeType)
	p.DegreeLevel = orEmpty(degreeLevel)
	p.AboutText = orEmpty(aboutText)
	p.ImageURL = orEmpty(imageURL)
	p.CollegeName = orEmpty(collegeName)
	p.CollegeShortName = orEmpty(collegeShortName)
	return &p, nil
}

// nullIfZero stores optional integer columns as NULL rather than 0.
func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
