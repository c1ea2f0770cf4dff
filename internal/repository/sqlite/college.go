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

// CollegeStore implements repository.CollegeRepository.
type CollegeStore struct {
	conn *sql.DB
}

var _ repository.CollegeRepository = (*CollegeStore)(nil)

const collegeColumns = `id, name, short_name, slug, tagline, description,
	badge_1_label, badge_1_icon, badge_2_label, badge_2_icon,
	stat_1, stat_2, stat_3, stat_4, image_url, created_at, updated_at`

// Create inserts a college. Returns a Conflict on a duplicate slug.
func (s *CollegeStore) Create(ctx context.Context, college *model.College) error {
	now := time.Now().UTC()
	college.CreatedAt = now
	college.UpdatedAt = now
	if college.Badge1Icon == "" {
		college.Badge1Icon = "check"
	}
	if college.Badge2Icon == "" {
		college.Badge2Icon = "users"
	}

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO colleges (name, short_name, slug, tagline, description,
			badge_1_label, badge_1_icon, badge_2_label, badge_2_icon,
			stat_1, stat_2, stat_3, stat_4, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		college.Name,
		college.ShortName,
		college.Slug,
		nullIfEmpty(college.Tagline),
		nullIfEmpty(college.Description),
		nullIfEmpty(college.Badge1Label),
		college.Badge1Icon,
		nullIfEmpty(college.Badge2Label),
		college.Badge2Icon,
		nullIfEmpty(college.Stat1),
		nullIfEmpty(college.Stat2),
		nullIfEmpty(college.Stat3),
		nullIfEmpty(college.Stat4),
		nullIfEmpty(college.ImageURL),
		college.CreatedAt,
		college.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperror.Conflict("slug", "a college with this slug already exists")
		}
		return fmt.Errorf("sqlite: inserting college %s: %w", college.Slug, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted college id: %w", err)
	}
	college.ID = id
	return nil
}

// GetByID retrieves a college by ID.
func (s *CollegeStore) GetByID(ctx context.Context, id int64) (*model.College, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+collegeColumns+` FROM colleges WHERE id = ?`, id)
	college, err := scanCollege(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("college")
		}
		return nil, fmt.Errorf("sqlite: getting college %d: %w", id, err)
	}
	return college, nil
}

// List returns all colleges in insertion order.
func (s *CollegeStore) List(ctx context.Context) ([]model.College, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+collegeColumns+` FROM colleges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing colleges: %w", err)
	}
	defer rows.Close()

	colleges := []model.College{}
	for rows.Next() {
		college, err := scanCollege(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning college row: %w", err)
		}
		colleges = append(colleges, *college)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating colleges: %w", err)
	}
	return colleges, nil
}

// Update rewrites a college row and bumps updated_at.
func (s *CollegeStore) Update(ctx context.Context, college *model.College) error {
	college.UpdatedAt = time.Now().UTC()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE colleges SET name = ?, short_name = ?, slug = ?, tagline = ?,
			description = ?, badge_1_label = ?, badge_1_icon = ?,
			badge_2_label = ?, badge_2_icon = ?, stat_1 = ?, stat_2 = ?,
			stat_3 = ?, stat_4 = ?, image_url = ?, updated_at = ?
		 WHERE id = ?`,
		college.Name,
		college.ShortName,
		college.Slug,
		nullIfEmpty(college.Tagline),
		nullIfEmpty(college.Description),
		nullIfEmpty(college.Badge1Label),
		college.Badge1Icon,
		nullIfEmpty(college.Badge2Label),
		college.Badge2Icon,
		nullIfEmpty(college.Stat1),
		nullIfEmpty(college.Stat2),
		nullIfEmpty(college.Stat3),
		nullIfEmpty(college.Stat4),
		nullIfEmpty(college.ImageURL),
		college.UpdatedAt,
		college.ID,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperror.Conflict("slug", "a college with this slug already exists")
		}
		return fmt.Errorf("sqlite: updating college %d: %w", college.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of college %d: %w", college.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("college")
	}
	return nil
}

// Delete removes a college; its programs go with it via ON DELETE CASCADE.
func (s *CollegeStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM colleges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting college %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of college %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("college")
	}
	return nil
}

func scanCollege(row scanner) (*model.College, error) {
	var (
		c model.College

		tagline, description       sql.NullString
		badge1Label, badge2Label   sql.NullString
		badge1Icon, badge2Icon     sql.NullString
		stat1, stat2, stat3, stat4 sql.NullString
		imageURL                   sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.ShortName,
		&c.Slug,
		&tagline,
		&description,
		&badge1Label,
		&badge1Icon,
		&badge2Label,
		&badge2Icon,
		&stat1,
		&stat2,
		&stat3,
		&stat4,
		&imageURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Tagline = orEmpty(tagline)
	c.Description = orEmpty(description)
	c.Badge1Label = orEmpty(badge1Label)
	c.Badge1Icon = orEmpty(badge1Icon)
	c.Badge2Label = orEmpty(badge2Label)
	c.Badge2Icon = orEmpty(badge2Icon)
	c.Stat1 = orEmpty(stat1)
	c.Stat2 = orEmpty(stat2)
	c.Stat3 = orEmpty(stat3)
	c.Stat4 = orEmpty(stat4)
	c.ImageURL = orEmpty(imageURL)
	return &c, nil
}
