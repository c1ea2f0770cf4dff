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

// EventStore implements repository.EventRepository.
type EventStore struct {
	conn *sql.DB
}

var _ repository.EventRepository = (*EventStore)(nil)

const eventColumns = `id, title, date, time, location, tag, description, image_url, created_at`

// Create inserts an event and fills in its generated ID.
func (s *EventStore) Create(ctx context.Context, event *model.Event) error {
	event.CreatedAt = time.Now().UTC()

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO events (title, date, time, location, tag, description, image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Title,
		event.Date,
		nullIfEmpty(event.Time),
		nullIfEmpty(event.Location),
		nullIfEmpty(event.Tag),
		nullIfEmpty(event.Description),
		nullIfEmpty(event.ImageURL),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting event %s: %w", event.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted event id: %w", err)
	}
	event.ID = id
	return nil
}

// GetByID retrieves an event by ID.
func (s *EventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("event")
		}
		return nil, fmt.Errorf("sqlite: getting event %d: %w", id, err)
	}
	return event, nil
}

// List returns all events in insertion order.
func (s *EventStore) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}
	return events, nil
}

// Update rewrites an event row.
func (s *EventStore) Update(ctx context.Context, event *model.Event) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE events SET title = ?, date = ?, time = ?, location = ?,
			tag = ?, description = ?, image_url = ?
		 WHERE id = ?`,
		event.Title,
		event.Date,
		nullIfEmpty(event.Time),
		nullIfEmpty(event.Location),
		nullIfEmpty(event.Tag),
		nullIfEmpty(event.Description),
		nullIfEmpty(event.ImageURL),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating event %d: %w", event.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of event %d: %w", event.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("event")
	}
	return nil
}

// Delete removes an event by ID.
func (s *EventStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting event %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of event %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("event")
	}
	return nil
}

func scanEvent(row scanner) (*model.Event, error) {
	var (
		e model.Event

		evTime, location, tag sql.NullString
		description, imageURL sql.NullString
	)

	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Date,
		&evTime,
		&location,
		&tag,
		&description,
		&imageURL,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Time = orEmpty(evTime)
	e.Location = orEmpty(location)
	e.Tag = orEmpty(tag)
	e.Description = orEmpty(description)
	e.ImageURL = orEmpty(imageURL)
	return &e, nil
}
