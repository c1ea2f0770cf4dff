// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage is the concrete implementation; tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/campus-portal/internal/model"
)

// AccountRepository is durable storage for accounts, keyed by id with
// lookups by normalized email. Create and Update return an
// apperror.Conflict naming the colliding field when the email or student
// number is already taken; under concurrent duplicate registration the
// store's UNIQUE constraints pick the loser, the repository only reports it.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Update(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, id int64) error
}

// CollegeRepository stores the colleges shown on the public browsing pages.
type CollegeRepository interface {
	Create(ctx context.Context, college *model.College) error
	GetByID(ctx context.Context, id int64) (*model.College, error)
	List(ctx context.Context) ([]model.College, error)
	Update(ctx context.Context, college *model.College) error
	Delete(ctx context.Context, id int64) error
}

// ProgramRepository stores academic programs, always scoped to a college.
type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	GetByID(ctx context.Context, id int64) (*model.Program, error)
	ListByCollege(ctx context.Context, collegeID int64) ([]model.Program, error)
	ListAll(ctx context.Context) ([]model.Program, error)
	Update(ctx context.Context, program *model.Program) error
	Delete(ctx context.Context, id int64) error
}

// EventRepository stores campus events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id int64) error
}
