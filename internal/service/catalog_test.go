package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sakif/campus-portal/internal/apperror"
	"github.com/sakif/campus-portal/internal/model"
)

type fakeCollegeRepo struct {
	nextID   int64
	colleges map[int64]*model.College
}

func newFakeCollegeRepo() *fakeCollegeRepo {
	return &fakeCollegeRepo{nextID: 1, colleges: map[int64]*model.College{}}
}

func (f *fakeCollegeRepo) Create(_ context.Context, college *model.College) error {
	for _, c := range f.colleges {
		if c.Slug == college.Slug {
			return apperror.Conflict("slug", "a college with this slug already exists")
		}
	}
	college.ID = f.nextID
	f.nextID++
	copied := *college
	f.colleges[college.ID] = &copied
	return nil
}

func (f *fakeCollegeRepo) GetByID(_ context.Context, id int64) (*model.College, error) {
	c, ok := f.colleges[id]
	if !ok {
		return nil, apperror.NotFound("college")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCollegeRepo) List(_ context.Context) ([]model.College, error) {
	out := []model.College{}
	for _, c := range f.colleges {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCollegeRepo) Update(_ context.Context, college *model.College) error {
	if _, ok := f.colleges[college.ID]; !ok {
		return apperror.NotFound("college")
	}
	copied := *college
	f.colleges[college.ID] = &copied
	return nil
}

func (f *fakeCollegeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.colleges[id]; !ok {
		return apperror.NotFound("college")
	}
	delete(f.colleges, id)
	return nil
}

type fakeProgramRepo struct {
	nextID   int64
	programs map[int64]*model.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{nextID: 1, programs: map[int64]*model.Program{}}
}

func (f *fakeProgramRepo) Create(_ context.Context, program *model.Program) error {
	for _, p := range f.programs {
		if p.CollegeID == program.CollegeID && p.Slug == program.Slug {
			return apperror.Conflict("slug", "a program with this slug already exists in this college")
		}
	}
	program.ID = f.nextID
	f.nextID++
	copied := *program
	f.programs[program.ID] = &copied
	return nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id int64) (*model.Program, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, apperror.NotFound("program")
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProgramRepo) ListByCollege(_ context.Context, collegeID int64) ([]model.Program, error) {
	out := []model.Program{}
	for _, p := range f.programs {
		if p.CollegeID == collegeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProgramRepo) ListAll(_ context.Context) ([]model.Program, error) {
	out := []model.Program{}
	for _, p := range f.programs {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProgramRepo) Update(_ context.Context, program *model.Program) error {
	if _, ok := f.programs[program.ID]; !ok {
		return apperror.NotFound("program")
	}
	copied := *program
	f.programs[program.ID] = &copied
	return nil
}

func (f *fakeProgramRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.programs[id]; !ok {
		return apperror.NotFound("program")
	}
	delete(f.programs, id)
	return nil
}

type fakeEventRepo struct {
	nextID int64
	events map[int64]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, events: map[int64]*model.Event{}}
}

func (f *fakeEventRepo) Create(_ context.Context, event *model.Event) error {
	event.ID = f.nextID
	f.nextID++
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperror.NotFound("event")
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) List(_ context.Context) ([]model.Event, error) {
	out := []model.Event{}
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *model.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return apperror.NotFound("event")
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperror.NotFound("event")
	}
	delete(f.events, id)
	return nil
}

func newTestCatalogService(t *testing.T) (*CatalogService, *fakeCollegeRepo, *fakeProgramRepo, *fakeEventRepo) {
	t.Helper()
	colleges := newFakeCollegeRepo()
	programs := newFakeProgramRepo()
	events := newFakeEventRepo()
	svc := NewCatalogService(colleges, programs, events, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, colleges, programs, events
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Computer Science", "computer-science"},
		{"  Engineering & IT  ", "engineering--it"},
		{"Law", "law"},
		{"already-a-slug", "already-a-slug"},
		{"Événements!", "vnements"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateCollege_DerivesSlug(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	college, err := svc.CreateCollege(context.Background(), &model.College{
		Name: "College of Fine Arts",
	})
	if err != nil {
		t.Fatalf("CreateCollege() error = %v", err)
	}
	if college.Slug != "college-of-fine-arts" {
		t.Errorf("Slug = %q, want college-of-fine-arts", college.Slug)
	}
	if college.ShortName != "College of Fine Arts" {
		t.Errorf("ShortName should default to Name, got %q", college.ShortName)
	}
}

func TestCreateCollege_MissingName(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	_, err := svc.CreateCollege(context.Background(), &model.College{Slug: "no-name"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreateCollege() error = %v, want ErrValidation", err)
	}
}

func TestCreateCollege_DuplicateSlug(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	if _, err := svc.CreateCollege(context.Background(), &model.College{Name: "Law"}); err != nil {
		t.Fatalf("CreateCollege() first: %v", err)
	}
	_, err := svc.CreateCollege(context.Background(), &model.College{Name: "LAW"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateCollege() error = %v, want ErrConflict", err)
	}
}

func TestGetCollege_IncludesPrograms(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	college, err := svc.CreateCollege(context.Background(), &model.College{Name: "Medicine"})
	if err != nil {
		t.Fatalf("CreateCollege(): %v", err)
	}
	if _, err := svc.CreateProgram(context.Background(), &model.Program{
		CollegeID: college.ID,
		Name:      "Nursing",
	}); err != nil {
		t.Fatalf("CreateProgram(): %v", err)
	}

	got, programs, err := svc.GetCollege(context.Background(), college.ID)
	if err != nil {
		t.Fatalf("GetCollege() error = %v", err)
	}
	if got.ID != college.ID {
		t.Errorf("college ID = %d, want %d", got.ID, college.ID)
	}
	if len(programs) != 1 || programs[0].Slug != "nursing" {
		t.Errorf("programs = %+v, want one nursing program", programs)
	}
}

func TestCreateProgram_RequiresCollege(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	_, err := svc.CreateProgram(context.Background(), &model.Program{Name: "Orphan Studies"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreateProgram() error = %v, want ErrValidation", err)
	}
}

func TestUpdateProgram(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	college, _ := svc.CreateCollege(context.Background(), &model.College{Name: "IT"})
	program, err := svc.CreateProgram(context.Background(), &model.Program{
		CollegeID: college.ID,
		Name:      "Computer Science",
		Credits:   132,
	})
	if err != nil {
		t.Fatalf("CreateProgram(): %v", err)
	}

	updated, err := svc.UpdateProgram(context.Background(), program.ID, &model.Program{
		Name:    "Computer Science",
		Credits: 136,
		Slug:    "CS Renamed",
	})
	if err != nil {
		t.Fatalf("UpdateProgram() error = %v", err)
	}
	if updated.Credits != 136 {
		t.Errorf("Credits = %d, want 136", updated.Credits)
	}
	if updated.Slug != "cs-renamed" {
		t.Errorf("Slug = %q, want normalized cs-renamed", updated.Slug)
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	_, err := svc.CreateEvent(context.Background(), &model.Event{Date: "October 24, 2026"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreateEvent() without title = %v, want ErrValidation", err)
	}
	_, err = svc.CreateEvent(context.Background(), &model.Event{Title: "Open Day"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreateEvent() without date = %v, want ErrValidation", err)
	}
}

func TestEventLifecycle(t *testing.T) {
	svc, _, _, _ := newTestCatalogService(t)

	event, err := svc.CreateEvent(context.Background(), &model.Event{
		Title: "Open Day",
		Date:  "November 02, 2026",
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	updated, err := svc.UpdateEvent(context.Background(), event.ID, &model.Event{
		Location: "Main Gate",
	})
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if updated.Title != "Open Day" {
		t.Errorf("empty title in update should keep the old one, got %q", updated.Title)
	}
	if updated.Location != "Main Gate" {
		t.Errorf("Location = %q, want Main Gate", updated.Location)
	}

	if err := svc.DeleteEvent(context.Background(), event.ID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if _, err := svc.GetEvent(context.Background(), event.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetEvent() after delete = %v, want ErrNotFound", err)
	}
}
