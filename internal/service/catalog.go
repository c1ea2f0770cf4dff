package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/campus-portal/internal/apperror"
	"github.com/sakif/campus-portal/internal/model"
	"github.com/sakif/campus-portal/internal/repository"
)

// CatalogService handles the public browsing catalog: colleges, their
// academic programs, and campus events. Reads are public; writes come from
// the admin portal.
type CatalogService struct {
	colleges repository.CollegeRepository
	programs repository.ProgramRepository
	events   repository.EventRepository
	logger   *slog.Logger
}

func NewCatalogService(
	colleges repository.CollegeRepository,
	programs repository.ProgramRepository,
	events repository.EventRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		colleges: colleges,
		programs: programs,
		events:   events,
		logger:   logger,
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify derives a URL-safe slug from a display name: lowercase, spaces to
// hyphens, everything outside [a-z0-9-] dropped.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugStrip.ReplaceAllString(slug, "")
	return strings.Trim(slug, "-")
}

// ListColleges returns every college for the public browsing pages.
func (s *CatalogService) ListColleges(ctx context.Context) ([]model.College, error) {
	return s.colleges.List(ctx)
}

// GetCollege returns one college with its programs attached.
func (s *CatalogService) GetCollege(ctx context.Context, id int64) (*model.College, []model.Program, error) {
	college, err := s.colleges.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	programs, err := s.programs.ListByCollege(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return college, programs, nil
}

// CreateCollege validates and saves a new college. The slug is derived from
// the name when the caller leaves it empty.
func (s *CatalogService) CreateCollege(ctx context.Context, college *model.College) (*model.College, error) {
	college.Name = strings.TrimSpace(college.Name)
	college.ShortName = strings.TrimSpace(college.ShortName)
	if college.Name == "" {
		return nil, apperror.ValidationFailed("name", "college name is required")
	}
	if college.ShortName == "" {
		college.ShortName = college.Name
	}

	if college.Slug = Slugify(firstNonEmpty(college.Slug, college.Name)); college.Slug == "" {
		return nil, apperror.ValidationFailed("slug", "could not derive a slug from the college name")
	}

	if err := s.colleges.Create(ctx, college); err != nil {
		return nil, err
	}

	s.logger.Info("college created",
		slog.Int64("collegeID", college.ID),
		slog.String("slug", college.Slug),
	)
	return college, nil
}

// UpdateCollege applies an admin edit to an existing college.
func (s *CatalogService) UpdateCollege(ctx context.Context, id int64, in *model.College) (*model.College, error) {
	college, err := s.colleges.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		college.Name = name
	}
	if short := strings.TrimSpace(in.ShortName); short != "" {
		college.ShortName = short
	}
	if in.Slug != "" {
		college.Slug = Slugify(in.Slug)
	}
	college.Tagline = strings.TrimSpace(in.Tagline)
	college.Description = strings.TrimSpace(in.Description)
	college.Badge1Label = in.Badge1Label
	college.Badge2Label = in.Badge2Label
	if in.Badge1Icon != "" {
		college.Badge1Icon = in.Badge1Icon
	}
	if in.Badge2Icon != "" {
		college.Badge2Icon = in.Badge2Icon
	}
	college.Stat1, college.Stat2 = in.Stat1, in.Stat2
	college.Stat3, college.Stat4 = in.Stat3, in.Stat4
	college.ImageURL = in.ImageURL

	if err := s.colleges.Update(ctx, college); err != nil {
		return nil, err
	}

	s.logger.Info("college updated", slog.Int64("collegeID", college.ID))
	return college, nil
}

// DeleteCollege removes a college and, via the schema cascade, its programs.
func (s *CatalogService) DeleteCollege(ctx context.Context, id int64) error {
	if err := s.colleges.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("college deleted", slog.Int64("collegeID", id))
	return nil
}

// ListPrograms returns every program across all colleges, joined with the
// college display names. Feeds the admin dashboard's flat majors list.
func (s *CatalogService) ListPrograms(ctx context.Context) ([]model.Program, error) {
	return s.programs.ListAll(ctx)
}

// GetProgram returns one program with its college names attached.
func (s *CatalogService) GetProgram(ctx context.Context, id int64) (*model.Program, error) {
	return s.programs.GetByID(ctx, id)
}

// CreateProgram validates and saves a new program under its college.
func (s *CatalogService) CreateProgram(ctx context.Context, program *model.Program) (*model.Program, error) {
	program.Name = strings.TrimSpace(program.Name)
	if program.Name == "" {
		return nil, apperror.ValidationFailed("name", "program name is required")
	}
	if program.CollegeID == 0 {
		return nil, apperror.ValidationFailed("college_id", "a college is required")
	}

	if program.Slug = Slugify(firstNonEmpty(program.Slug, program.Name)); program.Slug == "" {
		return nil, apperror.ValidationFailed("slug", "could not derive a slug from the program name")
	}

	if err := s.programs.Create(ctx, program); err != nil {
		return nil, err
	}

	s.logger.Info("program created",
		slog.Int64("programID", program.ID),
		slog.Int64("collegeID", program.CollegeID),
		slog.String("slug", program.Slug),
	)
	return program, nil
}

// UpdateProgram applies an admin edit to an existing program.
func (s *CatalogService) UpdateProgram(ctx context.Context, id int64, in *model.Program) (*model.Program, error) {
	program, err := s.programs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		program.Name = name
	}
	if in.Slug != "" {
		program.Slug = Slugify(in.Slug)
	}
	program.Credits = in.Credits
	program.Duration = strings.TrimSpace(in.Duration)
	program.Description = strings.TrimSpace(in.Description)
	program.SortOrder = in.SortOrder
	program.Department = strings.TrimSpace(in.Department)
	program.RequiredGPA = strings.TrimSpace(in.RequiredGPA)
	program.HighSchoolTrack = strings.TrimSpace(in.HighSchoolTrack)
	program.DegreeType = strings.TrimSpace(in.DegreeType)
	if in.DegreeLevel != "" {
		program.DegreeLevel = in.DegreeLevel
	}
	program.AboutText = strings.TrimSpace(in.AboutText)
	program.ImageURL = in.ImageURL

	if err := s.programs.Update(ctx, program); err != nil {
		return nil, err
	}

	s.logger.Info("program updated", slog.Int64("programID", program.ID))
	return program, nil
}

// DeleteProgram removes a program.
func (s *CatalogService) DeleteProgram(ctx context.Context, id int64) error {
	if err := s.programs.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("program deleted", slog.Int64("programID", id))
	return nil
}

// ListEvents returns all campus events.
func (s *CatalogService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// GetEvent returns one event.
func (s *CatalogService) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// CreateEvent validates and saves a new event.
func (s *CatalogService) CreateEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	event.Date = strings.TrimSpace(event.Date)
	if event.Title == "" {
		return nil, apperror.ValidationFailed("title", "event title is required")
	}
	if event.Date == "" {
		return nil, apperror.ValidationFailed("date", "event date is required")
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event created",
		slog.Int64("eventID", event.ID),
		slog.String("title", event.Title),
	)
	return event, nil
}

// UpdateEvent applies an admin edit to an existing event.
func (s *CatalogService) UpdateEvent(ctx context.Context, id int64, in *model.Event) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		event.Title = title
	}
	if date := strings.TrimSpace(in.Date); date != "" {
		event.Date = date
	}
	event.Time = strings.TrimSpace(in.Time)
	event.Location = strings.TrimSpace(in.Location)
	event.Tag = strings.TrimSpace(in.Tag)
	event.Description = strings.TrimSpace(in.Description)
	event.ImageURL = in.ImageURL

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event updated", slog.Int64("eventID", event.ID))
	return event, nil
}

// DeleteEvent removes an event.
func (s *CatalogService) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("event deleted", slog.Int64("eventID", id))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
