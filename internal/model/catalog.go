package model

import "time"

// College is one faculty of the university, shown on the public browsing pages
// and editable through the admin portal. The badge and stat columns hold the
// display strings rendered on the college hero section.
type College struct {
	ID          int64  `json:"id"          db:"id"`
	Name        string `json:"name"        db:"name"`
	ShortName   string `json:"short_name"  db:"short_name"`
	Slug        string `json:"slug"        db:"slug"` // unique, URL-safe
	Tagline     string `json:"tagline"     db:"tagline"`
	Description string `json:"description" db:"description"`

	Badge1Label string `json:"badge_1_label" db:"badge_1_label"`
	Badge1Icon  string `json:"badge_1_icon"  db:"badge_1_icon"`
	Badge2Label string `json:"badge_2_label" db:"badge_2_label"`
	Badge2Icon  string `json:"badge_2_icon"  db:"badge_2_icon"`
	Stat1       string `json:"stat_1"        db:"stat_1"`
	Stat2       string `json:"stat_2"        db:"stat_2"`
	Stat3       string `json:"stat_3"        db:"stat_3"`
	Stat4       string `json:"stat_4"        db:"stat_4"`
	ImageURL    string `json:"image_url"     db:"image_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Program is an academic program offered by a college.
// The slug is unique within its college, not globally.
type Program struct {
	ID        int64  `json:"id"         db:"id"`
	CollegeID int64  `json:"college_id" db:"college_id"`
	Name      string `json:"name"       db:"name"`
	Slug      string `json:"slug"       db:"slug"`

	Credits         int    `json:"credits"           db:"credits"`
	Duration        string `json:"duration"          db:"duration"`
	Description     string `json:"description"       db:"description"`
	SortOrder       int    `json:"sort_order"        db:"sort_order"`
	Department      string `json:"department"        db:"department"`
	RequiredGPA     string `json:"required_gpa"      db:"required_gpa"`
	HighSchoolTrack string `json:"high_school_track" db:"high_school_track"`
	DegreeType      string `json:"degree_type"       db:"degree_type"`
	DegreeLevel     string `json:"degree_level"      db:"degree_level"`
	AboutText       string `json:"about_text"        db:"about_text"`
	ImageURL        string `json:"image_url"         db:"image_url"`

	// Filled on joined reads only (program detail page).
	CollegeName      string `json:"college_name,omitempty"       db:"college_name"`
	CollegeShortName string `json:"college_short_name,omitempty" db:"college_short_name"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Event is a campus event listed on the public events pages.
// Date and Time are the display strings entered by admins ("October 24, 2026",
// "10:00 AM"). The portal lists events, it does not schedule them.
type Event struct {
	ID          int64     `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Date        string    `json:"date"        db:"date"`
	Time        string    `json:"time"        db:"time"`
	Location    string    `json:"location"    db:"location"`
	Tag         string    `json:"tag"         db:"tag"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"image_url"   db:"image_url"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}
