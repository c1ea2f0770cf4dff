package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/campus-portal/internal/model"
)

// SeedCatalog populates the colleges (with their programs) and events tables
// when they are empty. Safe to call on every startup: a non-empty table is
// left untouched, so admin edits survive restarts.
func (db *DB) SeedCatalog(ctx context.Context) error {
	if err := db.seedColleges(ctx); err != nil {
		return err
	}
	return db.seedEvents(ctx)
}

// EnsureAdmin guarantees the bootstrap administrator exists. passwordHash is
// stored as-is, so the caller decides between a real configured credential
// and an unusable placeholder. Reports whether a row was created.
func (db *DB) EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	accounts := db.Accounts()

	if _, err := accounts.GetByEmail(ctx, email); err == nil {
		return false, nil
	}

	admin := &model.Account{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
	}
	if err := accounts.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("sqlite: seeding bootstrap admin: %w", err)
	}
	return true, nil
}

func (db *DB) seedColleges(ctx context.Context) error {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM colleges`).Scan(&n); err != nil {
		return fmt.Errorf("sqlite: counting colleges: %w", err)
	}
	if n > 0 {
		return nil
	}

	colleges := db.Colleges()
	programs := db.Programs()

	for _, sc := range seedColleges {
		college := sc.college
		if err := colleges.Create(ctx, &college); err != nil {
			return fmt.Errorf("sqlite: seeding college %s: %w", college.Slug, err)
		}
		for i, p := range sc.programs {
			p.CollegeID = college.ID
			p.SortOrder = i
			if p.Duration == "" {
				p.Duration = "4 Years"
			}
			if p.DegreeType == "" {
				p.DegreeType = "B.Sc"
			}
			if p.AboutText == "" {
				p.AboutText = p.Description
			}
			if err := programs.Create(ctx, &p); err != nil {
				return fmt.Errorf("sqlite: seeding program %s/%s: %w", college.Slug, p.Slug, err)
			}
		}
	}
	return nil
}

func (db *DB) seedEvents(ctx context.Context) error {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return fmt.Errorf("sqlite: counting events: %w", err)
	}
	if n > 0 {
		return nil
	}

	events := db.Events()
	for _, e := range seedEvents {
		event := e
		if err := events.Create(ctx, &event); err != nil {
			return fmt.Errorf("sqlite: seeding event %s: %w", event.Title, err)
		}
	}
	return nil
}

type seededCollege struct {
	college  model.College
	programs []model.Program
}

var seedColleges = []seededCollege{
	{
		college: model.College{
			Name: "College of Engineering & Information Technology", ShortName: "Engineering & IT",
			Slug: "engineering-it", Tagline: "EXCELLENCE IN TECHNOLOGY",
			Description: "Empowering the next generation of innovators through rigorous academic programs, world-class research facilities, and industry-leading faculty expertise.",
			Badge1Label: "ABET Accredited", Badge2Label: "4,500+ Students",
			Stat1: "98% EMPLOYMENT RATE", Stat2: "120+ RESEARCH LABS", Stat3: "50M ANNUAL FUNDING", Stat4: "15k ALUMNI NETWORK",
		},
		programs: []model.Program{
			{Name: "Computer Science", Slug: "computer-science", Credits: 132,
				Description: "Study algorithms, software systems, and computational theory to solve complex problems.",
				Department:  "Department of Computer Science", RequiredGPA: "85%", HighSchoolTrack: "Scientific",
				AboutText: "The Computer Science program provides a strong foundation in algorithms, programming, data structures, and software engineering."},
			{Name: "Electrical Engineering", Slug: "electrical-engineering", Credits: 158,
				Description: "Design and analyze electrical systems, from microelectronics to power grids."},
			{Name: "Civil Engineering", Slug: "civil-engineering", Credits: 155,
				Description: "Plan, design, and manage infrastructure that shapes our built environment."},
			{Name: "Mechanical Engineering", Slug: "mechanical-engineering", Credits: 160,
				Description: "Apply principles of mechanics and thermodynamics to create machines and systems."},
			{Name: "Information Technology", Slug: "information-technology", Credits: 148,
				Description: "Bridge business and technology with skills in systems, networks, and data.",
				Department:  "Department of Information Technology",
				AboutText:   "The Information Technology program bridges business and technology, focusing on systems administration, networking, and application development."},
			{Name: "Software Engineering", Slug: "software-engineering", Credits: 152,
				Description: "Build reliable, scalable software through systematic design and development."},
		},
	},
	{
		college: model.College{
			Name: "College of Medicine", ShortName: "Medicine",
			Slug: "medicine", Tagline: "EXCELLENCE IN HEALTHCARE",
			Description: "Training the next generation of healthcare leaders with rigorous clinical education, research in medical and health sciences, and a commitment to community care.",
			Badge1Label: "WFME Accredited", Badge2Label: "3,200+ Students",
			Stat1: "96% RESIDENCY MATCH", Stat2: "45+ CLINICAL SITES", Stat3: "32M RESEARCH GRANTS", Stat4: "12k ALUMNI",
		},
		programs: []model.Program{
			{Name: "Medicine", Slug: "medicine", Credits: 252, Duration: "6 Years",
				Description: "Comprehensive medical education combining basic sciences with clinical training and patient care."},
			{Name: "Nursing", Slug: "nursing", Credits: 132,
				Description: "Prepare for roles in clinical practice, leadership, and community health."},
			{Name: "Medical Lab Sciences", Slug: "medical-lab", Credits: 128,
				Description: "Laboratory medicine, diagnostics, and research methodologies."},
		},
	},
	{
		college: model.College{
			Name: "College of Arts & Sciences", ShortName: "Arts & Sciences",
			Slug: "arts-sciences", Tagline: "EXCELLENCE IN INQUIRY",
			Description: "Fostering critical thinking and creativity across humanities, natural sciences, and social sciences for a well-rounded education and engaged citizenship.",
			Badge1Label: "Accredited", Badge2Label: "4,500+ Students",
			Stat1: "98% EMPLOYMENT RATE", Stat2: "120+ RESEARCH LABS", Stat3: "50M ANNUAL FUNDING", Stat4: "15k ALUMNI NETWORK",
		},
		programs: []model.Program{
			{Name: "English Language", Slug: "english", Credits: 124,
				Description: "Literature, linguistics, and communication in the English language."},
			{Name: "Mathematics", Slug: "mathematics", Credits: 128,
				Description: "Pure and applied mathematics, statistics, and mathematical modeling."},
			{Name: "Physics", Slug: "physics", Credits: 132,
				Description: "Fundamental laws of nature and their applications in science and technology."},
			{Name: "Chemistry", Slug: "chemistry", Credits: 136,
				Description: "Chemical principles, laboratory practice, and research in the molecular sciences."},
		},
	},
	{
		college: model.College{
			Name: "College of Business & Economics", ShortName: "Business & Economics",
			Slug: "business", Tagline: "EXCELLENCE IN LEADERSHIP",
			Description: "Preparing future leaders with strong foundations in business administration, economics, finance, and management for the global marketplace.",
			Badge1Label: "Accredited", Badge2Label: "4,500+ Students",
			Stat1: "98% EMPLOYMENT RATE", Stat2: "120+ RESEARCH LABS", Stat3: "50M ANNUAL FUNDING", Stat4: "15k ALUMNI NETWORK",
		},
		programs: []model.Program{
			{Name: "Business Administration", Slug: "business-admin", Credits: 126,
				Description: "Core business functions, strategy, and organizational management."},
			{Name: "Accounting", Slug: "accounting", Credits: 132,
				Description: "Financial reporting, auditing, taxation, and assurance."},
			{Name: "Economics", Slug: "economics", Credits: 124,
				Description: "Economic theory, policy analysis, and applied econometrics."},
		},
	},
	{
		college: model.College{
			Name: "College of Law", ShortName: "Law",
			Slug: "law", Tagline: "EXCELLENCE IN JUSTICE",
			Description: "Upholding justice and the rule of law through excellence in legal education, scholarly research, and professional practice.",
			Badge1Label: "Accredited", Badge2Label: "4,500+ Students",
			Stat1: "94% BAR PASS RATE", Stat2: "30+ LEGAL CLINICS", Stat3: "8M ANNUAL FUNDING", Stat4: "6k ALUMNI",
		},
		programs: []model.Program{
			{Name: "Law", Slug: "law", Credits: 142,
				Description: "Comprehensive legal education in substantive and procedural law, ethics, and practice."},
		},
	},
	{
		college: model.College{
			Name: "College of Information Technology", ShortName: "Information Technology",
			Slug: "it", Tagline: "EXCELLENCE IN DIGITAL INNOVATION",
			Description: "Driving digital transformation with programs in computer science, software engineering, and information systems for industry and research.",
			Badge1Label: "ABET Accredited", Badge2Label: "2,800+ Students",
			Stat1: "98% EMPLOYMENT RATE", Stat2: "120+ RESEARCH LABS", Stat3: "50M ANNUAL FUNDING", Stat4: "15k ALUMNI NETWORK",
		},
		programs: []model.Program{
			{Name: "Computer Science", Slug: "computer-science", Credits: 132,
				Description: "Algorithms, software systems, and computational theory."},
			{Name: "Software Engineering", Slug: "software-engineering", Credits: 152,
				Description: "Systematic design and development of reliable software."},
			{Name: "Information Systems", Slug: "information-systems", Credits: 148,
				Description: "Business systems, data management, and digital solutions."},
		},
	},
	{
		college: model.College{
			Name: "College of Education", ShortName: "Education",
			Slug: "education", Tagline: "EXCELLENCE IN TEACHING",
			Description: "Developing educators and researchers committed to excellence in teaching, curriculum design, and educational policy for schools and communities.",
			Badge1Label: "Accredited", Badge2Label: "4,500+ Students",
			Stat1: "98% EMPLOYMENT RATE", Stat2: "120+ RESEARCH LABS", Stat3: "50M ANNUAL FUNDING", Stat4: "15k ALUMNI NETWORK",
		},
		programs: []model.Program{
			{Name: "Education", Slug: "education", Credits: 128,
				Description: "Pedagogy, curriculum development, and educational leadership."},
			{Name: "Counseling", Slug: "counseling", Credits: 132,
				Description: "School and community counseling, mental health, and student support."},
		},
	},
	{
		college: model.College{
			Name: "College of Pharmacy", ShortName: "Pharmacy",
			Slug: "pharmacy", Tagline: "EXCELLENCE IN PHARMACEUTICAL CARE",
			Description: "Advancing pharmaceutical sciences and patient care through research, clinical practice, and community engagement.",
			Badge1Label: "Accredited", Badge2Label: "4,500+ Students",
			Stat1: "97% LICENSURE RATE", Stat2: "50+ AFFILIATE SITES", Stat3: "18M RESEARCH FUNDING", Stat4: "5k ALUMNI",
		},
		programs: []model.Program{
			{Name: "Pharmacy", Slug: "pharmacy", Credits: 164, Duration: "5 Years",
				Description: "Pharmaceutical sciences, clinical practice, and patient care."},
		},
	},
}

var seedEvents = []model.Event{
	{
		Title: "Global Research Symposium: Innovation in Tech",
		Date:  "October 24, 2026", Time: "10:00 AM",
		Location: "Main Auditorium, New Campus", Tag: "Research",
		Description: "A gathering of leading researchers and academics to explore cutting-edge developments in technology and their impact on society.",
		ImageURL:    "/event1.jpg",
	},
	{
		Title: "Fall Open House for Prospective Graduate Students",
		Date:  "November 02, 2026", Time: "2:00 PM",
		Location: "Faculty of Graduate Studies", Tag: "Admissions",
		Description: "An opportunity for prospective students to tour the campus, meet faculty, and learn about our graduate programs.",
		ImageURL:    "/event2.jpg",
	},
	{
		Title: "International Cultural Exchange Night",
		Date:  "November 15, 2026", Time: "6:00 PM",
		Location: "Student Activity Center", Tag: "Culture",
		Description: "Celebrate the rich diversity of our campus community through food, music, and cultural performances from around the world.",
		ImageURL:    "/event3.jpg",
	},
	{
		Title: "Campus Sustainability Forum",
		Date:  "December 05, 2026", Time: "9:00 AM",
		Location: "Engineering Hall, Room 201", Tag: "Environment",
		Description: "Discussions and workshops focused on sustainable practices, green energy initiatives, and the university's environmental commitments.",
		ImageURL:    "/event4.jpg",
	},
}
