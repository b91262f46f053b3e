package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/repository"
)

// children before parents, so the deletes never trip a foreign key
var snapshotTables = []string{
	"student_applications",
	"rep_internships",
	"internship_confirmed",
	"applications",
	"internships",
	"career_staff",
	"company_reps",
	"students",
}

// Save replaces the stored snapshot with the current contents of repo.
// Either the whole snapshot is written or none of it.
func (db *DB) Save(ctx context.Context, repo repository.Repository) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning snapshot: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, table := range snapshotTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: clearing %s: %w", table, err)
		}
	}

	if err := saveStudents(ctx, tx, repo.ListStudents()); err != nil {
		return err
	}
	if err := saveReps(ctx, tx, repo.ListCompanyReps()); err != nil {
		return err
	}
	if err := saveStaff(ctx, tx, repo.ListStaff()); err != nil {
		return err
	}
	if err := saveInternships(ctx, tx, repo.ListInternships()); err != nil {
		return err
	}
	if err := saveApplications(ctx, tx, repo.ListApplications()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing snapshot: %w", err)
	}
	committed = true
	return nil
}

func saveStudents(ctx context.Context, tx *sql.Tx, students []*model.Student) error {
	for seq, s := range students {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO students (id, seq, password, name, email, year_of_study, major, accepted_internship_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, seq, s.Password, s.Name, s.Email, s.YearOfStudy, s.Major, s.AcceptedInternshipID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: saving student %s: %w", s.ID, err)
		}
		for pos, appID := range s.ApplicationIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO student_applications (student_id, position, application_id) VALUES (?, ?, ?)`,
				s.ID, pos, appID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: saving applications of %s: %w", s.ID, err)
			}
		}
	}
	return nil
}

func saveReps(ctx context.Context, tx *sql.Tx, reps []*model.CompanyRepresentative) error {
	for seq, r := range reps {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO company_reps (id, seq, password, name, email, company_name, department, position, approval, next_sequence)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, seq, r.Password, r.Name, r.Email, r.CompanyName, r.Department, r.Position,
			string(r.Approval), r.NextSequence,
		)
		if err != nil {
			return fmt.Errorf("sqlite: saving company rep %s: %w", r.ID, err)
		}
		for pos, internshipID := range r.InternshipIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO rep_internships (rep_id, position, internship_id) VALUES (?, ?, ?)`,
				r.ID, pos, internshipID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: saving postings of %s: %w", r.ID, err)
			}
		}
	}
	return nil
}

func saveStaff(ctx context.Context, tx *sql.Tx, staff []*model.CareerStaff) error {
	for seq, s := range staff {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO career_staff (id, seq, password, name, email, department, staff_role)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, seq, s.Password, s.Name, s.Email, s.Department, s.StaffRole,
		)
		if err != nil {
			return fmt.Errorf("sqlite: saving staff %s: %w", s.ID, err)
		}
	}
	return nil
}

func saveInternships(ctx context.Context, tx *sql.Tx, internships []*model.Internship) error {
	for seq, i := range internships {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO internships (id, seq, title, description, level, major, open_date, close_date,
			                          total_slots, slots_left, status, visible, representative_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i.ID, seq, i.Title, i.Description, string(i.Level), i.Major,
			i.OpenDate.String(), i.CloseDate.String(),
			i.TotalSlots, i.SlotsLeft, string(i.Status), i.Visible, i.RepresentativeID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: saving internship %s: %w", i.ID, err)
		}
		for pos, studentID := range i.ConfirmedStudentIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO internship_confirmed (internship_id, position, student_id) VALUES (?, ?, ?)`,
				i.ID, pos, studentID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: saving placements of %s: %w", i.ID, err)
			}
		}
	}
	return nil
}

func saveApplications(ctx context.Context, tx *sql.Tx, apps []*model.Application) error {
	for seq, a := range apps {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO applications (id, seq, student_id, internship_id, representative_id,
			                           company_decision, student_decision, withdrawal)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, seq, a.StudentID, a.InternshipID, a.RepresentativeID,
			string(a.CompanyDecision), string(a.StudentDecision), string(a.Withdrawal),
		)
		if err != nil {
			return fmt.Errorf("sqlite: saving application %s: %w", a.ID, err)
		}
	}
	return nil
}

// Load adds every stored entity to repo in its original insertion order.
// repo is expected to be empty; an id already present is a conflict error.
func (db *DB) Load(ctx context.Context, repo repository.Repository) error {
	if err := db.loadStaff(ctx, repo); err != nil {
		return err
	}
	if err := db.loadStudents(ctx, repo); err != nil {
		return err
	}
	if err := db.loadReps(ctx, repo); err != nil {
		return err
	}
	if err := db.loadInternships(ctx, repo); err != nil {
		return err
	}
	return db.loadApplications(ctx, repo)
}

// loadLists reads (owner, value) pairs, already ordered by owner and
// position, into a map of owner → values.
func (db *DB) loadLists(ctx context.Context, query string) (map[string][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var owner, value string
		if err := rows.Scan(&owner, &value); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], value)
	}
	return out, rows.Err()
}

func (db *DB) loadStaff(ctx context.Context, repo repository.Repository) error {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, password, name, email, department, staff_role FROM career_staff ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("sqlite: loading staff: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &model.CareerStaff{Account: model.Account{Role: model.RoleCareerStaff}}
		if err := rows.Scan(&s.ID, &s.Password, &s.Name, &s.Email, &s.Department, &s.StaffRole); err != nil {
			return fmt.Errorf("sqlite: scanning staff: %w", err)
		}
		if err := repo.AddStaff(s); err != nil {
			return fmt.Errorf("sqlite: restoring staff %s: %w", s.ID, err)
		}
	}
	return rows.Err()
}

func (db *DB) loadStudents(ctx context.Context, repo repository.Repository) error {
	apps, err := db.loadLists(ctx,
		`SELECT student_id, application_id FROM student_applications ORDER BY student_id, position`)
	if err != nil {
		return fmt.Errorf("sqlite: loading student applications: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, password, name, email, year_of_study, major, accepted_internship_id
		 FROM students ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("sqlite: loading students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &model.Student{Account: model.Account{Role: model.RoleStudent}}
		err := rows.Scan(&s.ID, &s.Password, &s.Name, &s.Email, &s.YearOfStudy, &s.Major, &s.AcceptedInternshipID)
		if err != nil {
			return fmt.Errorf("sqlite: scanning student: %w", err)
		}
		s.ApplicationIDs = apps[s.ID]
		if err := repo.AddStudent(s); err != nil {
			return fmt.Errorf("sqlite: restoring student %s: %w", s.ID, err)
		}
	}
	return rows.Err()
}

func (db *DB) loadReps(ctx context.Context, repo repository.Repository) error {
	postings, err := db.loadLists(ctx,
		`SELECT rep_id, internship_id FROM rep_internships ORDER BY rep_id, position`)
	if err != nil {
		return fmt.Errorf("sqlite: loading rep postings: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, password, name, email, company_name, department, position, approval, next_sequence
		 FROM company_reps ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("sqlite: loading company reps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r := &model.CompanyRepresentative{Account: model.Account{Role: model.RoleCompanyRep}}
		var approval string
		err := rows.Scan(&r.ID, &r.Password, &r.Name, &r.Email, &r.CompanyName,
			&r.Department, &r.Position, &approval, &r.NextSequence)
		if err != nil {
			return fmt.Errorf("sqlite: scanning company rep: %w", err)
		}
		if r.Approval, err = model.ParseStatus(approval); err != nil {
			return fmt.Errorf("sqlite: company rep %s: %w", r.ID, err)
		}
		for _, id := range postings[r.ID] {
			r.AddInternship(id)
		}
		if err := repo.AddCompanyRep(r); err != nil {
			return fmt.Errorf("sqlite: restoring company rep %s: %w", r.ID, err)
		}
	}
	return rows.Err()
}

func (db *DB) loadInternships(ctx context.Context, repo repository.Repository) error {
	confirmed, err := db.loadLists(ctx,
		`SELECT internship_id, student_id FROM internship_confirmed ORDER BY internship_id, position`)
	if err != nil {
		return fmt.Errorf("sqlite: loading placements: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, level, major, open_date, close_date,
		        total_slots, slots_left, status, visible, representative_id
		 FROM internships ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("sqlite: loading internships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		i := &model.Internship{}
		var level, status, openDate, closeDate string
		err := rows.Scan(&i.ID, &i.Title, &i.Description, &level, &i.Major, &openDate, &closeDate,
			&i.TotalSlots, &i.SlotsLeft, &status, &i.Visible, &i.RepresentativeID)
		if err != nil {
			return fmt.Errorf("sqlite: scanning internship: %w", err)
		}
		if i.Level, err = model.ParseLevel(level); err != nil {
			return fmt.Errorf("sqlite: internship %s: %w", i.ID, err)
		}
		if i.Status, err = model.ParseStatus(status); err != nil {
			return fmt.Errorf("sqlite: internship %s: %w", i.ID, err)
		}
		if i.OpenDate, err = parseOptionalDate(openDate); err != nil {
			return fmt.Errorf("sqlite: internship %s: %w", i.ID, err)
		}
		if i.CloseDate, err = parseOptionalDate(closeDate); err != nil {
			return fmt.Errorf("sqlite: internship %s: %w", i.ID, err)
		}
		i.ConfirmedStudentIDs = confirmed[i.ID]

		if err := repo.AddInternship(i); err != nil {
			return fmt.Errorf("sqlite: restoring internship %s: %w", i.ID, err)
		}
	}
	return rows.Err()
}

func parseOptionalDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	return model.ParseDate(s)
}

func (db *DB) loadApplications(ctx context.Context, repo repository.Repository) error {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, student_id, internship_id, representative_id, company_decision, student_decision, withdrawal
		 FROM applications ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("sqlite: loading applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := &model.Application{}
		var company, student, withdrawal string
		err := rows.Scan(&a.ID, &a.StudentID, &a.InternshipID, &a.RepresentativeID, &company, &student, &withdrawal)
		if err != nil {
			return fmt.Errorf("sqlite: scanning application: %w", err)
		}
		if a.CompanyDecision, err = model.ParseStatus(company); err != nil {
			return fmt.Errorf("sqlite: application %s: %w", a.ID, err)
		}
		if a.StudentDecision, err = model.ParseStatus(student); err != nil {
			return fmt.Errorf("sqlite: application %s: %w", a.ID, err)
		}
		a.Withdrawal = model.Withdrawal(withdrawal)

		if err := repo.AddApplication(a); err != nil {
			return fmt.Errorf("sqlite: restoring application %s: %w", a.ID, err)
		}
	}
	return rows.Err()
}
