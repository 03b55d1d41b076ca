package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// sqliteSchema is applied statement by statement on open. The partial
// unique index backs the one-active-application-per-pair invariant at
// the database level.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS resumes (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path    TEXT NOT NULL,
		file_type    TEXT NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		phone        TEXT NOT NULL DEFAULT '',
		raw_text     TEXT NOT NULL DEFAULT '',
		parsed_json  TEXT NOT NULL DEFAULT '',
		profile_json TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id          TEXT NOT NULL UNIQUE,
		title           TEXT NOT NULL DEFAULT '',
		company         TEXT NOT NULL DEFAULT '',
		location        TEXT NOT NULL DEFAULT '',
		url             TEXT NOT NULL DEFAULT '',
		salary          TEXT NOT NULL DEFAULT '',
		raw_text        TEXT NOT NULL DEFAULT '',
		jd_extract_json TEXT NOT NULL DEFAULT '',
		platform        TEXT NOT NULL DEFAULT '',
		fetched_at      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		resume_id       INTEGER NOT NULL,
		job_id          TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'draft',
		ats_score       INTEGER NOT NULL DEFAULT 0,
		ats_report_json TEXT NOT NULL DEFAULT '',
		tailored_text   TEXT NOT NULL DEFAULT '',
		cover_letter    TEXT NOT NULL DEFAULT '',
		applied_at      TEXT NOT NULL DEFAULT '',
		platform        TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_active_pair
		ON applications (resume_id, job_id) WHERE status != 'cancelled'`,
	`CREATE TABLE IF NOT EXISTS action_log (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		application_id INTEGER NOT NULL,
		action         TEXT NOT NULL,
		detail         TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL
	)`,
}

type sqliteStore struct {
	db *sql.DB
}

// openSQLite opens (or creates) the SQLite database under the data
// directory, defaulting to $HOME/.go_apply/apply.db.
func openSQLite() (Store, error) {
	dir := engine.Cfg.DataDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".go_apply")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
	}

	path := filepath.Join(dir, "apply.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: init schema: %w", err)
		}
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) SaveResume(ctx context.Context, r *ResumeRecord) (int64, error) {
	now := rfcNow()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (file_path, file_type, name, email, phone,
			raw_text, parsed_json, profile_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.FilePath, r.FileType, r.Name, r.Email, r.Phone,
		r.RawText, r.ParsedJSON, r.ProfileJSON, now, now)
	if err != nil {
		return 0, fmt.Errorf("store: save resume: %w", err)
	}
	id, _ := res.LastInsertId()
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	return id, nil
}

func (s *sqliteStore) GetResume(ctx context.Context, id int64) (*ResumeRecord, error) {
	var r ResumeRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, file_path, file_type, name, email, phone,
			raw_text, parsed_json, profile_json, created_at, updated_at
		 FROM resumes WHERE id = ?`, id,
	).Scan(&r.ID, &r.FilePath, &r.FileType, &r.Name, &r.Email, &r.Phone,
		&r.RawText, &r.ParsedJSON, &r.ProfileJSON, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: resume %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get resume %d: %w", id, err)
	}
	return &r, nil
}

func (s *sqliteStore) SaveJob(ctx context.Context, j *JobRecord) (int64, error) {
	now := rfcNow()
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO jobs (job_id, title, company, location, url, salary,
			raw_text, jd_extract_json, platform, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET
			title = excluded.title, company = excluded.company,
			location = excluded.location, url = excluded.url,
			salary = excluded.salary, raw_text = excluded.raw_text,
			jd_extract_json = excluded.jd_extract_json,
			platform = excluded.platform, fetched_at = excluded.fetched_at
		 RETURNING id`,
		j.JobID, j.Title, j.Company, j.Location, j.URL, j.Salary,
		j.RawText, j.JDExtractJSON, j.Platform, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: save job %s: %w", j.JobID, err)
	}
	j.ID, j.FetchedAt = id, now
	return id, nil
}

func (s *sqliteStore) GetJob(ctx context.Context, jobID string) (*JobRecord, error) {
	var j JobRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, job_id, title, company, location, url, salary,
			raw_text, jd_extract_json, platform, fetched_at
		 FROM jobs WHERE job_id = ?`, jobID,
	).Scan(&j.ID, &j.JobID, &j.Title, &j.Company, &j.Location, &j.URL, &j.Salary,
		&j.RawText, &j.JDExtractJSON, &j.Platform, &j.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: job %s: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get job %s: %w", jobID, err)
	}
	return &j, nil
}

func (s *sqliteStore) CreateApplication(ctx context.Context, a *Application) (int64, error) {
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if !ValidStatus(string(a.Status)) {
		return 0, &InvalidStatusError{Status: string(a.Status)}
	}
	now := rfcNow()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (resume_id, job_id, status, ats_score,
			ats_report_json, tailored_text, cover_letter, applied_at,
			platform, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ResumeID, a.JobID, string(a.Status), a.ATSScore,
		a.ATSReportJSON, a.TailoredText, a.CoverLetter, a.AppliedAt,
		a.Platform, a.Notes, now, now)
	if err != nil {
		return 0, fmt.Errorf("store: create application: %w", err)
	}
	id, _ := res.LastInsertId()
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return id, nil
}

func (s *sqliteStore) GetApplication(ctx context.Context, id int64) (*Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationCols+applicationFrom+` WHERE a.id = ?`, id)
	a, err := scanApplicationRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: application %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get application %d: %w", id, err)
	}
	return a, nil
}

func (s *sqliteStore) ActiveApplication(ctx context.Context, resumeID int64, jobID string) (*Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationCols+applicationFrom+`
		 WHERE a.resume_id = ? AND a.job_id = ? AND a.status != 'cancelled'
		 ORDER BY a.id DESC LIMIT 1`, resumeID, jobID)
	a, err := scanApplicationRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: active application (%d, %s): %w", resumeID, jobID, err)
	}
	return a, nil
}

func (s *sqliteStore) UpdateApplication(ctx context.Context, id int64, fields map[string]any) error {
	keys, err := validateUpdate(fields)
	if err != nil {
		return err
	}

	set := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	for _, k := range keys {
		set = append(set, k+" = ?")
		args = append(args, fields[k])
	}
	set = append(set, "updated_at = ?")
	args = append(args, rfcNow(), id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("store: update application %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: application %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) ListApplications(ctx context.Context, status string, limit int) ([]Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		if !ValidStatus(status) {
			return nil, &InvalidStatusError{Status: status}
		}
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+applicationCols+applicationFrom+`
			 WHERE a.status = ? ORDER BY a.updated_at DESC, a.id DESC LIMIT ?`,
			status, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+applicationCols+applicationFrom+`
			 ORDER BY a.updated_at DESC, a.id DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		a, err := scanApplicationRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (s *sqliteStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("store: count by status: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("store: scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (s *sqliteStore) AverageATSScore(ctx context.Context) (float64, error) {
	var avg float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(ats_score), 0) FROM applications WHERE ats_score > 0`,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("store: average ats score: %w", err)
	}
	return avg, nil
}

func (s *sqliteStore) LogAction(ctx context.Context, applicationID int64, action, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_log (application_id, action, detail, created_at)
		 VALUES (?, ?, ?, ?)`,
		applicationID, action, detail, rfcNow())
	if err != nil {
		return fmt.Errorf("store: log action %q: %w", action, err)
	}
	return nil
}

func (s *sqliteStore) History(ctx context.Context, applicationID int64) ([]ActionEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, application_id, action, detail, created_at
		 FROM action_log WHERE application_id = ? ORDER BY id ASC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("store: history %d: %w", applicationID, err)
	}
	defer rows.Close()

	entries := []ActionEntry{}
	for rows.Next() {
		var e ActionEntry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan action: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// scanApplicationRow scans the applicationCols column list through any
// row's Scan func, shared by the single-row and multi-row paths.
func scanApplicationRow(scan func(...any) error) (*Application, error) {
	var a Application
	var status string
	err := scan(&a.ID, &a.ResumeID, &a.JobID, &status, &a.ATSScore,
		&a.ATSReportJSON, &a.TailoredText, &a.CoverLetter, &a.AppliedAt,
		&a.Platform, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.JobTitle, &a.JobCompany)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}
