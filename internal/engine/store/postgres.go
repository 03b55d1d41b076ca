package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type postgresStore struct {
	pool *pgxpool.Pool
}

// openPostgres creates a pgx pool and applies the embedded schema
// migrations in sorted order.
func openPostgres(ctx context.Context, databaseURL string) (Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("store: create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	s := &postgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: run migrations: %w", err)
	}

	slog.Info("postgres store connected", slog.String("host", config.ConnConfig.Host))
	return s, nil
}

func (s *postgresStore) runMigrations(ctx context.Context) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute %s: %w", entry.Name(), err)
		}
		slog.Info("migration applied", slog.String("file", entry.Name()))
	}
	return nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *postgresStore) SaveResume(ctx context.Context, r *ResumeRecord) (int64, error) {
	now := rfcNow()
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO resumes (file_path, file_type, name, email, phone,
			raw_text, parsed_json, profile_json, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		r.FilePath, r.FileType, r.Name, r.Email, r.Phone,
		r.RawText, r.ParsedJSON, r.ProfileJSON, now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: save resume: %w", err)
	}
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	return id, nil
}

func (s *postgresStore) GetResume(ctx context.Context, id int64) (*ResumeRecord, error) {
	var r ResumeRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, file_path, file_type, name, email, phone,
			raw_text, parsed_json, profile_json, created_at, updated_at
		 FROM resumes WHERE id = $1`, id,
	).Scan(&r.ID, &r.FilePath, &r.FileType, &r.Name, &r.Email, &r.Phone,
		&r.RawText, &r.ParsedJSON, &r.ProfileJSON, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("store: resume %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get resume %d: %w", id, err)
	}
	return &r, nil
}

func (s *postgresStore) SaveJob(ctx context.Context, j *JobRecord) (int64, error) {
	now := rfcNow()
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO jobs (job_id, title, company, location, url, salary,
			raw_text, jd_extract_json, platform, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (job_id) DO UPDATE SET
			title = EXCLUDED.title, company = EXCLUDED.company,
			location = EXCLUDED.location, url = EXCLUDED.url,
			salary = EXCLUDED.salary, raw_text = EXCLUDED.raw_text,
			jd_extract_json = EXCLUDED.jd_extract_json,
			platform = EXCLUDED.platform, fetched_at = EXCLUDED.fetched_at
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

func (s *postgresStore) GetJob(ctx context.Context, jobID string) (*JobRecord, error) {
	var j JobRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_id, title, company, location, url, salary,
			raw_text, jd_extract_json, platform, fetched_at
		 FROM jobs WHERE job_id = $1`, jobID,
	).Scan(&j.ID, &j.JobID, &j.Title, &j.Company, &j.Location, &j.URL, &j.Salary,
		&j.RawText, &j.JDExtractJSON, &j.Platform, &j.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("store: job %s: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get job %s: %w", jobID, err)
	}
	return &j, nil
}

func (s *postgresStore) CreateApplication(ctx context.Context, a *Application) (int64, error) {
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if !ValidStatus(string(a.Status)) {
		return 0, &InvalidStatusError{Status: string(a.Status)}
	}
	now := rfcNow()
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO applications (resume_id, job_id, status, ats_score,
			ats_report_json, tailored_text, cover_letter, applied_at,
			platform, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		a.ResumeID, a.JobID, string(a.Status), a.ATSScore,
		a.ATSReportJSON, a.TailoredText, a.CoverLetter, a.AppliedAt,
		a.Platform, a.Notes, now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: create application: %w", err)
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return id, nil
}

func (s *postgresStore) GetApplication(ctx context.Context, id int64) (*Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+applicationCols+applicationFrom+` WHERE a.id = $1`, id)
	a, err := scanApplicationRow(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("store: application %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get application %d: %w", id, err)
	}
	return a, nil
}

func (s *postgresStore) ActiveApplication(ctx context.Context, resumeID int64, jobID string) (*Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+applicationCols+applicationFrom+`
		 WHERE a.resume_id = $1 AND a.job_id = $2 AND a.status != 'cancelled'
		 ORDER BY a.id DESC LIMIT 1`, resumeID, jobID)
	a, err := scanApplicationRow(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: active application (%d, %s): %w", resumeID, jobID, err)
	}
	return a, nil
}

func (s *postgresStore) UpdateApplication(ctx context.Context, id int64, fields map[string]any) error {
	keys, err := validateUpdate(fields)
	if err != nil {
		return err
	}

	set := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	for i, k := range keys {
		set = append(set, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, fields[k])
	}
	set = append(set, fmt.Sprintf("updated_at = $%d", len(keys)+1))
	args = append(args, rfcNow(), id)

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE applications SET %s WHERE id = $%d`,
			strings.Join(set, ", "), len(keys)+2), args...)
	if err != nil {
		return fmt.Errorf("store: update application %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: application %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *postgresStore) ListApplications(ctx context.Context, status string, limit int) ([]Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		if !ValidStatus(status) {
			return nil, &InvalidStatusError{Status: status}
		}
		rows, err = s.pool.Query(ctx,
			`SELECT `+applicationCols+applicationFrom+`
			 WHERE a.status = $1 ORDER BY a.updated_at DESC, a.id DESC LIMIT $2`,
			status, limit)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT `+applicationCols+applicationFrom+`
			 ORDER BY a.updated_at DESC, a.id DESC LIMIT $1`, limit)
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

func (s *postgresStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
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

func (s *postgresStore) AverageATSScore(ctx context.Context) (float64, error) {
	var avg float64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(ats_score), 0) FROM applications WHERE ats_score > 0`,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("store: average ats score: %w", err)
	}
	return avg, nil
}

func (s *postgresStore) LogAction(ctx context.Context, applicationID int64, action, detail string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO action_log (application_id, action, detail, created_at)
		 VALUES ($1, $2, $3, $4)`,
		applicationID, action, detail, rfcNow())
	if err != nil {
		return fmt.Errorf("store: log action %q: %w", action, err)
	}
	return nil
}

func (s *postgresStore) History(ctx context.Context, applicationID int64) ([]ActionEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, application_id, action, detail, created_at
		 FROM action_log WHERE application_id = $1 ORDER BY id ASC`, applicationID)
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
