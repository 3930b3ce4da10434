package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"fitter-service/internal/models"
	"fitter-service/pkg/response"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Init creates the schema if it is missing.
func (s *Storage) Init(ctx context.Context) error {
	const op = "storage.postgres.Init"

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fitters (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS leave_records (
			id BIGSERIAL PRIMARY KEY,
			fitter_id BIGINT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			availability_type TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			CHECK (start_date <= end_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leave_fitter_dates
			ON leave_records (fitter_id, start_date, end_date)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id BIGSERIAL PRIMARY KEY,
			order_number TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			fitter_id BIGINT,
			fitting_date DATE,
			fitting_date_unknown BOOLEAN NOT NULL DEFAULT FALSE,
			fitting_time_period TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_fitter_date
			ON jobs (fitter_id, fitting_date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// #### fitters ####

func (s *Storage) CreateFitter(ctx context.Context, fitter *models.Fitter) (int64, error) {
	const op = "storage.postgres.CreateFitter"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO fitters (name, color) VALUES ($1, $2) RETURNING id`,
		fitter.Name, fitter.Color,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetFitter(ctx context.Context, id int64) (*models.Fitter, error) {
	const op = "storage.postgres.GetFitter"

	var fitter models.Fitter
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM fitters WHERE id=$1`, id,
	).Scan(&fitter.ID, &fitter.Name, &fitter.Color)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &fitter, nil
}

// ListFitters returns all fitters in ascending id order; the availability
// aggregator relies on that order for its first-available-fitter search.
func (s *Storage) ListFitters(ctx context.Context) ([]*models.Fitter, error) {
	const op = "storage.postgres.ListFitters"

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM fitters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var fitters []*models.Fitter
	for rows.Next() {
		var fitter models.Fitter
		if err := rows.Scan(&fitter.ID, &fitter.Name, &fitter.Color); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		fitters = append(fitters, &fitter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return fitters, nil
}

func (s *Storage) DeleteFitter(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteFitter"

	res, err := s.db.ExecContext(ctx, `DELETE FROM fitters WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### leave ####

func (s *Storage) CreateLeave(ctx context.Context, rec *models.LeaveRecord) (int64, error) {
	const op = "storage.postgres.CreateLeave"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO leave_records (fitter_id, start_date, end_date, availability_type, reason)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rec.FitterID, rec.StartDate, rec.EndDate, string(rec.Category), rec.Reason,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetLeave(ctx context.Context, id int64) (*models.LeaveRecord, error) {
	const op = "storage.postgres.GetLeave"

	var rec models.LeaveRecord
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, fitter_id, start_date, end_date, availability_type, reason
		 FROM leave_records WHERE id=$1`, id,
	).Scan(&rec.ID, &rec.FitterID, &rec.StartDate, &rec.EndDate, &category, &rec.Reason)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec.Category = models.LeaveCategory(category)
	rec.StartDate = models.DateOnly(rec.StartDate)
	rec.EndDate = models.DateOnly(rec.EndDate)

	return &rec, nil
}

func (s *Storage) DeleteLeave(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteLeave"

	res, err := s.db.ExecContext(ctx, `DELETE FROM leave_records WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// LeaveForRange returns records whose interval intersects the window of
// `days` days starting at `start`, across all fitters when fitterID is nil.
func (s *Storage) LeaveForRange(ctx context.Context, fitterID *int64, start time.Time, days int) ([]*models.LeaveRecord, error) {
	const op = "storage.postgres.LeaveForRange"

	end := start.AddDate(0, 0, days-1)

	query := `SELECT id, fitter_id, start_date, end_date, availability_type, reason
		FROM leave_records
		WHERE start_date <= $1 AND end_date >= $2`
	args := []any{end, start}

	if fitterID != nil {
		query += ` AND fitter_id = $3`
		args = append(args, *fitterID)
	}

	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var records []*models.LeaveRecord
	for rows.Next() {
		var rec models.LeaveRecord
		var category string
		if err := rows.Scan(&rec.ID, &rec.FitterID, &rec.StartDate, &rec.EndDate, &category, &rec.Reason); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		rec.Category = models.LeaveCategory(category)
		rec.StartDate = models.DateOnly(rec.StartDate)
		rec.EndDate = models.DateOnly(rec.EndDate)

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// #### jobs ####

func (s *Storage) CreateQuote(ctx context.Context, job *models.JobBooking) (int64, error) {
	const op = "storage.postgres.CreateQuote"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO jobs (order_number, customer_name, status)
		 VALUES ($1, $2, $3) RETURNING id`,
		job.OrderNumber, job.CustomerName, string(models.JobQuotation),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetJob(ctx context.Context, id int64) (*models.JobBooking, error) {
	const op = "storage.postgres.GetJob"

	row := s.db.QueryRowContext(ctx,
		`SELECT id, order_number, customer_name, status, fitter_id, fitting_date,
			fitting_date_unknown, fitting_time_period
		 FROM jobs WHERE id=$1`, id)

	job, err := scanJob(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return job, nil
}

// BookingsForRange returns active (non-quotation, non-cancelled) bookings
// with a known fitting date inside the window, in ascending id order.
func (s *Storage) BookingsForRange(ctx context.Context, fitterID *int64, start time.Time, days int) ([]*models.JobBooking, error) {
	const op = "storage.postgres.BookingsForRange"

	end := start.AddDate(0, 0, days-1)

	query := `SELECT id, order_number, customer_name, status, fitter_id, fitting_date,
			fitting_date_unknown, fitting_time_period
		FROM jobs
		WHERE status NOT IN ($1, $2)
		AND fitting_date IS NOT NULL
		AND fitting_date >= $3 AND fitting_date <= $4`
	args := []any{string(models.JobQuotation), string(models.JobCancelled), start, end}

	if fitterID != nil {
		query += ` AND fitter_id = $5`
		args = append(args, *fitterID)
	}

	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var jobs []*models.JobBooking
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return jobs, nil
}

// PromoteQuote flips a quotation into a pending job in a single statement.
// The status predicate makes it a compare-and-swap: a quote already
// converted or cancelled matches zero rows, and the caller treats that as a
// lost race rather than overwriting the record.
func (s *Storage) PromoteQuote(ctx context.Context, quoteID int64, schedule *models.JobSchedule) (int64, error) {
	const op = "storage.postgres.PromoteQuote"

	var period sql.NullString
	if schedule.TimePeriod != models.PeriodUnspecified {
		period = sql.NullString{String: string(schedule.TimePeriod), Valid: true}
	}

	var date sql.NullTime
	if schedule.FittingDate != nil {
		date = sql.NullTime{Time: *schedule.FittingDate, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs
		 SET status=$1, fitter_id=$2, fitting_date=$3, fitting_date_unknown=$4, fitting_time_period=$5
		 WHERE id=$6 AND status=$7`,
		string(models.JobPending), schedule.FitterID, date, schedule.FittingDateUnknown,
		period, quoteID, string(models.JobQuotation),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func scanJob(scan func(dest ...any) error) (*models.JobBooking, error) {
	var job models.JobBooking
	var status string
	var fitterID sql.NullInt64
	var fittingDate sql.NullTime
	var period sql.NullString

	err := scan(&job.ID, &job.OrderNumber, &job.CustomerName, &status,
		&fitterID, &fittingDate, &job.FittingDateUnknown, &period)
	if err != nil {
		return nil, err
	}

	job.Status = models.JobStatus(status)
	if fitterID.Valid {
		job.FitterID = &fitterID.Int64
	}
	if fittingDate.Valid {
		d := models.DateOnly(fittingDate.Time)
		job.FittingDate = &d
	}
	if period.Valid {
		job.TimePeriod = models.TimePeriod(period.String)
	}

	return &job, nil
}
