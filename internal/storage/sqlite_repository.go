package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"

	"github.com/sandeepkv93/cadence/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

// sqlRunner is the query surface shared by *sql.DB and *sql.Tx.
type sqlRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLiteRepository struct {
	db *sql.DB
	q  sqlRunner
	tx bool
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db, q: db}, nil
}

// OpenSQLite opens path with foreign keys enforced on every pooled connection,
// which the cascade from plans to tasks to history depends on.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (r *SQLiteRepository) Migrate() error {
	return MigrateUp(r.db)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.tx {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(&SQLiteRepository{db: r.db, q: tx, tx: true}); err != nil {
		return multierr.Append(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreatePlan(ctx context.Context, in model.Plan) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO plans (id, name, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.Name, string(in.Category), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, category, created_at, updated_at
		FROM plans WHERE id = ?`, id)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Plan{}, ErrNotFound
		}
		return model.Plan{}, err
	}
	return plan, nil
}

func (r *SQLiteRepository) UpdatePlan(ctx context.Context, in model.Plan) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE plans SET name = ?, category = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, string(in.Category), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeletePlan(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListPlans(ctx context.Context, filter PlanListFilter) ([]model.Plan, error) {
	query := `SELECT id, name, category, created_at, updated_at FROM plans`
	args := make([]any, 0, 3)
	if filter.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, string(filter.Category))
	}
	query += ` ORDER BY created_at ASC, name ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Plan, 0)
	for rows.Next() {
		plan, scanErr := scanPlan(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, plan)
	}
	return out, rows.Err()
}

const taskColumns = `id, plan_id, day_of_week, name, category, sets, reps, intensity, start_time,
	duration_minutes, notes, completed, reminder_enabled, completed_at, order_index`

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.PlanTask) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO plan_tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.PlanID, string(in.Day), in.Name, string(in.Category), in.Sets, in.Reps, in.Intensity, in.StartTime,
		in.DurationMinutes, in.Notes, boolInt(in.Completed), boolInt(in.ReminderEnabled), zeroableTime(in.CompletedAt), in.OrderIndex,
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.PlanTask, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM plan_tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PlanTask{}, ErrNotFound
		}
		return model.PlanTask{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.PlanTask) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE plan_tasks
		SET plan_id = ?, day_of_week = ?, name = ?, category = ?, sets = ?, reps = ?, intensity = ?, start_time = ?,
			duration_minutes = ?, notes = ?, completed = ?, reminder_enabled = ?, completed_at = ?, order_index = ?
		WHERE id = ?`,
		in.PlanID, string(in.Day), in.Name, string(in.Category), in.Sets, in.Reps, in.Intensity, in.StartTime,
		in.DurationMinutes, in.Notes, boolInt(in.Completed), boolInt(in.ReminderEnabled), zeroableTime(in.CompletedAt), in.OrderIndex,
		in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM plan_tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.PlanTask, error) {
	query := `SELECT ` + taskColumns + ` FROM plan_tasks`
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if filter.PlanID != "" {
		clauses = append(clauses, "plan_id = ?")
		args = append(args, filter.PlanID)
	}
	if filter.Day != "" {
		clauses = append(clauses, "day_of_week = ?")
		args = append(args, string(filter.Day))
	}
	if filter.ReminderEnabled != nil {
		clauses = append(clauses, "reminder_enabled = ?")
		args = append(args, boolInt(*filter.ReminderEnabled))
	}
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY ` + dayOrder + `, order_index ASC, start_time ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PlanTask, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// dayOrder sorts stored weekday names Monday first.
const dayOrder = `CASE day_of_week
	WHEN 'Monday' THEN 0 WHEN 'Tuesday' THEN 1 WHEN 'Wednesday' THEN 2 WHEN 'Thursday' THEN 3
	WHEN 'Friday' THEN 4 WHEN 'Saturday' THEN 5 WHEN 'Sunday' THEN 6 ELSE 7 END`

func (r *SQLiteRepository) UpdateTaskCompletion(ctx context.Context, id string, completed bool, at time.Time) error {
	if !completed {
		at = time.Time{}
	}
	res, err := r.q.ExecContext(ctx, `UPDATE plan_tasks SET completed = ?, completed_at = ? WHERE id = ?`,
		boolInt(completed), zeroableTime(at), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) UpdateTaskReminder(ctx context.Context, id string, enabled bool) error {
	res, err := r.q.ExecContext(ctx, `UPDATE plan_tasks SET reminder_enabled = ? WHERE id = ?`, boolInt(enabled), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ResetCompletions clears the current-cycle flags of a plan's tasks, or of
// every task when planID is empty. History rows are not touched.
func (r *SQLiteRepository) ResetCompletions(ctx context.Context, planID string) (int64, error) {
	query := `UPDATE plan_tasks SET completed = 0, completed_at = NULL WHERE completed = 1`
	args := make([]any, 0, 1)
	if planID != "" {
		query += ` AND plan_id = ?`
		args = append(args, planID)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

// zeroableTime stores the zero time as NULL.
func zeroableTime(v time.Time) any {
	if v.IsZero() {
		return nil
	}
	return mustTime(v)
}

func parseNullableTime(v sql.NullString) (time.Time, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(sqliteTimeLayout, v.String)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(s scanner) (model.Plan, error) {
	var out model.Plan
	var category, created, updated string
	if err := s.Scan(&out.ID, &out.Name, &category, &created, &updated); err != nil {
		return model.Plan{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Plan{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.Plan{}, err
	}
	out.Category = model.Category(category)
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanTask(s scanner) (model.PlanTask, error) {
	var out model.PlanTask
	var day, category string
	var completed, reminder int
	var completedAt sql.NullString
	if err := s.Scan(&out.ID, &out.PlanID, &day, &out.Name, &category, &out.Sets, &out.Reps, &out.Intensity, &out.StartTime,
		&out.DurationMinutes, &out.Notes, &completed, &reminder, &completedAt, &out.OrderIndex); err != nil {
		return model.PlanTask{}, err
	}
	at, err := parseNullableTime(completedAt)
	if err != nil {
		return model.PlanTask{}, err
	}
	out.Day = model.Weekday(day)
	out.Category = model.Category(category)
	out.Completed = completed == 1
	out.ReminderEnabled = reminder == 1
	out.CompletedAt = at
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
