package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sandeepkv93/cadence/internal/model"
)

func (r *SQLiteRepository) InsertCompletion(ctx context.Context, in model.CompletionRecord) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO completion_records (task_id, date, completed, completed_at, plan_name, task_name, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.TaskID, in.Date, boolInt(in.Completed), mustTime(in.CompletedAt), in.PlanName, in.TaskName, string(in.Category),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteCompletion removes the row for (taskID, date) if one exists. A missing
// row is not an error.
func (r *SQLiteRepository) DeleteCompletion(ctx context.Context, taskID, date string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM completion_records WHERE task_id = ? AND date = ?`, taskID, date)
	return err
}

func (r *SQLiteRepository) ListCompletions(ctx context.Context, filter CompletionFilter) ([]model.CompletionRecord, error) {
	where, args := completionWhere(filter)
	query := `SELECT id, task_id, date, completed, completed_at, plan_name, task_name, category
		FROM completion_records` + where + ` ORDER BY date ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CompletionRecord, 0)
	for rows.Next() {
		rec, scanErr := scanCompletion(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountCompletions(ctx context.Context, filter CompletionFilter) (CompletionCount, error) {
	where, args := completionWhere(filter)
	var out CompletionCount
	var completed sql.NullInt64
	row := r.q.QueryRowContext(ctx, `SELECT COUNT(*), SUM(completed) FROM completion_records`+where, args...)
	if err := row.Scan(&out.Total, &completed); err != nil {
		return CompletionCount{}, err
	}
	out.Completed = int(completed.Int64)
	return out, nil
}

// CompletedDates lists the distinct days in [start, end] having at least one
// completed row, newest first.
func (r *SQLiteRepository) CompletedDates(ctx context.Context, start, end string) ([]string, error) {
	where, args := completionWhere(CompletionFilter{Start: start, End: end})
	if where == "" {
		where = " WHERE completed = 1"
	} else {
		where += " AND completed = 1"
	}
	rows, err := r.q.QueryContext(ctx, `SELECT DISTINCT date FROM completion_records`+where+` ORDER BY date DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InsertSample(ctx context.Context, in model.WorkoutSample) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO workout_samples (task_id, date, exercise_name, weight, sets, reps, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.TaskID, in.Date, in.ExerciseName, in.Weight, in.Sets, in.Reps, in.Notes,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListSamples(ctx context.Context, filter SampleFilter) ([]model.WorkoutSample, error) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if filter.ExerciseName != "" {
		clauses = append(clauses, "exercise_name = ?")
		args = append(args, filter.ExerciseName)
	}
	if filter.Start != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, filter.Start)
	}
	if filter.End != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, filter.End)
	}
	query := `SELECT id, task_id, date, exercise_name, weight, sets, reps, notes FROM workout_samples`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY date ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.WorkoutSample, 0)
	for rows.Next() {
		var s model.WorkoutSample
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Date, &s.ExerciseName, &s.Weight, &s.Sets, &s.Reps, &s.Notes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListExerciseNames(ctx context.Context) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT DISTINCT exercise_name FROM workout_samples ORDER BY exercise_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func completionWhere(filter CompletionFilter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if filter.PlanName != "" {
		clauses = append(clauses, "plan_name = ?")
		args = append(args, filter.PlanName)
	}
	if filter.Start != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, filter.Start)
	}
	if filter.End != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, filter.End)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanCompletion(s scanner) (model.CompletionRecord, error) {
	var out model.CompletionRecord
	var completed int
	var at, category string
	if err := s.Scan(&out.ID, &out.TaskID, &out.Date, &completed, &at, &out.PlanName, &out.TaskName, &category); err != nil {
		return model.CompletionRecord{}, err
	}
	completedAt, err := parseRequiredTime(at)
	if err != nil {
		return model.CompletionRecord{}, err
	}
	out.Completed = completed == 1
	out.CompletedAt = completedAt
	out.Category = model.Category(category)
	return out, nil
}
