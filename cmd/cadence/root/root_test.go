package root

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", db, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := run(t, db, args...)
	require.NoError(t, err, out)
	return out
}

func TestPlanTaskCompletionFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	out := mustRun(t, db, "plan", "add", "Push", "Day", "-c", "workout")
	assert.Contains(t, out, `"Push Day" (workout)`)

	out = mustRun(t, db, "task", "add", "Bench Press", "--plan", "push day", "--day", "mon",
		"--sets", "3", "--reps", "8", "--intensity", "40kg", "--start", "07:00")
	assert.Contains(t, out, `"Bench Press" on Monday at 07:00`)
	taskID := strings.Fields(out)[1]

	out = mustRun(t, db, "done", taskID, "--date", "2026-02-09")
	assert.Contains(t, out, `completed "Bench Press" on 2026-02-09`)
	assert.Contains(t, out, "logged Bench Press: 40.0 x 3 x 8")

	out = mustRun(t, db, "plan", "list")
	assert.Contains(t, out, "1/1 (100%)")

	out = mustRun(t, db, "task", "list", "--day", "Monday")
	assert.Contains(t, out, "[x] Mon 07:00 Bench Press")
	assert.Contains(t, out, "3x8 @ 40kg")

	out = mustRun(t, db, "suggest")
	assert.Contains(t, out, "Bench Press")

	out = mustRun(t, db, "reset-week")
	assert.Contains(t, out, "reset 1 task(s) in all plans")

	out = mustRun(t, db, "plan", "list")
	assert.Contains(t, out, "0/1 (0%)")
}

func TestTaskEditKeepsUnsetFields(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	mustRun(t, db, "plan", "add", "Home", "-c", "chores")
	out := mustRun(t, db, "task", "add", "Laundry", "-p", "Home", "--day", "Sat", "--start", "18:00", "--notes", "darks")
	taskID := strings.Fields(out)[1]

	mustRun(t, db, "task", "edit", taskID, "--name", "Laundry and ironing")
	mustRun(t, db, "task", "remind", taskID, "on")

	out = mustRun(t, db, "task", "list", "-p", "home")
	assert.Contains(t, out, "Sat 18:00 Laundry and ironing (remind)")

	out = mustRun(t, db, "task", "next", taskID, "-n", "2")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Sat"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "17:50"), lines[0])
}

func TestUnknownReferencesFail(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := run(t, db, "done", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = run(t, db, "task", "add", "x", "--plan", "nope", "--day", "Mon")
	require.Error(t, err)

	_, err = run(t, db, "task", "add", "x", "--plan", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--day is required")
}

func TestRenameAndDeletePlan(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	mustRun(t, db, "plan", "add", "Study")

	out := mustRun(t, db, "plan", "rename", "study", "Deep", "Work")
	assert.Contains(t, out, `renamed "Study" to "Deep Work"`)

	out = mustRun(t, db, "plan", "delete", "deep work")
	assert.Contains(t, out, `deleted plan "Deep Work"`)

	out = mustRun(t, db, "plan", "list")
	assert.Contains(t, out, "no plans yet")
}

func TestStatsForPlan(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	mustRun(t, db, "plan", "add", "Home", "-c", "chores")
	out := mustRun(t, db, "task", "add", "Dishes", "-p", "Home", "--day", "Mon")
	taskID := strings.Fields(out)[1]
	mustRun(t, db, "done", taskID)

	out = mustRun(t, db, "stats", "--plan", "home")
	assert.Contains(t, out, "Home ")
	assert.Contains(t, out, "1/1 (100%), streak 1")

	out = mustRun(t, db, "stats", "--markdown")
	assert.Contains(t, out, "# Week ")
	assert.Contains(t, out, "**1/1** (100%)")
}
