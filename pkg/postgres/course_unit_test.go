package postgres

import (
	"context"
	"os"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/spec-table/pkg/db"
)

func TestSelectCourseUnits_ByName(t *testing.T) {
	sql, args, err := selectCourseUnits().Where(sq.Eq{"name": []string{"A", "B"}}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT id, name, hours, objectives, capabilities, knowledge FROM course_unit")
	assert.Contains(t, sql, "name IN ($1,$2)")
	assert.Contains(t, sql, "ORDER BY position, name")
	assert.Equal(t, []interface{}{"A", "B"}, args)
}

func TestUpsertCourseUnits_Query(t *testing.T) {
	units := []db.CourseUnit{
		{Name: "A", Hours: 3, Objectives: "obj"},
		{ID: "6f1c1c9e-3f7a-4b55-9a39-3b2f0d8f6d11", Name: "B", Hours: 5},
	}

	sql, args, err := upsertCourseUnits(units).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO course_unit")
	assert.Contains(t, sql, "$14")
	assert.Contains(t, sql, "ON CONFLICT (name) DO UPDATE SET")
	require.Len(t, args, 14)

	// Generated id for the first unit, given id kept for the second
	_, err = uuid.Parse(args[0].(string))
	assert.NoError(t, err)
	assert.Equal(t, "A", args[1])
	assert.Equal(t, 3.0, args[2])
	assert.Equal(t, "obj", args[3])
	assert.Equal(t, 0, args[6])

	assert.Equal(t, "6f1c1c9e-3f7a-4b55-9a39-3b2f0d8f6d11", args[7])
	assert.Equal(t, 1, args[13])
}

func TestMigrationFiles(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_course_unit.sql"}, files)
}

// TestCatalog_Integration runs against a real database when SPEC_TABLE_TEST_DATABASE_URL is set
func TestCatalog_Integration(t *testing.T) {
	connString := os.Getenv("SPEC_TABLE_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("SPEC_TABLE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, connString)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.RunMigrations(ctx))
	// Running twice is a no-op
	require.NoError(t, database.RunMigrations(ctx))

	_, err = database.pool.Exec(ctx, `DELETE FROM course_unit`)
	require.NoError(t, err)

	written, err := database.UpsertCourseUnits(ctx, []db.CourseUnit{
		{Name: "Nutrition", Hours: 3},
		{Name: "Respiration", Hours: 5},
		{Name: "Circulation", Hours: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	units, err := database.ListCourseUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, "Nutrition", units[0].Name)
	assert.Equal(t, "Circulation", units[2].Name)

	// Upsert updates in place
	_, err = database.UpsertCourseUnits(ctx, []db.CourseUnit{{Name: "Nutrition", Hours: 4}})
	require.NoError(t, err)

	selected, err := database.GetCourseUnits(ctx, []string{"Nutrition", "Missing"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, 4.0, selected[0].Hours)
	assert.Equal(t, units[0].ID, selected[0].ID)
}
