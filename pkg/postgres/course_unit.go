package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/spec-table/pkg/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func selectCourseUnits() sq.SelectBuilder {
	return psql.
		Select("id", "name", "hours", "objectives", "capabilities", "knowledge").
		From("course_unit").
		OrderBy("position", "name")
}

// upsertCourseUnits builds one INSERT for all units. Existing rows keep their id
// and take the new hours, text fields and position.
func upsertCourseUnits(units []db.CourseUnit) sq.InsertBuilder {
	insert := psql.
		Insert("course_unit").
		Columns("id", "name", "hours", "objectives", "capabilities", "knowledge", "position")

	for i, unit := range units {
		id := unit.ID
		if id == "" {
			id = uuid.New().String()
		}
		insert = insert.Values(id, unit.Name, unit.Hours, unit.Objectives,
			unit.EvaluableCapabilities, unit.EvaluableKnowledge, i)
	}

	return insert.Suffix(`ON CONFLICT (name) DO UPDATE SET
		hours = EXCLUDED.hours,
		objectives = EXCLUDED.objectives,
		capabilities = EXCLUDED.capabilities,
		knowledge = EXCLUDED.knowledge,
		position = EXCLUDED.position,
		updated_at = NOW()`)
}

// ListCourseUnits retrieves every course unit in catalog order
func (d *DB) ListCourseUnits(ctx context.Context) ([]db.CourseUnit, error) {
	return d.queryCourseUnits(ctx, selectCourseUnits())
}

// GetCourseUnits retrieves the named course units in catalog order
func (d *DB) GetCourseUnits(ctx context.Context, names []string) ([]db.CourseUnit, error) {
	if len(names) == 0 {
		return []db.CourseUnit{}, nil
	}
	return d.queryCourseUnits(ctx, selectCourseUnits().Where(sq.Eq{"name": names}))
}

func (d *DB) queryCourseUnits(ctx context.Context, query sq.SelectBuilder) ([]db.CourseUnit, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course unit query: %w", err)
	}

	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query course units: %w", err)
	}
	defer rows.Close()

	units := []db.CourseUnit{}
	for rows.Next() {
		var u db.CourseUnit
		if err := rows.Scan(&u.ID, &u.Name, &u.Hours, &u.Objectives, &u.EvaluableCapabilities, &u.EvaluableKnowledge); err != nil {
			return nil, fmt.Errorf("failed to scan course unit: %w", err)
		}
		units = append(units, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course units: %w", err)
	}

	return units, nil
}

// UpsertCourseUnits inserts or updates the given units in one transaction and
// returns the number of rows written
func (d *DB) UpsertCourseUnits(ctx context.Context, units []db.CourseUnit) (int, error) {
	if len(units) == 0 {
		return 0, nil
	}
	if err := db.ValidateCourseUnits(units); err != nil {
		return 0, err
	}

	sql, args, err := upsertCourseUnits(units).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build course unit upsert: %w", err)
	}

	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert course units: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
