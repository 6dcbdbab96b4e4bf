package postgres

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/autobitstack/orchestrator-svc/internal/data"
	"github.com/fatih/structs"
	"gitlab.com/distributed_lab/kit/pgdb"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

const schedulesTable = "schedules"

type schedules struct {
	db *pgdb.DB
}

func NewSchedules(db *pgdb.DB) data.Schedules {
	return schedules{db: db}
}

func (q schedules) Insert(s data.Schedule) (bool, error) {
	var id int64
	stmt := squirrel.Insert(schedulesTable).SetMap(structs.Map(s)).
		Suffix("ON CONFLICT (queue, key) DO NOTHING RETURNING id")

	if err := q.db.Get(&id, stmt); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to insert schedule")
	}

	return true, nil
}

func (q schedules) Remove(queue, key string, intervalMS int64, occurrences sql.NullInt64) error {
	stmt := squirrel.Delete(schedulesTable).Where(squirrel.Eq{
		"queue":       queue,
		"key":         key,
		"interval_ms": intervalMS,
		"occurrences": nullableInt(occurrences),
	})
	err := q.db.Exec(stmt)
	return errors.Wrap(err, "failed to delete schedule")
}

func (q schedules) Due(queue string, now time.Time) ([]data.Schedule, error) {
	var result []data.Schedule
	stmt := squirrel.Select("*").From(schedulesTable).
		Where(squirrel.Eq{"queue": queue}).
		Where(squirrel.LtOrEq{"next_run_at": now}).
		OrderBy("next_run_at")

	err := q.db.Select(&result, stmt)
	return result, errors.Wrap(err, "failed to select due schedules")
}

func (q schedules) DeleteByID(id int64) error {
	err := q.db.Exec(squirrel.Delete(schedulesTable).Where(squirrel.Eq{"id": id}))
	return errors.Wrap(err, "failed to delete schedule by id")
}

func (q schedules) Fired(id int64, next time.Time, occurrences sql.NullInt64) error {
	stmt := squirrel.Update(schedulesTable).SetMap(map[string]interface{}{
		"next_run_at": next,
		"occurrences": nullableInt(occurrences),
		"attempts":    0,
		"last_error":  nil,
	}).Where(squirrel.Eq{"id": id})
	err := q.db.Exec(stmt)
	return errors.Wrap(err, "failed to update fired schedule")
}

func (q schedules) Failed(id int64, next time.Time, attempts int32, lastError string) error {
	stmt := squirrel.Update(schedulesTable).SetMap(map[string]interface{}{
		"next_run_at": next,
		"attempts":    attempts,
		"last_error":  lastError,
	}).Where(squirrel.Eq{"id": id})
	err := q.db.Exec(stmt)
	return errors.Wrap(err, "failed to update failed schedule")
}

// nullableInt keeps squirrel rendering IS NULL instead of = NULL
// when matching unbounded schedules.
func nullableInt(n sql.NullInt64) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Int64
}
