package postgres

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/autobitstack/orchestrator-svc/internal/data"
	"github.com/fatih/structs"
	"gitlab.com/distributed_lab/kit/pgdb"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

const hubTable = "hub_entries"

type hubEntries struct {
	db *pgdb.DB
}

func NewHubEntries(db *pgdb.DB) data.HubEntries {
	return hubEntries{db: db}
}

func (q hubEntries) Insert(e data.HubEntry) error {
	stmt := squirrel.Insert(hubTable).SetMap(structs.Map(e)).
		Suffix("ON CONFLICT (order_id, product) DO NOTHING")
	err := q.db.Exec(stmt)
	return errors.Wrap(err, "failed to insert hub entry")
}

func (q hubEntries) JobID(orderID string) (*string, error) {
	var result struct {
		JobID string `db:"job_id"`
	}
	stmt := squirrel.Select("job_id").From(hubTable).Where(squirrel.Eq{"order_id": orderID})

	if err := q.db.Get(&result, stmt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to select hub entry")
	}

	return &result.JobID, nil
}
