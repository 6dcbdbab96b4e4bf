package postgres

import (
	"github.com/Masterminds/squirrel"
	"github.com/autobitstack/orchestrator-svc/internal/data"
	"github.com/fatih/structs"
	"gitlab.com/distributed_lab/kit/pgdb"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

const statusTable = "status_records"

type statusRecords struct {
	db *pgdb.DB
}

func NewStatusRecords(db *pgdb.DB) data.StatusRecords {
	return statusRecords{db: db}
}

func (q statusRecords) Insert(r data.StatusRecord) error {
	stmt := squirrel.Insert(statusTable).SetMap(structs.Map(r))
	err := q.db.Exec(stmt)
	return errors.Wrap(err, "failed to insert status record")
}
