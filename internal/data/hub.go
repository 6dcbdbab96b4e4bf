package data

import "time"

type HubEntries interface {
	// Insert is a no-op when an entry for (order_id, product) already exists.
	Insert(HubEntry) error
	JobID(orderID string) (*string, error)
}

type StatusRecords interface {
	Insert(StatusRecord) error
}

// HubEntry maps an order to its schedule key. Written once at order
// creation, never mutated; only consulted for external order_id lookups.
type HubEntry struct {
	ID        int64     `structs:"-" db:"id"`
	OrderID   string    `structs:"order_id" db:"order_id"`
	JobID     string    `structs:"job_id" db:"job_id"`
	Owner     string    `structs:"owner" db:"owner"`
	Product   string    `structs:"product" db:"product"`
	CreatedAt time.Time `structs:"-" db:"created_at"`
}

// StatusRecord is one row of the append-only execution audit trail.
type StatusRecord struct {
	ID         int64     `structs:"-" db:"id"`
	OrderID    string    `structs:"order_id" db:"order_id"`
	ChannelID  string    `structs:"channel_id" db:"channel_id"`
	InsertedAt time.Time `structs:"-" db:"inserted_at"`
}
