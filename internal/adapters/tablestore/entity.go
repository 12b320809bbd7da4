package tablestore

import "time"

type Status int

const (
	StatusSuccessful Status = iota + 1
	StatusConflict
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusSuccessful:
		return "successful"
	case StatusConflict:
		return "conflict"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type (
	// Entity is one row of the query table. PartitionKey and RowKey form the
	// primary key; ETag and Timestamp are assigned by the store on every write.
	Entity struct {
		PartitionKey string    `db:"partition_key"`
		RowKey       string    `db:"row_key"`
		ETag         string    `db:"etag"`
		Timestamp    time.Time `db:"updated_at"`
		Name         string    `db:"name"`
		Filters      string    `db:"filters"`
		SortColumn   string    `db:"sort_column"`
		SortOrder    string    `db:"sort_order"`
		SQL          string    `db:"sql_text"`
		IsAdvanced   bool      `db:"is_advanced"`
	}

	// Query selects every entity of a partition, optionally narrowed to an
	// exact row key.
	Query struct {
		PartitionKey string
		rowKey       *string
	}

	// Response carries the outcome of a write. ETag is set when the write succeeded.
	Response struct {
		Status Status
		ETag   string
	}
)

func NewQuery(partitionKey string) Query {
	return Query{PartitionKey: partitionKey}
}

func (q Query) WhereRowKey(rowKey string) Query {
	q.rowKey = &rowKey

	return q
}

func (q Query) RowKey() (string, bool) {
	if q.rowKey == nil {
		return "", false
	}

	return *q.rowKey, true
}

func (r Response) IsSuccessful() bool {
	return r.Status == StatusSuccessful
}
