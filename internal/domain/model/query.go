package model

import (
	"strings"
	"time"
)

type SortOrder int

const (
	SortOrderDescending SortOrder = iota
	SortOrderAscending
)

func (o SortOrder) String() string {
	if o == SortOrderAscending {
		return "Ascending"
	}

	return "Descending"
}

// ParseSortOrder is case-insensitive and falls back to descending for
// anything it does not recognise.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending", "asc":
		return SortOrderAscending
	default:
		return SortOrderDescending
	}
}

// DeviceListQuery is a named, saved device list query. Name is unique across
// the store and doubles as the storage row key.
type DeviceListQuery struct {
	Name       string
	Filters    []Filter
	SQL        string
	IsAdvanced bool
	SortColumn string
	SortOrder  SortOrder
	Timestamp  time.Time
}

func NewDeviceListQuery(name string, filters ...Filter) *DeviceListQuery {
	if filters == nil {
		filters = []Filter{}
	}

	return &DeviceListQuery{
		Name:      name,
		Filters:   filters,
		SortOrder: SortOrderDescending,
	}
}

func (q *DeviceListQuery) Validate() error {
	errs := NewValidationErrors()

	if strings.TrimSpace(q.Name) == "" {
		errs.Add("name", "query name must not be empty", "required")
	}

	if q.IsAdvanced && strings.TrimSpace(q.SQL) == "" {
		errs.Add("sql", "advanced queries require sql text", "required")
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}
