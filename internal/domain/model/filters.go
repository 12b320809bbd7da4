package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type FilterType string

const (
	FilterTypeEQ FilterType = "EQ"
	FilterTypeNE FilterType = "NE"
	FilterTypeLT FilterType = "LT"
	FilterTypeGT FilterType = "GT"
	FilterTypeLE FilterType = "LE"
	FilterTypeGE FilterType = "GE"
	FilterTypeIN FilterType = "IN"
)

// Filter is a single column/operator/value condition of a device list query.
type Filter struct {
	ColumnName  string     `json:"columnName"`
	FilterType  FilterType `json:"filterType"`
	FilterValue string     `json:"filterValue"`
}

// EncodeFilters serializes filters into the text blob stored alongside a query.
// A nil slice is stored as an empty JSON array.
func EncodeFilters(filters []Filter) (string, error) {
	if filters == nil {
		filters = []Filter{}
	}

	data, err := json.Marshal(filters)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedFilters, err)
	}

	return string(data), nil
}

// DecodeFilters parses a stored filters blob. Blank and null blobs yield an
// empty slice; anything else that is not a JSON array of filters is an error
// wrapping ErrMalformedFilters.
func DecodeFilters(blob string) ([]Filter, error) {
	trimmed := strings.TrimSpace(blob)
	if trimmed == "" || trimmed == "null" {
		return []Filter{}, nil
	}

	var filters []Filter
	if err := json.Unmarshal([]byte(trimmed), &filters); err != nil {
		return []Filter{}, fmt.Errorf("%w: %v", ErrMalformedFilters, err)
	}

	if filters == nil {
		filters = []Filter{}
	}

	return filters, nil
}
