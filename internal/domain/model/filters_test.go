package model_test

import (
	"testing"

	"github.com/architeacher/device-admin/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestEncodeFilters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		filters  []model.Filter
		expected string
	}{
		{
			name:     "nil filters encode as empty array",
			filters:  nil,
			expected: `[]`,
		},
		{
			name: "filter type is encoded by name",
			filters: []model.Filter{
				{ColumnName: "Status", FilterType: model.FilterTypeEQ, FilterValue: "Running"},
			},
			expected: `[{"columnName":"Status","filterType":"EQ","filterValue":"Running"}]`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			blob, err := model.EncodeFilters(tc.filters)
			require.NoError(t, err)
			require.JSONEq(t, tc.expected, blob)
		})
	}
}

func TestDecodeFilters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		blob        string
		expected    []model.Filter
		expectError bool
	}{
		{
			name:     "empty blob",
			blob:     "",
			expected: []model.Filter{},
		},
		{
			name:     "null blob",
			blob:     "null",
			expected: []model.Filter{},
		},
		{
			name: "two filters keep their order",
			blob: `[{"columnName":"Status","filterType":"EQ","filterValue":"Running"},{"columnName":"FirmwareVersion","filterType":"GE","filterValue":"1.2"}]`,
			expected: []model.Filter{
				{ColumnName: "Status", FilterType: model.FilterTypeEQ, FilterValue: "Running"},
				{ColumnName: "FirmwareVersion", FilterType: model.FilterTypeGE, FilterValue: "1.2"},
			},
		},
		{
			name:        "truncated json",
			blob:        `[{"columnName":"Status"`,
			expected:    []model.Filter{},
			expectError: true,
		},
		{
			name:        "object instead of array",
			blob:        `{"columnName":"Status"}`,
			expected:    []model.Filter{},
			expectError: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			filters, err := model.DecodeFilters(tc.blob)
			if tc.expectError {
				require.ErrorIs(t, err, model.ErrMalformedFilters)
			} else {
				require.NoError(t, err)
			}

			require.Equal(t, tc.expected, filters)
		})
	}
}
