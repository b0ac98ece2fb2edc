// File: internal/data/filters_test.go
package data

import (
	"testing"

	"contactsapi/internal/validator"

	"github.com/stretchr/testify/assert"
)

func TestValidateFilters(t *testing.T) {
	safelist := []string{"id", "-id", "first_name"}

	tests := []struct {
		name   string
		filter Filter
		valid  bool
	}{
		{"Valid filter", Filter{Page: 1, PageSize: 20, SortBy: "id", SortSafeList: safelist}, true},
		{"Descending sort", Filter{Page: 2, PageSize: 50, SortBy: "-id", SortSafeList: safelist}, true},
		{"Zero page", Filter{Page: 0, PageSize: 20, SortBy: "id", SortSafeList: safelist}, false},
		{"Page too large", Filter{Page: 501, PageSize: 20, SortBy: "id", SortSafeList: safelist}, false},
		{"Page size too large", Filter{Page: 1, PageSize: 101, SortBy: "id", SortSafeList: safelist}, false},
		{"Unsafe sort", Filter{Page: 1, PageSize: 20, SortBy: "password_hash", SortSafeList: safelist}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(v, tt.filter)
			assert.Equal(t, tt.valid, v.IsValid(), "errors: %v", v.Errors)
		})
	}
}

func TestFilterLimitOffset(t *testing.T) {
	f := Filter{Page: 3, PageSize: 25}
	assert.Equal(t, int64(25), f.Limit())
	assert.Equal(t, int64(50), f.Offset())
}

func TestFilterSortColumnAndDirection(t *testing.T) {
	safelist := []string{"id", "-id", "birthday"}

	f := Filter{SortBy: "-id", SortSafeList: safelist}
	assert.Equal(t, "id", f.SortColumn())
	assert.Equal(t, "DESC", f.SortDirection())

	f = Filter{SortBy: "birthday", SortSafeList: safelist}
	assert.Equal(t, "birthday", f.SortColumn())
	assert.Equal(t, "ASC", f.SortDirection())
}

func TestFilterSortColumnPanicsOnUnsafeValue(t *testing.T) {
	f := Filter{SortBy: "password_hash", SortSafeList: []string{"id"}}
	assert.Panics(t, func() { f.SortColumn() })
}

func TestCalculateMetaData(t *testing.T) {
	metadata := CalculateMetaData(95, 2, 20)
	assert.Equal(t, int64(2), metadata.CurrentPage)
	assert.Equal(t, int64(20), metadata.PageSize)
	assert.Equal(t, int64(1), metadata.FirstPage)
	assert.Equal(t, int64(5), metadata.LastPage)
	assert.Equal(t, int64(95), metadata.TotalRecords)

	assert.Equal(t, MetaData{}, CalculateMetaData(0, 1, 20))
}
