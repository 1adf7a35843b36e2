package persistence

import (
	"testing"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestValidateSortOrder(t *testing.T) {
	tests := map[string]string{
		"":                          "DESC",
		"asc":                       "ASC",
		"  ASC ":                    "ASC",
		"desc":                      "DESC",
		"ascending":                 "DESC",
		"ASC; DELETE FROM products": "DESC",
	}
	for input, want := range tests {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "date"},
		{"quantity", "quantity"},
		{" reason ", "reason"},
		{"QUANTITY", "date"},
		{"stock_after", "date"},
		{"quantity desc, (select 1)", "date"},
		{"date'--", "date"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateSortField(tt.input, MovementSortFields, "date"), "input %q", tt.input)
	}
}

func TestSortFieldsAreColumns(t *testing.T) {
	lists := map[string]map[string]bool{
		"accounts":        AccountSortFields,
		"transactions":    TransactionSortFields,
		"products":        ProductSortFields,
		"movements":       MovementSortFields,
		"customers":       CustomerSortFields,
		"suppliers":       SupplierSortFields,
		"orders":          OrderSortFields,
		"invoices":        InvoiceSortFields,
		"purchase_orders": PurchaseOrderSortFields,
	}
	for name, fields := range lists {
		assert.True(t, fields["id"], "%s must allow the tie breaker", name)
		assert.True(t, fields["created_at"], "%s must allow created_at", name)
		for field := range fields {
			assert.Regexp(t, `^[a-z_]+$`, field, "%s lists a field that is not a plain column", name)
		}
	}
}

type pagedRow struct {
	ID   int `gorm:"primaryKey"`
	Name string
	Date time.Time
}

func seedPagedRows(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, db.AutoMigrate(&pagedRow{}))
	rows := []pagedRow{
		{ID: 1, Name: "Cemento Sol", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Fierro 1/2", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "cemento andino", Date: time.Date(2024, 6, 11, 16, 30, 0, 0, time.UTC)},
		{ID: 4, Name: "Clavos 3", Date: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, db.Create(&rows).Error)
	return db
}

func pagedIDs(t *testing.T, query *gorm.DB) []int {
	t.Helper()
	var rows []pagedRow
	require.NoError(t, query.Find(&rows).Error)
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestApplyOrderAndPage(t *testing.T) {
	db := seedPagedRows(t)
	allowed := map[string]bool{"id": true, "date": true, "name": true}

	t.Run("ties on the sort field are broken by id", func(t *testing.T) {
		query := applyOrderAndPage(db.Model(&pagedRow{}), shared.Filter{OrderBy: "date", OrderDir: "asc"}, allowed, "date")
		assert.Equal(t, []int{1, 2, 3, 4}, pagedIDs(t, query))

		query = applyOrderAndPage(db.Model(&pagedRow{}), shared.Filter{OrderBy: "date", OrderDir: "desc"}, allowed, "date")
		assert.Equal(t, []int{4, 3, 2, 1}, pagedIDs(t, query))
	})

	t.Run("unknown field falls back to the default", func(t *testing.T) {
		query := applyOrderAndPage(db.Model(&pagedRow{}), shared.Filter{OrderBy: "price", OrderDir: "asc"}, allowed, "id")
		assert.Equal(t, []int{1, 2, 3, 4}, pagedIDs(t, query))
	})

	t.Run("pages do not overlap", func(t *testing.T) {
		filter := shared.Filter{Page: 1, PageSize: 3, OrderBy: "id", OrderDir: "asc"}
		first := pagedIDs(t, applyOrderAndPage(db.Model(&pagedRow{}), filter, allowed, "id"))
		filter.Page = 2
		second := pagedIDs(t, applyOrderAndPage(db.Model(&pagedRow{}), filter, allowed, "id"))

		assert.Equal(t, []int{1, 2, 3}, first)
		assert.Equal(t, []int{4}, second)
	})

	t.Run("zero page size returns everything", func(t *testing.T) {
		query := applyOrderAndPage(db.Model(&pagedRow{}), shared.Filter{OrderBy: "id", OrderDir: "asc"}, allowed, "id")
		assert.Len(t, pagedIDs(t, query), 4)
	})
}

func TestApplyDateRange(t *testing.T) {
	db := seedPagedRows(t)
	day := func(d int) *time.Time {
		v := time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	ids := func(filter shared.Filter) []int {
		query := applyDateRange(db.Model(&pagedRow{}), filter, "date").Order("id")
		return pagedIDs(t, query)
	}

	assert.Equal(t, []int{1, 2, 3, 4}, ids(shared.Filter{}))
	assert.Equal(t, []int{3, 4}, ids(shared.Filter{DateFrom: day(11)}))
	assert.Equal(t, []int{1, 2, 3}, ids(shared.Filter{DateTo: day(11)}), "a midnight upper bound covers the whole day")
	assert.Equal(t, []int{3}, ids(shared.Filter{DateFrom: day(11), DateTo: day(11)}))

	noon := time.Date(2024, 6, 11, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{1, 2}, ids(shared.Filter{DateTo: &noon}), "a bound with a time of day is exact")
}

func TestSearchPattern(t *testing.T) {
	db := seedPagedRows(t)

	assert.Equal(t, "%cemento%", searchPattern("  Cemento "))

	var rows []pagedRow
	require.NoError(t, db.Where("LOWER(name) LIKE ?", searchPattern("CEMENTO")).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, 3, rows[1].ID)
}
