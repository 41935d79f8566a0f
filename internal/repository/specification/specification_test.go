package specification_test

import (
	"testing"

	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/pkg/testdb"
	"wms-ops-agent/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func itemCodes(t *testing.T, db *gorm.DB, specs ...specification.Specification) []string {
	t.Helper()
	query := db.Model(&model.Item{})
	for _, s := range specs {
		query = s.Apply(query)
	}
	var codes []string
	require.NoError(t, query.Pluck("item_code", &codes).Error)
	return codes
}

func TestSpecifications(t *testing.T) {
	db := testdb.New(t)
	fx := testdb.NewFixture(t, db)
	fx.Item("ITM-24567", func(i *model.Item) { i.Description = "Walnut sideboard" })
	fx.Item("ITM-34567", func(i *model.Item) { i.Status = "allocated" })
	fx.Item("ITM-10_01", func(i *model.Item) { i.Description = "100% wool rug" })
	testdb.NewFixture(t, db).Item("ITM-24567")

	tenant := specification.TenantOwnedBy{TenantID: fx.TenantId}
	byCode := specification.OrderBy{Field: "item_code"}

	tests := []struct {
		name  string
		specs []specification.Specification
		want  []string
	}{
		{"tenant only", []specification.Specification{tenant, byCode},
			[]string{"ITM-10_01", "ITM-24567", "ITM-34567"}},
		{"status", []specification.Specification{tenant, specification.ByStatus{Statuses: []string{"allocated"}}},
			[]string{"ITM-34567"}},
		{"empty status list is no filter", []specification.Specification{tenant, specification.ByStatus{}, byCode},
			[]string{"ITM-10_01", "ITM-24567", "ITM-34567"}},
		{"code digits ignore dashes", []specification.Specification{tenant, specification.CodeSearch{CodeColumn: "item_code", Digits: "4567"}, byCode},
			[]string{"ITM-24567", "ITM-34567"}},
		{"code text columns", []specification.Specification{tenant, specification.CodeSearch{CodeColumn: "item_code", TextColumns: []string{"description"}, Text: "WALNUT"}},
			[]string{"ITM-24567"}},
		{"code exact text", []specification.Specification{tenant, specification.CodeExact{CodeColumn: "item_code", Text: " itm-24567"}},
			[]string{"ITM-24567"}},
		{"code exact trailing number", []specification.Specification{tenant, specification.CodeExact{CodeColumn: "item_code", Text: "24567", Digits: "24567"}},
			[]string{"ITM-24567"}},
		{"code exact ignores partial numbers", []specification.Specification{tenant, specification.CodeExact{CodeColumn: "item_code", Text: "4567", Digits: "4567"}},
			nil},
		{"like wildcards are literal", []specification.Specification{tenant, specification.Contains("10_", "item_code")},
			[]string{"ITM-10_01"}},
		{"percent is literal", []specification.Specification{tenant, specification.Contains("100%", "description")},
			[]string{"ITM-10_01"}},
		{"equal fold", []specification.Specification{tenant, specification.EqualFold{Column: "item_code", Value: " itm-34567 "}},
			[]string{"ITM-34567"}},
		{"desc order and limit", []specification.Specification{tenant, specification.OrderBy{Field: "item_code", Desc: true}, specification.Limit{N: 1}},
			[]string{"ITM-34567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemCodes(t, db, tt.specs...)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
