package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	id   int
	code string
}

func codeOf(r row) string { return r.code }

func ids(rows []row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantCore   string
		wantPrefix string
		wantKind   string
	}{
		{name: "bare number", raw: "45678", wantText: "45678", wantCore: "45678"},
		{name: "prefixed code", raw: "shp-2024-45678", wantText: "SHP-2024-45678", wantCore: "202445678", wantPrefix: "SHP", wantKind: KindShipment},
		{name: "item prefix", raw: " ITM-10042 ", wantText: "ITM-10042", wantCore: "10042", wantPrefix: "ITM", wantKind: KindItem},
		{name: "free text", raw: "sofa", wantText: "SOFA", wantCore: ""},
		{name: "prefix without dash", raw: "stk00007", wantText: "STK00007", wantCore: "00007", wantPrefix: "STK", wantKind: KindStocktake},
		{name: "prefix word without number", raw: "stage", wantText: "STAGE", wantCore: "", wantPrefix: "ST"},
		{name: "letters after prefix", raw: "A-01", wantText: "A-01", wantCore: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.raw)
			assert.Equal(t, tt.wantText, q.Text)
			assert.Equal(t, tt.wantCore, q.Core)
			assert.Equal(t, tt.wantPrefix, q.Prefix)
			assert.Equal(t, tt.wantKind, q.Kind)
		})
	}
}

func TestQuery_Names(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind string
		want bool
	}{
		{name: "bare number names anything", raw: "10042", kind: KindShipment, want: true},
		{name: "own prefix", raw: "SHP-10042", kind: KindShipment, want: true},
		{name: "item code as shipment", raw: "ITM-10042", kind: KindShipment, want: false},
		{name: "shipment code as item", raw: "shp 2024-10042", kind: KindItem, want: false},
		{name: "free text names anything", raw: "stage", kind: KindItem, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.raw).Names(tt.kind))
		})
	}
}

func TestNumericCore(t *testing.T) {
	assert.Equal(t, "45678", NumericCore("SHP-2024-45678"))
	assert.Equal(t, "00012", NumericCore("TSK-00012"))
	assert.Equal(t, "", NumericCore("A-01-B"))
}

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		rows     []row
		query    string
		wantTier Tier
		wantIds  []int
	}{
		{
			name:     "exact numeric core wins over suffix",
			rows:     []row{{1, "SHP-2024-45678"}, {2, "SHP-2024-145678"}},
			query:    "45678",
			wantTier: TierExact,
			wantIds:  []int{1},
		},
		{
			name:     "substring tier keeps both",
			rows:     []row{{1, "SHP-2024-45678"}, {2, "SHP-2024-45679"}},
			query:    "4567",
			wantTier: TierSubstring,
			wantIds:  []int{1, 2},
		},
		{
			name:     "suffix tier",
			rows:     []row{{1, "ITM-10042"}, {2, "ITM-20042"}, {3, "ITM-00420"}},
			query:    "042",
			wantTier: TierSuffix,
			wantIds:  []int{1, 2},
		},
		{
			name:     "full code is exact and case insensitive",
			rows:     []row{{1, "TSK-00012"}, {2, "TSK-00112"}},
			query:    "tsk-00012",
			wantTier: TierExact,
			wantIds:  []int{1},
		},
		{
			name:     "prefix stripped query matches by all digits",
			rows:     []row{{1, "SHP-2024-45678"}},
			query:    "SHP202445678",
			wantTier: TierExact,
			wantIds:  []int{1},
		},
		{
			name:     "text location codes",
			rows:     []row{{1, "A-01-02"}, {2, "B-01-02"}},
			query:    "a-01",
			wantTier: TierSubstring,
			wantIds:  []int{1},
		},
		{
			name:     "no match",
			rows:     []row{{1, "ITM-1"}},
			query:    "999",
			wantTier: TierNone,
			wantIds:  []int{},
		},
		{
			name:     "stable order within tier",
			rows:     []row{{3, "ITM-7005"}, {1, "ITM-8005"}, {2, "ITM-9005"}},
			query:    "005",
			wantTier: TierSuffix,
			wantIds:  []int{3, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.rows, tt.query, codeOf)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantIds, ids(got.Rows))
		})
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "exact", TierExact.String())
	assert.Equal(t, "none", TierNone.String())
}
