// Package match ranks candidate rows against a human-typed partial code.
//
// Rows fall into exact, suffix or substring tiers and only the best
// non-empty tier is returned, so a caller never sees weaker matches next to
// stronger ones. Order inside a tier is the input order.
package match

import (
	"strings"
	"unicode"
)

type Tier int

const (
	TierNone Tier = iota
	TierSubstring
	TierSuffix
	TierExact
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSuffix:
		return "suffix"
	case TierSubstring:
		return "substring"
	default:
		return "none"
	}
}

// Query is a normalised partial code.
type Query struct {
	Raw    string
	Text   string // upper-cased, trimmed
	Core   string // digits of a letter-free remainder after the prefix; "" otherwise
	Prefix string // known prefix the query started with, without the dash
	Kind   string // entity kind the prefix names when a number follows it; "" otherwise
}

// Prefixes are the code prefixes users type in front of numbers.
var Prefixes = []string{"ITEM-", "ITM-", "SHIP-", "SHP-", "TASK-", "TSK-", "STK-", "ST-", "CLM-", "CLAIM-"}

// Entity kinds a code prefix can name.
const (
	KindItem      = "item"
	KindShipment  = "shipment"
	KindTask      = "task"
	KindStocktake = "stocktake"
	KindClaim     = "claim"
)

var prefixKinds = map[string]string{
	"ITEM":  KindItem,
	"ITM":   KindItem,
	"SHIP":  KindShipment,
	"SHP":   KindShipment,
	"TASK":  KindTask,
	"TSK":   KindTask,
	"STK":   KindStocktake,
	"ST":    KindStocktake,
	"CLM":   KindClaim,
	"CLAIM": KindClaim,
}

func ParseQuery(raw string) Query {
	text := strings.ToUpper(strings.TrimSpace(raw))
	prefix, stripped := stripPrefix(text)

	core := ""
	if !strings.ContainsFunc(stripped, unicode.IsLetter) {
		core = digits(stripped)
	}
	kind := ""
	if core != "" {
		kind = prefixKinds[prefix]
	}
	return Query{Raw: raw, Text: text, Core: core, Prefix: prefix, Kind: kind}
}

// Names reports whether the query can refer to the given kind. A query
// whose prefix names another kind never does.
func (q Query) Names(kind string) bool {
	return q.Kind == "" || q.Kind == kind
}

func stripPrefix(text string) (string, string) {
	for _, p := range Prefixes {
		bare := strings.TrimSuffix(p, "-")
		if strings.HasPrefix(text, p) {
			return bare, strings.TrimPrefix(text, p)
		}
		if strings.HasPrefix(text, bare) {
			return bare, strings.TrimPrefix(text, bare)
		}
	}
	return "", text
}

// HasDigits reports whether the query carries a numeric core to rank on.
func (q Query) HasDigits() bool {
	return q.Core != ""
}

// NumericCore is the trailing digit run of a code: SHP-2024-45678 -> 45678.
func NumericCore(code string) string {
	end := len(code)
	start := end
	for start > 0 && code[start-1] >= '0' && code[start-1] <= '9' {
		start--
	}
	return code[start:end]
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Classify places one code into a tier for the query.
func Classify(code string, q Query) Tier {
	if q.Text == "" {
		return TierNone
	}
	upper := strings.ToUpper(strings.TrimSpace(code))
	core := NumericCore(upper)
	all := digits(upper)

	if upper == q.Text {
		return TierExact
	}
	if q.Core != "" && (q.Core == core || q.Core == all) {
		return TierExact
	}

	if strings.HasSuffix(upper, q.Text) {
		return TierSuffix
	}
	if q.Core != "" && (strings.HasSuffix(core, q.Core) || strings.HasSuffix(all, q.Core)) {
		return TierSuffix
	}

	if strings.Contains(upper, q.Text) {
		return TierSubstring
	}
	if q.Core != "" && strings.Contains(all, q.Core) {
		return TierSubstring
	}
	return TierNone
}

// Ranked is the surviving tier of a ranking.
type Ranked[T any] struct {
	Tier Tier
	Rows []T
}

// Rank partitions rows by tier and keeps only the highest non-empty one.
func Rank[T any](rows []T, raw string, codeOf func(T) string) Ranked[T] {
	q := ParseQuery(raw)
	var exact, suffix, substring []T
	for _, row := range rows {
		switch Classify(codeOf(row), q) {
		case TierExact:
			exact = append(exact, row)
		case TierSuffix:
			suffix = append(suffix, row)
		case TierSubstring:
			substring = append(substring, row)
		}
	}

	switch {
	case len(exact) > 0:
		return Ranked[T]{Tier: TierExact, Rows: exact}
	case len(suffix) > 0:
		return Ranked[T]{Tier: TierSuffix, Rows: suffix}
	case len(substring) > 0:
		return Ranked[T]{Tier: TierSubstring, Rows: substring}
	}
	return Ranked[T]{Tier: TierNone, Rows: []T{}}
}
