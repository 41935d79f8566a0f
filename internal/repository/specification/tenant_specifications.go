package specification

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantOwnedBy scopes every warehouse query to one tenant.
type TenantOwnedBy struct {
	TenantID uuid.UUID
}

func (s TenantOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", s.TenantID)
}

// ByStatus filters by one or more status values; empty means no filter.
type ByStatus struct {
	Statuses []string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Statuses) == 0 {
		return db
	}
	return db.Where("status IN ?", s.Statuses)
}

// ContainsAny is a case-insensitive substring match of any value against any
// column. LOWER(..) LIKE keeps it portable between postgres and sqlite.
type ContainsAny struct {
	Columns []string
	Values  []string
}

func Contains(value string, columns ...string) ContainsAny {
	return ContainsAny{Columns: columns, Values: []string{value}}
}

func (s ContainsAny) Apply(db *gorm.DB) *gorm.DB {
	var clauses []string
	var args []interface{}
	for _, v := range s.Values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		pattern := "%" + escapeLike(strings.ToLower(v)) + "%"
		for _, col := range s.Columns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", col))
			args = append(args, pattern)
		}
	}
	if len(clauses) == 0 {
		return db
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// CodeSearch matches a code column by text, or by digits once dashes are
// removed from the column, plus optional free-text columns.
type CodeSearch struct {
	CodeColumn  string
	TextColumns []string
	Text        string
	Digits      string
}

func (s CodeSearch) Apply(db *gorm.DB) *gorm.DB {
	var clauses []string
	var args []interface{}

	text := strings.TrimSpace(s.Text)
	if text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		for _, col := range append([]string{s.CodeColumn}, s.TextColumns...) {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", col))
			args = append(args, pattern)
		}
	}
	if s.Digits != "" {
		clauses = append(clauses, fmt.Sprintf("REPLACE(%s, '-', '') LIKE ?", s.CodeColumn))
		args = append(args, "%"+s.Digits+"%")
	}
	if len(clauses) == 0 {
		return db
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// CodeExact matches a code column exactly: the whole code, its dash-free
// form, or a trailing number after a dash. It never truncates an exact hit
// behind a page of partial ones.
type CodeExact struct {
	CodeColumn string
	Text       string
	Digits     string
}

func (s CodeExact) Apply(db *gorm.DB) *gorm.DB {
	clauses := []string{fmt.Sprintf("UPPER(%s) = ?", s.CodeColumn)}
	args := []interface{}{strings.ToUpper(strings.TrimSpace(s.Text))}
	if s.Digits != "" {
		clauses = append(clauses,
			fmt.Sprintf("REPLACE(%s, '-', '') = ?", s.CodeColumn),
			fmt.Sprintf("%s LIKE ?", s.CodeColumn),
		)
		args = append(args, s.Digits, "%-"+s.Digits)
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// EqualFold is a case-insensitive equality on one column.
type EqualFold struct {
	Column string
	Value  string
}

func (s EqualFold) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("LOWER(%s) = ?", s.Column), strings.ToLower(strings.TrimSpace(s.Value)))
}

// ByAccountID filters by account_id
type ByAccountID struct {
	AccountID uuid.UUID
}

func (s ByAccountID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("account_id = ?", s.AccountID)
}

// CreatedSince keeps rows created at or after the given time
type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}

// OnOrAfter keeps rows whose time column is at or after the given time
type OnOrAfter struct {
	Field string
	Time  time.Time
}

func (s OnOrAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("%s >= ?", s.Field), s.Time)
}

func escapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}
