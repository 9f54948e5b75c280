package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryKind string

const (
	Income   CategoryKind = "I"
	Expense  CategoryKind = "E"
	Transfer CategoryKind = "T"
)

func (k CategoryKind) IsValid() bool {
	switch k {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

type Category struct {
	Id    int
	Name  string
	Kind  CategoryKind
	Color string
	Icon  string
}

// Entry is a single recorded transaction. Amount is stored as a non-negative magnitude,
// the direction comes from the category kind.
type Entry struct {
	Id          int
	CategoryId  int
	Kind        CategoryKind
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	// Permanent marks a recurring template rather than a dated event.
	Permanent bool
}

// EntryFilter narrows FindEntries and SumByDate. Nil fields do not filter.
// From and To are inclusive calendar days.
type EntryFilter struct {
	Kind      *CategoryKind
	From      *time.Time
	To        *time.Time
	Permanent *bool
}

func (f EntryFilter) WithKind(kind CategoryKind) EntryFilter {
	f.Kind = &kind
	return f
}

func (f EntryFilter) Between(from, to time.Time) EntryFilter {
	f.From = &from
	f.To = &to
	return f
}

func (f EntryFilter) WithPermanent(permanent bool) EntryFilter {
	f.Permanent = &permanent
	return f
}

type DailyTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// History is the chart data of a date range: per-kind daily totals and per-category totals.
type History struct {
	From       time.Time
	To         time.Time
	Incomes    []DailyTotal
	Expenses   []DailyTotal
	Transfers  []DailyTotal
	Categories []CategoryTotal
}
