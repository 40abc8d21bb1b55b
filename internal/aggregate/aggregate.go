// Package aggregate computes summary views over a snapshot of ledger
// entries. Everything here is a pure function: totals are commutative sums,
// so results are independent of entry order and calling twice over an
// unchanged ledger yields identical values. An empty ledger is not an
// error, it is all-zero totals.
package aggregate

import (
	"sort"

	"finlog/internal/models"

	"github.com/shopspring/decimal"
)

// Summary holds the net view of a ledger: both totals are non-negative sums
// of Amount grouped by type, and NetBalance = TotalIncome - TotalExpense.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetBalance   decimal.Decimal
}

// CategoryTotal is one category's expense total within a month.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MonthGroup is the breakdown of a single UTC calendar month: per-category
// expense totals plus the month's income and expense sums.
type MonthGroup struct {
	Month        string // "2006-01"
	Income       decimal.Decimal
	Expense      decimal.Decimal
	ByCategory   []CategoryTotal
	EntriesCount int
}

// Summarize computes the totals view over the given entries.
func Summarize(entries []models.LedgerEntry) Summary {
	s := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, e := range entries {
		if e.IsIncome() {
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
		} else {
			s.TotalExpense = s.TotalExpense.Add(e.Amount)
		}
	}
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// BreakdownByMonth groups entries by UTC calendar month and, within each
// month, sums expenses per category. Uncategorized entries are included
// under their label, never dropped. Months are returned ascending and
// categories sorted by name, so equal entry sets always render identically
// regardless of input order.
func BreakdownByMonth(entries []models.LedgerEntry) []MonthGroup {
	type monthAcc struct {
		income  decimal.Decimal
		expense decimal.Decimal
		byCat   map[string]decimal.Decimal
		count   int
	}

	months := make(map[string]*monthAcc)
	for _, e := range entries {
		key := e.Month()
		acc, ok := months[key]
		if !ok {
			acc = &monthAcc{
				income:  decimal.Zero,
				expense: decimal.Zero,
				byCat:   make(map[string]decimal.Decimal),
			}
			months[key] = acc
		}
		acc.count++
		if e.IsIncome() {
			acc.income = acc.income.Add(e.Amount)
			continue
		}
		acc.expense = acc.expense.Add(e.Amount)
		total, ok := acc.byCat[e.Category]
		if !ok {
			total = decimal.Zero
		}
		acc.byCat[e.Category] = total.Add(e.Amount)
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]MonthGroup, 0, len(keys))
	for _, key := range keys {
		acc := months[key]
		group := MonthGroup{
			Month:        key,
			Income:       acc.income,
			Expense:      acc.expense,
			EntriesCount: acc.count,
		}
		for category, total := range acc.byCat {
			group.ByCategory = append(group.ByCategory, CategoryTotal{Category: category, Total: total})
		}
		sort.Slice(group.ByCategory, func(i, j int) bool {
			return group.ByCategory[i].Category < group.ByCategory[j].Category
		})
		groups = append(groups, group)
	}
	return groups
}
