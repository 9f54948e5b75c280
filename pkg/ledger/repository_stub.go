package ledger

import (
	"context"
	"sort"

	"github.com/finflow/finflow/internal/utils"
	"github.com/shopspring/decimal"
)

// RepositoryStub is an in-memory Repository with the same filtering and ordering rules as RepositoryImpl.
type RepositoryStub struct {
	nextId     int
	categories map[int]map[int]Category
	entries    map[int]map[int]Entry

	findEntriesErr error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		categories: map[int]map[int]Category{},
		entries:    map[int]map[int]Entry{},
	}
}

func (s *RepositoryStub) StoreCategory(ctx context.Context, userId int, category Category) (int, error) {
	s.nextId++
	category.Id = s.nextId
	if s.categories[userId] == nil {
		s.categories[userId] = map[int]Category{}
	}
	s.categories[userId][category.Id] = category
	return category.Id, nil
}

func (s *RepositoryStub) GetCategory(ctx context.Context, userId int, categoryId int) (Category, error) {
	category, ok := s.categories[userId][categoryId]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return category, nil
}

func (s *RepositoryStub) ListCategories(ctx context.Context, userId int) ([]Category, error) {
	categories := make([]Category, 0, len(s.categories[userId]))
	for _, category := range s.categories[userId] {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Kind != categories[j].Kind {
			return categories[i].Kind < categories[j].Kind
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (s *RepositoryStub) StoreEntry(ctx context.Context, userId int, entry Entry) (int, error) {
	category, err := s.GetCategory(ctx, userId, entry.CategoryId)
	if err != nil {
		return 0, err
	}
	s.nextId++
	entry.Id = s.nextId
	entry.Kind = category.Kind
	entry.Date = utils.DateOf(entry.Date)
	if s.entries[userId] == nil {
		s.entries[userId] = map[int]Entry{}
	}
	s.entries[userId][entry.Id] = entry
	return entry.Id, nil
}

func (s *RepositoryStub) GetEntry(ctx context.Context, userId int, entryId int) (Entry, error) {
	entry, ok := s.entries[userId][entryId]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (s *RepositoryStub) DeleteEntry(ctx context.Context, userId int, entryId int) (bool, error) {
	if _, ok := s.entries[userId][entryId]; !ok {
		return false, nil
	}
	delete(s.entries[userId], entryId)
	return true, nil
}

func (s *RepositoryStub) FindEntries(ctx context.Context, userId int, filter EntryFilter) ([]Entry, error) {
	if s.findEntriesErr != nil {
		return nil, s.findEntriesErr
	}
	entries := make([]Entry, 0)
	for _, entry := range s.entries[userId] {
		if filter.matches(entry) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Id < entries[j].Id
	})
	return entries, nil
}

func (s *RepositoryStub) SumByDate(ctx context.Context, userId int, filter EntryFilter) ([]DailyTotal, error) {
	entries, err := s.FindEntries(ctx, userId, filter)
	if err != nil {
		return nil, err
	}
	totals := make([]DailyTotal, 0)
	for _, entry := range entries {
		last := len(totals) - 1
		if last >= 0 && totals[last].Date.Equal(entry.Date) {
			totals[last].Total = totals[last].Total.Add(entry.Amount)
			continue
		}
		totals = append(totals, DailyTotal{Date: entry.Date, Total: entry.Amount})
	}
	return totals, nil
}

func (s *RepositoryStub) SumByCategory(ctx context.Context, userId int, filter EntryFilter) ([]CategoryTotal, error) {
	entries, err := s.FindEntries(ctx, userId, filter)
	if err != nil {
		return nil, err
	}
	sums := map[int]decimal.Decimal{}
	for _, entry := range entries {
		sums[entry.CategoryId] = sums[entry.CategoryId].Add(entry.Amount)
	}
	totals := make([]CategoryTotal, 0, len(sums))
	for categoryId, sum := range sums {
		totals = append(totals, CategoryTotal{Category: s.categories[userId][categoryId], Total: sum})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category.Name < totals[j].Category.Name })
	return totals, nil
}

// SetFindEntriesError makes every entry query, including the sums, fail with err.
func (s *RepositoryStub) SetFindEntriesError(err error) {
	s.findEntriesErr = err
}

func (s *RepositoryStub) Cleanup() {
	s.categories = map[int]map[int]Category{}
	s.entries = map[int]map[int]Entry{}
	s.findEntriesErr = nil
}

func (f EntryFilter) matches(entry Entry) bool {
	if f.Kind != nil && entry.Kind != *f.Kind {
		return false
	}
	if f.From != nil && entry.Date.Before(utils.DateOf(*f.From)) {
		return false
	}
	if f.To != nil && entry.Date.After(utils.DateOf(*f.To)) {
		return false
	}
	if f.Permanent != nil && entry.Permanent != *f.Permanent {
		return false
	}
	return true
}

var _ Repository = (*RepositoryStub)(nil)
var _ Repository = (*RepositoryImpl)(nil)
