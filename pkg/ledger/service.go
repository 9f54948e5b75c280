package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finflow/finflow/internal/utils"
	"github.com/finflow/finflow/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidEntry = errors.New("invalid entry")
var ErrInvalidCategory = errors.New("invalid category")
var ErrInvalidRange = errors.New("invalid date range")

type Service interface {
	CreateCategory(ctx context.Context, category Category) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	RecordEntry(ctx context.Context, entry Entry) (Entry, error)
	GetEntry(ctx context.Context, entryId int) (Entry, error)
	DeleteEntry(ctx context.Context, entryId int) (bool, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]Entry, error)
	GetHistory(ctx context.Context, from, to time.Time) (History, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) CreateCategory(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if category.Name == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	if !category.Kind.IsValid() {
		return Category{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidCategory, category.Kind)
	}
	id, err := s.repo.StoreCategory(ctx, userId, category)
	if err != nil {
		return Category{}, err
	}
	category.Id = id
	return category, nil
}

func (s *ServiceImpl) ListCategories(ctx context.Context) ([]Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListCategories(ctx, userId)
}

// RecordEntry stores a new entry. A missing date means today in the user's timezone.
func (s *ServiceImpl) RecordEntry(ctx context.Context, entry Entry) (Entry, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if entry.Amount.IsNegative() {
		return Entry{}, fmt.Errorf("%w: amount must not be negative", ErrInvalidEntry)
	}
	category, err := s.repo.GetCategory(ctx, currentUser.Id, entry.CategoryId)
	if err != nil {
		return Entry{}, err
	}
	if entry.Date.IsZero() {
		entry.Date = utils.Today(s.clock, currentUser.Settings.Location())
	} else {
		entry.Date = utils.DateOf(entry.Date)
	}
	entry.Kind = category.Kind

	id, err := s.repo.StoreEntry(ctx, currentUser.Id, entry)
	if err != nil {
		return Entry{}, err
	}
	entry.Id = id
	log.Debugf("recorded %s entry %d of %s on %s", entry.Kind, entry.Id, entry.Amount, entry.Date.Format(time.DateOnly))
	return entry, nil
}

func (s *ServiceImpl) GetEntry(ctx context.Context, entryId int) (Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetEntry(ctx, userId, entryId)
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, entryId int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.DeleteEntry(ctx, userId, entryId)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("entry not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", entryId, userId)
	}
	return deleted, nil
}

func (s *ServiceImpl) ListEntries(ctx context.Context, filter EntryFilter) ([]Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindEntries(ctx, userId, filter)
}

// GetHistory collects chart data for [from, to]. Permanent entries are left out.
func (s *ServiceImpl) GetHistory(ctx context.Context, from, to time.Time) (History, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return History{}, fmt.Errorf("failed to get current user: %w", err)
	}
	from, to = utils.DateOf(from), utils.DateOf(to)
	if to.Before(from) {
		return History{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange,
			to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	filter := EntryFilter{}.Between(from, to).WithPermanent(false)
	history := History{From: from, To: to}
	for _, target := range []struct {
		kind   CategoryKind
		totals *[]DailyTotal
	}{
		{Income, &history.Incomes},
		{Expense, &history.Expenses},
		{Transfer, &history.Transfers},
	} {
		totals, err := s.repo.SumByDate(ctx, userId, filter.WithKind(target.kind))
		if err != nil {
			return History{}, err
		}
		*target.totals = totals
	}

	history.Categories, err = s.repo.SumByCategory(ctx, userId, filter)
	if err != nil {
		return History{}, err
	}
	return history, nil
}
