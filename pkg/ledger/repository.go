package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrCategoryNotFound = errors.New("category not found")
var ErrEntryNotFound = errors.New("entry not found")

type Repository interface {
	StoreCategory(ctx context.Context, userId int, category Category) (int, error)
	GetCategory(ctx context.Context, userId int, categoryId int) (Category, error)
	ListCategories(ctx context.Context, userId int) ([]Category, error)
	StoreEntry(ctx context.Context, userId int, entry Entry) (int, error)
	GetEntry(ctx context.Context, userId int, entryId int) (Entry, error)
	DeleteEntry(ctx context.Context, userId int, entryId int) (bool, error)
	// FindEntries returns the user's entries matching filter, ordered by date.
	FindEntries(ctx context.Context, userId int, filter EntryFilter) ([]Entry, error)
	// SumByDate returns one total per date that has matching entries, ordered by date.
	SumByDate(ctx context.Context, userId int, filter EntryFilter) ([]DailyTotal, error)
	SumByCategory(ctx context.Context, userId int, filter EntryFilter) ([]CategoryTotal, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreCategory(ctx context.Context, userId int, category Category) (int, error) {
	query := `INSERT INTO category (user_id, name, kind, color, icon) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, userId, category.Name, string(category.Kind), category.Color, category.Icon).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store category: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetCategory(ctx context.Context, userId int, categoryId int) (Category, error) {
	query := `SELECT id, name, kind, color, icon FROM category WHERE id = $1 AND user_id = $2`
	var category Category
	var kind string
	err := r.db.QueryRow(ctx, query, categoryId, userId).
		Scan(&category.Id, &category.Name, &kind, &category.Color, &category.Icon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		err := fmt.Errorf("could not get category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	category.Kind = CategoryKind(kind)
	return category, nil
}

func (r *RepositoryImpl) ListCategories(ctx context.Context, userId int) ([]Category, error) {
	query := `SELECT id, name, kind, color, icon FROM category WHERE user_id = $1 ORDER BY kind, name`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var category Category
		var kind string
		if err := rows.Scan(&category.Id, &category.Name, &kind, &category.Color, &category.Icon); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		category.Kind = CategoryKind(kind)
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func (r *RepositoryImpl) StoreEntry(ctx context.Context, userId int, entry Entry) (int, error) {
	query := `INSERT INTO ledger_entry (
                    user_id,
                    category_id,
                    entry_date,
                    amount,
                    description,
                    permanent
				) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		entry.CategoryId,
		entry.Date,
		entry.Amount,
		entry.Description,
		entry.Permanent,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store entry: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetEntry(ctx context.Context, userId int, entryId int) (Entry, error) {
	query := `SELECT e.id, e.category_id, c.kind, e.entry_date, e.amount, e.description, e.permanent
			  FROM ledger_entry e JOIN category c ON c.id = e.category_id
			  WHERE e.id = $1 AND e.user_id = $2`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryId, userId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		err := fmt.Errorf("could not get entry: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) DeleteEntry(ctx context.Context, userId int, entryId int) (bool, error) {
	result, err := r.db.Exec(ctx, "DELETE FROM ledger_entry WHERE id = $1 AND user_id = $2", entryId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete entry: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) FindEntries(ctx context.Context, userId int, filter EntryFilter) ([]Entry, error) {
	where, args := filter.sqlConditions(userId)
	query := `SELECT e.id, e.category_id, c.kind, e.entry_date, e.amount, e.description, e.permanent
			  FROM ledger_entry e JOIN category c ON c.id = e.category_id
			  WHERE ` + where + ` ORDER BY e.entry_date, e.id`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}

func (r *RepositoryImpl) SumByDate(ctx context.Context, userId int, filter EntryFilter) ([]DailyTotal, error) {
	where, args := filter.sqlConditions(userId)
	query := `SELECT e.entry_date, SUM(e.amount)
			  FROM ledger_entry e JOIN category c ON c.id = e.category_id
			  WHERE ` + where + ` GROUP BY e.entry_date ORDER BY e.entry_date`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not sum entries by date: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	totals := make([]DailyTotal, 0)
	for rows.Next() {
		var total DailyTotal
		if err := rows.Scan(&total.Date, &total.Total); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return totals, nil
}

func (r *RepositoryImpl) SumByCategory(ctx context.Context, userId int, filter EntryFilter) ([]CategoryTotal, error) {
	where, args := filter.sqlConditions(userId)
	query := `SELECT c.id, c.name, c.kind, c.color, c.icon, SUM(e.amount)
			  FROM ledger_entry e JOIN category c ON c.id = e.category_id
			  WHERE ` + where + ` GROUP BY c.id, c.name, c.kind, c.color, c.icon ORDER BY c.name`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not sum entries by category: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	totals := make([]CategoryTotal, 0)
	for rows.Next() {
		var total CategoryTotal
		var kind string
		var sum decimal.Decimal
		err := rows.Scan(
			&total.Category.Id,
			&total.Category.Name,
			&kind,
			&total.Category.Color,
			&total.Category.Icon,
			&sum,
		)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		total.Category.Kind = CategoryKind(kind)
		total.Total = sum
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return totals, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var entry Entry
	var kind string
	err := row.Scan(
		&entry.Id,
		&entry.CategoryId,
		&kind,
		&entry.Date,
		&entry.Amount,
		&entry.Description,
		&entry.Permanent,
	)
	if err != nil {
		return Entry{}, err
	}
	entry.Kind = CategoryKind(kind)
	return entry, nil
}

// sqlConditions renders the filter as a WHERE clause over ledger_entry e joined with category c.
func (f EntryFilter) sqlConditions(userId int) (string, []any) {
	conditions := []string{"e.user_id = $1"}
	args := []any{userId}
	if f.Kind != nil {
		args = append(args, string(*f.Kind))
		conditions = append(conditions, fmt.Sprintf("c.kind = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conditions = append(conditions, fmt.Sprintf("e.entry_date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conditions = append(conditions, fmt.Sprintf("e.entry_date <= $%d", len(args)))
	}
	if f.Permanent != nil {
		args = append(args, *f.Permanent)
		conditions = append(conditions, fmt.Sprintf("e.permanent = $%d", len(args)))
	}
	return strings.Join(conditions, " AND "), args
}
