package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"taskboard/internal/database/dto"
	"taskboard/internal/database/models"
)

type CardRepository interface {
	Create(ctx context.Context, idb bun.IDB, card *models.Card) error
	Search(ctx context.Context, userID int64, status string) ([]models.Card, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetByParameters(ctx context.Context, filters []FieldFilter) (*models.Card, error)
	Update(ctx context.Context, idb bun.IDB, id int64, card *models.Card) (*models.Card, error)
	Delete(ctx context.Context, idb bun.IDB, id int64) (*models.Card, error)
	DeleteAll(ctx context.Context, idb bun.IDB) error
	CountByStatus(ctx context.Context, userID int64) ([]dto.StatusCount, error)
}

type cardRepository struct {
	db *bun.DB
}

func NewCardRepository(db *bun.DB) CardRepository {
	return &cardRepository{db: db}
}

// withPublicUser narrows the eager-loaded owner to its public columns.
func withPublicUser(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Column("user_id", "name", "email")
}

func (r *cardRepository) Create(ctx context.Context, idb bun.IDB, card *models.Card) error {
	_, err := idb.NewInsert().
		Model(card).
		Returning("card_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error creating card: %w", err)
	}
	return nil
}

// Search returns every card matching the optional equality filters. A zero
// userID means no owner filter; an empty status or the StatusAll sentinel
// means no status filter. All matching rows are returned, owner included.
func (r *cardRepository) Search(ctx context.Context, userID int64, status string) ([]models.Card, error) {
	cards := make([]models.Card, 0)
	q := r.db.NewSelect().
		Model(&cards).
		Relation("UserCard", withPublicUser).
		Order("card_id ASC")
	if userID > 0 {
		q = q.Where("c.user_id = ?", userID)
	}
	if status != "" && status != models.StatusAll {
		q = q.Where("c.status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("error searching cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *cardRepository) getByID(ctx context.Context, idb bun.IDB, id int64) (*models.Card, error) {
	card := new(models.Card)
	err := idb.NewSelect().
		Model(card).
		Relation("UserCard", withPublicUser).
		Where("c.card_id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting card: %w", err)
	}
	return card, nil
}

// GetByParameters returns at most one card matching every given field/value
// pair.
func (r *cardRepository) GetByParameters(ctx context.Context, filters []FieldFilter) (*models.Card, error) {
	card := new(models.Card)
	q := r.db.NewSelect().
		Model(card).
		Relation("UserCard", withPublicUser).
		Limit(1)
	q = applyFilters(q, filters)
	err := q.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting card by parameters: %w", err)
	}
	return card, nil
}

// Update loads the card first and returns (nil, nil) when it does not exist.
// Zero-value fields are left untouched, so callers get partial-update
// semantics; UpdatedAt must be restamped by the caller.
func (r *cardRepository) Update(ctx context.Context, idb bun.IDB, id int64, card *models.Card) (*models.Card, error) {
	existing, err := r.getByID(ctx, idb, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	_, err = idb.NewUpdate().
		Model(card).
		OmitZero().
		ExcludeColumn("card_id", "created_at").
		Where("card_id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("error updating card: %w", err)
	}
	return r.getByID(ctx, idb, id)
}

// Delete loads the card first and returns (nil, nil) when it does not exist;
// otherwise it removes the row and returns the pre-deletion snapshot.
func (r *cardRepository) Delete(ctx context.Context, idb bun.IDB, id int64) (*models.Card, error) {
	existing, err := r.getByID(ctx, idb, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	_, err = idb.NewDelete().
		Model((*models.Card)(nil)).
		Where("card_id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("error deleting card: %w", err)
	}
	return existing, nil
}

func (r *cardRepository) DeleteAll(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewDelete().
		Model((*models.Card)(nil)).
		Where("TRUE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error deleting all cards: %w", err)
	}
	return nil
}

// CountByStatus groups cards by status, descending, optionally filtered by
// owner. Statuses with no rows are absent from the result.
func (r *cardRepository) CountByStatus(ctx context.Context, userID int64) ([]dto.StatusCount, error) {
	counts := make([]dto.StatusCount, 0)
	q := r.db.NewSelect().
		Model((*models.Card)(nil)).
		ColumnExpr("c.status AS status").
		ColumnExpr("COUNT(*) AS count").
		GroupExpr("c.status").
		OrderExpr("c.status DESC")
	if userID > 0 {
		q = q.Where("c.user_id = ?", userID)
	}
	if err := q.Scan(ctx, &counts); err != nil {
		return nil, fmt.Errorf("error counting cards: %w", err)
	}
	return counts, nil
}
