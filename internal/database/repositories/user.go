package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"taskboard/internal/database/models"
)

type UserRepository interface {
	Create(ctx context.Context, idb bun.IDB, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, idb bun.IDB, id int64, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, idb bun.IDB, id int64, hash string) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, idb bun.IDB, user *models.User) error {
	_, err := idb.NewInsert().
		Model(user).
		Returning("user_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *userRepository) getByID(ctx context.Context, idb bun.IDB, id int64) (*models.User, error) {
	user := new(models.User)
	err := idb.NewSelect().
		Model(user).
		Where("u.user_id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.email = ?", email).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.NewSelect().
		Model(&users).
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	return users, nil
}

// Update loads the user first and returns (nil, nil) when it does not exist.
// The password column is never touched here; UpdatePassword owns it.
func (r *userRepository) Update(ctx context.Context, idb bun.IDB, id int64, user *models.User) (*models.User, error) {
	existing, err := r.getByID(ctx, idb, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	_, err = idb.NewUpdate().
		Model(user).
		OmitZero().
		ExcludeColumn("user_id", "password", "created_at").
		Where("user_id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return r.getByID(ctx, idb, id)
}

func (r *userRepository) UpdatePassword(ctx context.Context, idb bun.IDB, id int64, hash string) error {
	res, err := idb.NewUpdate().
		Model((*models.User)(nil)).
		Set("password = ?", hash).
		Set("updated_at = ?", models.Now()).
		Where("user_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return int64(count), nil
}
