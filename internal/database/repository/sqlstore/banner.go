package sqlstore

import (
	storage "bannerapi/internal/database"
	"bannerapi/internal/database/model"
	"database/sql"
	"errors"
	"time"

	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const bannerColumns = "id, name, image, description, created_at, updated_at"

// BannerRepository persists banners through sqlx. Queries are written with
// '?' placeholders and rebound for the driver the *sqlx.DB was opened with,
// so the same repository runs against postgres and sqlite.
type BannerRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewBannerRepository(db *sqlx.DB) *BannerRepository {
	return &BannerRepository{
		db: db,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

func (b *BannerRepository) Insert(ctx context.Context, banner *model.Banner) (int64, error) {
	const op = "repository.sqlstore.Insert"

	now := b.now()

	var id int64
	err := b.db.QueryRowxContext(ctx,
		b.db.Rebind("INSERT INTO banners (name, image, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		banner.Name, banner.Image, banner.Description, now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	banner.ID = id
	banner.CreatedAt = now
	banner.UpdatedAt = now

	return id, nil
}

func (b *BannerRepository) Find(ctx context.Context, id int64) (*model.Banner, error) {
	const op = "repository.sqlstore.Find"

	var banner model.Banner
	err := b.db.GetContext(ctx, &banner,
		b.db.Rebind("SELECT "+bannerColumns+" FROM banners WHERE id = ?"), id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrBannerNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &banner, nil
}

func (b *BannerRepository) Update(ctx context.Context, id int64, patch model.BannerPatch) (*model.Banner, error) {
	const op = "repository.sqlstore.Update"

	res, err := b.db.ExecContext(ctx,
		b.db.Rebind(`
		UPDATE banners SET
			name = COALESCE(?, name),
			image = COALESCE(?, image),
			description = COALESCE(?, description),
			updated_at = ?
		WHERE id = ?
		`),
		patch.Name, patch.Image, patch.Description, b.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrBannerNotFound)
	}

	banner, err := b.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return banner, nil
}

func (b *BannerRepository) Delete(ctx context.Context, id int64) error {
	const op = "repository.sqlstore.Delete"

	res, err := b.db.ExecContext(ctx, b.db.Rebind("DELETE FROM banners WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affectedRows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affectedRows == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrBannerNotFound)
	}

	return nil
}

func (b *BannerRepository) All(ctx context.Context) ([]model.Banner, error) {
	const op = "repository.sqlstore.All"

	rows, err := b.db.QueryxContext(ctx, "SELECT "+bannerColumns+" FROM banners ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	banners := make([]model.Banner, 0)
	for rows.Next() {
		var banner model.Banner
		if err := rows.StructScan(&banner); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		banners = append(banners, banner)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return banners, nil
}
