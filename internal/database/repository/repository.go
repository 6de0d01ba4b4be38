package repository

import (
	"bannerapi/internal/database/model"
	"context"
)

type BannerRepository interface {
	Insert(ctx context.Context, banner *model.Banner) (int64, error)
	Find(ctx context.Context, id int64) (*model.Banner, error)
	Update(ctx context.Context, id int64, patch model.BannerPatch) (*model.Banner, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]model.Banner, error)
}
