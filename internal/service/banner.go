package service

import (
	storage "bannerapi/internal/database"
	"bannerapi/internal/database/model"
	"bannerapi/internal/database/repository"
	"bannerapi/internal/imagestage"
	"bannerapi/pkg/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

const DefaultMaxImageSize = 2048 * 1024

// BannerService validates banner input and coordinates the image stage with
// the record store.
type BannerService struct {
	log          *slog.Logger
	repo         repository.BannerRepository
	stager       imagestage.Stager
	validate     *validator.Validate
	maxImageSize int64
}

func NewBannerService(log *slog.Logger, repo repository.BannerRepository, stager imagestage.Stager, maxImageSize int64) *BannerService {
	if maxImageSize <= 0 {
		maxImageSize = DefaultMaxImageSize
	}

	return &BannerService{
		log:          log.With(slog.String("component", "service.banner")),
		repo:         repo,
		stager:       stager,
		validate:     newValidator(),
		maxImageSize: maxImageSize,
	}
}

func (s *BannerService) List(ctx context.Context) ([]model.Banner, error) {
	const op = "service.BannerService.List"

	banners, err := s.repo.All(ctx)
	if err != nil {
		return nil, storeError(op, err)
	}

	return banners, nil
}

func (s *BannerService) Get(ctx context.Context, id int64) (*model.Banner, error) {
	const op = "service.BannerService.Get"

	banner, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, storeError(op, err)
	}

	return banner, nil
}

// Create stages the image first and only then writes the row, so a failed
// upload never leaves a banner pointing at a missing file.
func (s *BannerService) Create(ctx context.Context, in CreateInput) (*model.Banner, error) {
	const op = "service.BannerService.Create"

	verr := s.validateFields(in)
	checkTypes(in.Mistyped, verr)
	ext := s.checkImage(in.Image, true, verr)
	if !verr.empty() {
		return nil, fmt.Errorf("%s: %w", op, verr)
	}

	ref, err := s.stager.Stage(ctx, in.Image.Data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStagingFailed, err)
	}

	banner := &model.Banner{
		Name:        in.Name,
		Image:       ref,
		Description: in.Description,
	}

	if _, err := s.repo.Insert(ctx, banner); err != nil {
		s.discard(ctx, ref)
		return nil, storeError(op, err)
	}

	s.log.Info("banner created", slog.Int64("id", banner.ID), slog.String("image", ref))

	return banner, nil
}

// Update changes only the fields present in the input. A replaced image is
// left where it was.
func (s *BannerService) Update(ctx context.Context, id int64, in UpdateInput) (*model.Banner, error) {
	const op = "service.BannerService.Update"

	verr := s.validateFields(in)
	checkTypes(in.Mistyped, verr)
	ext := s.checkImage(in.Image, false, verr)
	if !verr.empty() {
		return nil, fmt.Errorf("%s: %w", op, verr)
	}

	if _, err := s.repo.Find(ctx, id); err != nil {
		return nil, storeError(op, err)
	}

	patch := model.BannerPatch{
		Name:        in.Name,
		Description: in.Description,
	}

	if in.Image != nil {
		ref, err := s.stager.Stage(ctx, in.Image.Data, ext)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrStagingFailed, err)
		}
		patch.Image = &ref
	}

	banner, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if patch.Image != nil {
			s.discard(ctx, *patch.Image)
		}
		return nil, storeError(op, err)
	}

	s.log.Info("banner updated", slog.Int64("id", id))

	return banner, nil
}

func (s *BannerService) Delete(ctx context.Context, id int64) error {
	const op = "service.BannerService.Delete"

	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(op, err)
	}

	s.log.Info("banner deleted", slog.Int64("id", id))

	return nil
}

// discard drops an image staged for a write that did not commit.
func (s *BannerService) discard(ctx context.Context, ref string) {
	if err := s.stager.Discard(context.WithoutCancel(ctx), ref); err != nil {
		s.log.Warn("failed to discard staged image", slog.String("image", ref), sl.Err(err))
	}
}

func storeError(op string, err error) error {
	if errors.Is(err, storage.ErrBannerNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
