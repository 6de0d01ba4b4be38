package model

import (
	"bannerapi/internal/database/model"
	"time"
)

type Banner struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func BannerDBtoBannerHTTP(banner model.Banner) Banner {
	return Banner{
		ID:          banner.ID,
		Name:        banner.Name,
		Image:       banner.Image,
		Description: banner.Description,
		CreatedAt:   banner.CreatedAt,
		UpdatedAt:   banner.UpdatedAt,
	}
}

func BannersDBtoBannersHTTP(banners []model.Banner) []Banner {
	out := make([]Banner, 0, len(banners))
	for _, banner := range banners {
		out = append(out, BannerDBtoBannerHTTP(banner))
	}
	return out
}
