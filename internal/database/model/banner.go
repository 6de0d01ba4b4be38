package model

import (
	"time"
)

type Banner struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Image       string    `db:"image"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// BannerPatch carries the columns an update may change; nil leaves a column as is.
type BannerPatch struct {
	Name        *string
	Image       *string
	Description *string
}
