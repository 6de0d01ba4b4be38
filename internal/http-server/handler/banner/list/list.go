package list

import (
	"bannerapi/internal/database/model"
	"bannerapi/internal/http-server/handler/banner"
	httpModel "bannerapi/internal/http-server/model"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type BannerLister interface {
	List(ctx context.Context) ([]model.Banner, error)
}

func New(log *slog.Logger, bannerLister BannerLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.List.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		banners, err := bannerLister.List(r.Context())
		if err != nil {
			banner.RenderError(w, r, log, err)
			return
		}

		log.Debug("banners listed", slog.Int("count", len(banners)))
		render.Status(r, http.StatusOK)
		render.JSON(w, r, httpModel.BannersDBtoBannersHTTP(banners))
	}
}
