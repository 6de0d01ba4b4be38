package get

import (
	"bannerapi/internal/database/model"
	"bannerapi/internal/http-server/handler/banner"
	"bannerapi/internal/http-server/middleware/validator"
	httpModel "bannerapi/internal/http-server/model"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type BannerGetter interface {
	Get(ctx context.Context, id int64) (*model.Banner, error)
}

func New(log *slog.Logger, bannerGetter BannerGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := r.Context().Value(validator.BannerIDKey).(int64)
		if !ok {
			banner.RenderMissingRequest(w, r, log)
			return
		}

		found, err := bannerGetter.Get(r.Context(), id)
		if err != nil {
			banner.RenderError(w, r, log.With(slog.Int64("id", id)), err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, httpModel.BannerDBtoBannerHTTP(*found))
	}
}
