package delete

import (
	"bannerapi/internal/http-server/handler/banner"
	"bannerapi/internal/http-server/middleware/validator"
	"bannerapi/pkg/lib/api/response"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type BannerDeleter interface {
	Delete(ctx context.Context, id int64) error
}

func New(log *slog.Logger, bannerDeleter BannerDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Delete.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := r.Context().Value(validator.BannerIDKey).(int64)
		if !ok {
			banner.RenderMissingRequest(w, r, log)
			return
		}

		log = log.With(slog.Int64("id", id))
		log.Info("deleting banner")

		if err := bannerDeleter.Delete(r.Context(), id); err != nil {
			banner.RenderError(w, r, log, err)
			return
		}

		log.Info("banner deleted")
		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.Deleted())
	}
}
