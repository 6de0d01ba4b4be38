package update

import (
	"bannerapi/internal/database/model"
	"bannerapi/internal/http-server/handler/banner"
	"bannerapi/internal/http-server/middleware/validator"
	httpModel "bannerapi/internal/http-server/model"
	"bannerapi/internal/service"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type BannerUpdater interface {
	Update(ctx context.Context, id int64, in service.UpdateInput) (*model.Banner, error)
}

func New(log *slog.Logger, bannerUpdater BannerUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Update.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := r.Context().Value(validator.BannerIDKey).(int64)
		if !ok {
			banner.RenderMissingRequest(w, r, log)
			return
		}
		req, ok := r.Context().Value(validator.BannerFormKey).(validator.BannerForm)
		if !ok {
			banner.RenderMissingRequest(w, r, log)
			return
		}

		log = log.With(slog.Int64("id", id))
		log.Info("updating banner")

		in := service.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Mistyped:    req.Mistyped,
		}
		if req.Image != nil {
			in.Image = &service.Image{Filename: req.Image.Filename, Data: req.Image.Data}
		}

		updated, err := bannerUpdater.Update(r.Context(), id, in)
		if err != nil {
			banner.RenderError(w, r, log, err)
			return
		}

		log.Info("banner updated")
		render.Status(r, http.StatusOK)
		render.JSON(w, r, httpModel.BannerDBtoBannerHTTP(*updated))
	}
}
