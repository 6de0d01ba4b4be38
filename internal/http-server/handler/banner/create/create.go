package create

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

type BannerCreator interface {
	Create(ctx context.Context, in service.CreateInput) (*model.Banner, error)
}

func New(log *slog.Logger, bannerCreator BannerCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		log.Info("creating banner")

		req, ok := r.Context().Value(validator.BannerFormKey).(validator.BannerForm)
		if !ok {
			banner.RenderMissingRequest(w, r, log)
			return
		}

		in := service.CreateInput{Mistyped: req.Mistyped}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.Description != nil {
			in.Description = *req.Description
		}
		if req.Image != nil {
			in.Image = &service.Image{Filename: req.Image.Filename, Data: req.Image.Data}
		}

		created, err := bannerCreator.Create(r.Context(), in)
		if err != nil {
			banner.RenderError(w, r, log, err)
			return
		}

		log.Info("banner created", slog.Int64("id", created.ID))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, httpModel.BannerDBtoBannerHTTP(*created))
	}
}
