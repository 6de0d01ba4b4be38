package banner

import (
	storage "bannerapi/internal/database"
	"bannerapi/internal/service"
	"bannerapi/pkg/lib/api/response"
	"bannerapi/pkg/lib/sl"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// RenderError maps a service error onto its HTTP status and body.
func RenderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("validation failed", slog.Any("fields", verr.Fields))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verr.Fields))
	case errors.Is(err, storage.ErrBannerNotFound):
		log.Info("banner not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.ErrBannerNotFound)
	default:
		log.Error("internal error", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ErrServerInternal)
	}
}

func RenderMissingRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	log.Error("failed convert to request")
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.ErrServerInternal)
}
