package router

import (
	"bannerapi/internal/http-server/handler/banner/create"
	bannerDelete "bannerapi/internal/http-server/handler/banner/delete"
	"bannerapi/internal/http-server/handler/banner/get"
	"bannerapi/internal/http-server/handler/banner/list"
	"bannerapi/internal/http-server/handler/banner/update"
	"bannerapi/internal/http-server/middleware/logger"
	"bannerapi/internal/http-server/middleware/validator"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type BannerService interface {
	list.BannerLister
	get.BannerGetter
	create.BannerCreator
	update.BannerUpdater
	bannerDelete.BannerDeleter
}

type Options struct {
	// MaxBodySize caps every create and update body. Zero disables the cap.
	MaxBodySize int64
	// PublicPath and PublicDir serve staged images from disk when both are set.
	PublicPath string
	PublicDir  string
	// Metrics is mounted at /metrics when not nil.
	Metrics http.Handler
}

func New(log *slog.Logger, bannerService BannerService, opts Options) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.New(log))

	form := validator.Form(log, opts.MaxBodySize)

	router.Route("/banners", func(r chi.Router) {
		r.Get("/", list.New(log, bannerService))
		r.With(form).Post("/", create.New(log, bannerService))

		r.Route("/{id}", func(r chi.Router) {
			r.Use(validator.ID(log))
			r.Get("/", get.New(log, bannerService))
			r.With(form).Put("/", update.New(log, bannerService))
			r.With(form).Patch("/", update.New(log, bannerService))
			r.Delete("/", bannerDelete.New(log, bannerService))
		})
	})

	if opts.PublicPath != "" && opts.PublicDir != "" {
		prefix := "/" + strings.Trim(opts.PublicPath, "/")
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(opts.PublicDir)))
		router.Get(prefix+"/*", fs.ServeHTTP)
	}

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	return router
}
