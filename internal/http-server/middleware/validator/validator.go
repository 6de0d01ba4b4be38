package validator

import (
	"bannerapi/pkg/lib/api/response"
	"bannerapi/pkg/lib/sl"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Key string

const (
	BannerIDKey   = Key("banner id")
	BannerFormKey = Key("banner form")
)

const multipartMemory = 32 << 20

var errUnsupportedMediaType = errors.New("unsupported media type")

// Upload is a file part taken from a multipart body.
type Upload struct {
	Filename string
	Data     []byte
}

// BannerForm carries the banner fields a client sent, trimmed of surrounding
// whitespace. A nil field was not present in the request. Mistyped lists the
// JSON fields that held something other than a string.
type BannerForm struct {
	Name        *string
	Description *string
	Image       *Upload
	Mistyped    []string
}

// ID parses the {id} route parameter. Anything that is not a positive
// integer cannot name a banner, so it is answered with 404.
func ID(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		const op = "http-server.middleware.validator.ID"

		log := log.With(
			slog.String("op", op),
		)

		fn := func(w http.ResponseWriter, r *http.Request) {
			param := chi.URLParam(r, "id")
			id, err := strconv.ParseInt(param, 10, 64)
			if err != nil || id <= 0 {
				log.Info("invalid banner id",
					slog.String("id", param),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ErrBannerNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), BannerIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// Form decodes a banner body sent as multipart/form-data, urlencoded form or
// JSON. Only multipart bodies can carry an image.
func Form(log *slog.Logger, maxBodySize int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		const op = "http-server.middleware.validator.Form"

		log := log.With(
			slog.String("op", op),
		)

		fn := func(w http.ResponseWriter, r *http.Request) {
			log := log.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if maxBodySize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			}

			form, err := decodeForm(r)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					log.Info("request body too large", slog.Int64("limit", tooLarge.Limit))
					render.Status(r, http.StatusRequestEntityTooLarge)
					render.JSON(w, r, response.ErrBodyTooLarge)
					return
				}
				log.Info("failed to decode request body", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), BannerFormKey, form)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func decodeForm(r *http.Request) (BannerForm, error) {
	var form BannerForm

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return form, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return form, err
	}

	switch mediaType {
	case "multipart/form-data":
		return decodeMultipart(r)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return form, err
		}
		form.Name = formValue(r.PostForm["name"])
		form.Description = formValue(r.PostForm["description"])
		return form, nil
	case "application/json":
		return decodeJSON(r)
	default:
		return form, fmt.Errorf("%w: %s", errUnsupportedMediaType, mediaType)
	}
}

func decodeMultipart(r *http.Request) (BannerForm, error) {
	var form BannerForm

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return form, err
	}
	defer r.MultipartForm.RemoveAll()

	form.Name = formValue(r.MultipartForm.Value["name"])
	form.Description = formValue(r.MultipartForm.Value["description"])

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		// a plain text part is not a file
		if v := formValue(r.MultipartForm.Value["image"]); v != nil && *v != "" {
			form.Image = &Upload{}
		}
		return form, nil
	}

	f, err := files[0].Open()
	if err != nil {
		return form, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return form, err
	}

	form.Image = &Upload{
		Filename: files[0].Filename,
		Data:     data,
	}

	return form, nil
}

func decodeJSON(r *http.Request) (BannerForm, error) {
	var (
		form BannerForm
		raw  map[string]json.RawMessage
	)

	if err := render.DecodeJSON(r.Body, &raw); err != nil {
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		return form, err
	}

	fields := []struct {
		name string
		dst  **string
	}{
		{"name", &form.Name},
		{"description", &form.Description},
	}
	for _, f := range fields {
		value, ok := raw[f.name]
		if !ok || string(value) == "null" {
			continue
		}

		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			form.Mistyped = append(form.Mistyped, f.name)
			continue
		}
		str = strings.TrimSpace(str)
		*f.dst = &str
	}

	return form, nil
}

func formValue(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}
