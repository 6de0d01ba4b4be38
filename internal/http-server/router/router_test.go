package router_test

import (
	storage "bannerapi/internal/database"
	"bannerapi/internal/database/model"
	"bannerapi/internal/http-server/router"
	"bannerapi/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBannerService struct {
	mock.Mock
}

func (m *MockBannerService) List(ctx context.Context) ([]model.Banner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Banner), args.Error(1)
}

func (m *MockBannerService) Get(ctx context.Context, id int64) (*model.Banner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Banner), args.Error(1)
}

func (m *MockBannerService) Create(ctx context.Context, in service.CreateInput) (*model.Banner, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Banner), args.Error(1)
}

func (m *MockBannerService) Update(ctx context.Context, id int64, in service.UpdateInput) (*model.Banner, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Banner), args.Error(1)
}

func (m *MockBannerService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testBanner(id int64) *model.Banner {
	return &model.Banner{
		ID:          id,
		Name:        "Spring sale",
		Image:       "abc.png",
		Description: "Everything half off",
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func newTestRouter(svc router.BannerService, maxBodySize int64) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return router.New(log, svc, router.Options{MaxBodySize: maxBodySize})
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestListBanners(t *testing.T) {
	tests := []struct {
		name         string
		banners      []model.Banner
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "empty list",
			banners:      []model.Banner{},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "one banner",
			banners:      []model.Banner{*testBanner(1)},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"name":"Spring sale","image":"abc.png","description":"Everything half off",
				"created_at":"2024-05-01T12:00:00Z","updated_at":"2024-05-01T12:00:00Z"}]`,
		},
		{
			name:         "store failure",
			err:          errors.New("connection refused"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBannerService)
			if tt.err != nil {
				svc.On("List", mock.Anything).Return(nil, tt.err)
			} else {
				svc.On("List", mock.Anything).Return(tt.banners, nil)
			}

			rr := do(t, newTestRouter(svc, 0), http.MethodGet, "/banners", nil, "")

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestGetBanner(t *testing.T) {
	svc := new(MockBannerService)
	svc.On("Get", mock.Anything, int64(7)).Return(testBanner(7), nil)
	svc.On("Get", mock.Anything, int64(8)).Return(nil, storage.ErrBannerNotFound)
	h := newTestRouter(svc, 0)

	rr := do(t, h, http.MethodGet, "/banners/7", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(7), decodeBody(t, rr)["id"])

	rr = do(t, h, http.MethodGet, "/banners/8", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Banner not found"}`, rr.Body.String())

	svc.AssertExpectations(t)
}

func TestInvalidIDIsNotFound(t *testing.T) {
	svc := new(MockBannerService)
	h := newTestRouter(svc, 0)

	for _, target := range []string{"/banners/abc", "/banners/0", "/banners/-3", "/banners/1.5"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			rr := do(t, h, method, target, strings.NewReader(`{}`), "application/json")
			assert.Equal(t, http.StatusNotFound, rr.Code, "%s %s", method, target)
		}
	}

	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateBannerMultipart(t *testing.T) {
	imageData := []byte("\x89PNG\r\n\x1a\nfake")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Spring sale"))
	require.NoError(t, mw.WriteField("description", "Everything half off"))
	part, err := mw.CreateFormFile("image", "banner.png")
	require.NoError(t, err)
	_, err = part.Write(imageData)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	svc := new(MockBannerService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateInput) bool {
		return in.Name == "Spring sale" &&
			in.Description == "Everything half off" &&
			in.Image != nil &&
			in.Image.Filename == "banner.png" &&
			bytes.Equal(in.Image.Data, imageData)
	})).Return(testBanner(1), nil)

	rr := do(t, newTestRouter(svc, 0), http.MethodPost, "/banners", &buf, mw.FormDataContentType())

	assert.Equal(t, http.StatusCreated, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "abc.png", body["image"])
	svc.AssertExpectations(t)
}

func TestCreateBannerJSONCarriesNoImage(t *testing.T) {
	svc := new(MockBannerService)
	verr := &service.ValidationError{Fields: map[string][]string{
		"image": {"The image field is required."},
	}}
	svc.On("Create", mock.Anything, service.CreateInput{
		Name:        "Spring sale",
		Description: "Everything half off",
	}).Return(nil, verr)

	rr := do(t, newTestRouter(svc, 0), http.MethodPost, "/banners",
		strings.NewReader(`{"name":"Spring sale","description":"Everything half off","image":"x.png"}`),
		"application/json",
	)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t,
		`{"message":"The given data was invalid.","errors":{"image":["The image field is required."]}}`,
		rr.Body.String(),
	)
	svc.AssertExpectations(t)
}

func TestCreateBannerBadBodies(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		contentType  string
		expectedCode int
	}{
		{
			name:         "malformed json",
			body:         `{"name":`,
			contentType:  "application/json",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unsupported media type",
			body:         `name=x`,
			contentType:  "text/plain",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "body over limit",
			body:         `{"name":"` + strings.Repeat("a", 200) + `"}`,
			contentType:  "application/json",
			expectedCode: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBannerService)

			rr := do(t, newTestRouter(svc, 64), http.MethodPost, "/banners", strings.NewReader(tt.body), tt.contentType)

			assert.Equal(t, tt.expectedCode, rr.Code)
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateBannerPartial(t *testing.T) {
	name := "Summer sale"

	svc := new(MockBannerService)
	svc.On("Update", mock.Anything, int64(4), service.UpdateInput{Name: &name}).Return(testBanner(4), nil)
	h := newTestRouter(svc, 0)

	rr := do(t, h, http.MethodPut, "/banners/4", strings.NewReader(`{"name":"Summer sale"}`), "application/json")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodPatch, "/banners/4", strings.NewReader(`name=Summer+sale`), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusOK, rr.Code)

	svc.AssertNumberOfCalls(t, "Update", 2)
}

func TestUpdateBannerErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{
			name:         "not found",
			err:          storage.ErrBannerNotFound,
			expectedCode: http.StatusNotFound,
		},
		{
			name: "validation",
			err: &service.ValidationError{Fields: map[string][]string{
				"name": {"The name field must not be empty."},
			}},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:         "staging failure",
			err:          errors.Join(service.ErrStagingFailed, errors.New("disk full")),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBannerService)
			svc.On("Update", mock.Anything, int64(2), mock.Anything).Return(nil, tt.err)

			rr := do(t, newTestRouter(svc, 0), http.MethodPut, "/banners/2", strings.NewReader(`{"name":""}`), "application/json")

			assert.Equal(t, tt.expectedCode, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestDeleteBanner(t *testing.T) {
	svc := new(MockBannerService)
	svc.On("Delete", mock.Anything, int64(3)).Return(nil)
	svc.On("Delete", mock.Anything, int64(9)).Return(storage.ErrBannerNotFound)
	h := newTestRouter(svc, 0)

	rr := do(t, h, http.MethodDelete, "/banners/3", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Banner deleted successfully"}`, rr.Body.String())

	rr = do(t, h, http.MethodDelete, "/banners/9", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	svc.AssertExpectations(t)
}

func TestMetricsMounted(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	h := router.New(log, new(MockBannerService), router.Options{Metrics: metrics})
	rr := do(t, h, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	h = router.New(log, new(MockBannerService), router.Options{})
	rr = do(t, h, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
