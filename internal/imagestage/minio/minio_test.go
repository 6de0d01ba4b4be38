package minio

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers just enough of the S3 API for bucket checks, uploads and deletes.
type fakeS3 struct {
	mu           sync.Mutex
	bucketExists bool
	denyPuts     bool
	requests     []string
	contentTypes map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	path := strings.Trim(r.URL.Path, "/")
	isBucket := !strings.Contains(path, "/")

	switch {
	case r.Method == http.MethodHead && isBucket:
		if !f.bucketExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && isBucket:
		f.bucketExists = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		if f.denyPuts {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`)
			return
		}
		f.contentTypes[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func (f *fakeS3) seen(req string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == req {
			return true
		}
	}
	return false
}

func newFakeStager(t *testing.T, fake *fakeS3) *Stager {
	t.Helper()
	fake.contentTypes = make(map[string]string)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := New(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), Config{
		Endpoint:        strings.TrimPrefix(srv.URL, "http://"),
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "banners",
		Region:          "us-east-1",
	})
	require.NoError(t, err)
	return s
}

func TestNewCreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{}
	newFakeStager(t, fake)

	assert.True(t, fake.seen("PUT /banners/"))
}

func TestNewKeepsExistingBucket(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	newFakeStager(t, fake)

	assert.False(t, fake.seen("PUT /banners/"))
}

func TestStageUploadsObject(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	s := newFakeStager(t, fake)

	ref, err := s.Stage(context.Background(), []byte("fake png"), "png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.True(t, fake.seen("PUT /banners/"+ref))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "image/png", fake.contentTypes["banners/"+ref])
}

func TestStageFailure(t *testing.T) {
	fake := &fakeS3{bucketExists: true, denyPuts: true}
	s := newFakeStager(t, fake)

	_, err := s.Stage(context.Background(), []byte("fake png"), "png")
	assert.Error(t, err)
}

func TestDiscardRemovesObject(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	s := newFakeStager(t, fake)

	require.NoError(t, s.Discard(context.Background(), "abc.png"))
	assert.True(t, fake.seen("DELETE /banners/abc.png"))

	assert.Error(t, s.Discard(context.Background(), "../abc.png"))
}
