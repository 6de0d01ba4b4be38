package local

import (
	"bannerapi/internal/imagestage"
	"bannerapi/pkg/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Stager keeps images as files under a single directory, which a static file
// server exposes to clients.
type Stager struct {
	log  *slog.Logger
	dir  string
	perm os.FileMode
}

func New(log *slog.Logger, dir string) (*Stager, error) {
	const op = "imagestage.local.New"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create image directory: %w", op, err)
	}

	return &Stager{
		log:  log.With(slog.String("component", "imagestage.local")),
		dir:  dir,
		perm: 0o644,
	}, nil
}

func (s *Stager) Dir() string {
	return s.dir
}

// Stage writes data to a temp file in the target directory and renames it to
// its final reference, so readers never see a partially written image.
func (s *Stager) Stage(ctx context.Context, data []byte, ext string) (string, error) {
	const op = "imagestage.local.Stage"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ref := imagestage.NewReference(ext)

	tmp, err := os.CreateTemp(s.dir, ".staging-*")
	if err != nil {
		return "", fmt.Errorf("%s: failed to create file: %w", op, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		if cerr := tmp.Close(); cerr != nil {
			s.log.Error("failed to close file after write error", sl.Err(cerr))
		}
		s.removeQuietly(tmpPath)
		return "", fmt.Errorf("%s: failed to write file: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		s.removeQuietly(tmpPath)
		return "", fmt.Errorf("%s: failed to close file: %w", op, err)
	}
	if err := os.Chmod(tmpPath, s.perm); err != nil {
		s.removeQuietly(tmpPath)
		return "", fmt.Errorf("%s: failed to chmod file: %w", op, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, ref)); err != nil {
		s.removeQuietly(tmpPath)
		return "", fmt.Errorf("%s: failed to move file: %w", op, err)
	}

	s.log.Debug("image staged", slog.String("ref", ref), slog.Int("size", len(data)))

	return ref, nil
}

func (s *Stager) Discard(_ context.Context, ref string) error {
	const op = "imagestage.local.Discard"

	if !imagestage.ValidReference(ref) {
		return fmt.Errorf("%s: %w", op, imagestage.ErrInvalidReference)
	}

	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: failed to delete file: %w", op, err)
	}

	return nil
}

func (s *Stager) removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Error("failed to remove temp file", slog.String("path", path), sl.Err(err))
	}
}
