package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
)

// ErrTooLarge is returned when an upload exceeds the configured size limit
var ErrTooLarge = apperr.ValidationField("file", "file exceeds the upload size limit")

var categories = map[string]bool{
	port.CategoryResume:       true,
	port.CategoryPaymentProof: true,
}

// LocalFileStorage implements port.FileStore on the local filesystem. Files
// are stored as <category>/<uuid><ext>; client file names are never used as paths.
type LocalFileStorage struct {
	baseDir  string
	maxBytes int64
	logger   *zap.Logger
}

// NewLocalFileStorage creates a store rooted at baseDir. maxBytes <= 0 disables the size limit.
func NewLocalFileStorage(baseDir string, maxBytes int64, logger *zap.Logger) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalFileStorage{
		baseDir:  baseDir,
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

// Store writes content under category and returns its relative path
func (s *LocalFileStorage) Store(ctx context.Context, category, filename string, content io.Reader) (string, error) {
	if !categories[category] {
		return "", fmt.Errorf("unknown file category: %s", category)
	}

	relPath := filepath.ToSlash(filepath.Join(category, uuid.NewString()+strings.ToLower(filepath.Ext(filename))))
	fullPath, err := s.fullPath(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	written, err := s.copy(ctx, f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", err
	}

	s.logger.Debug("File stored",
		zap.String("path", relPath),
		zap.String("original_name", filename),
		zap.Int64("size", written))

	return relPath, nil
}

func (s *LocalFileStorage) copy(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.maxBytes <= 0 {
		return io.Copy(dst, src)
	}

	// One byte over the limit is enough to detect an oversized upload
	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return n, fmt.Errorf("failed to write file: %w", err)
	}
	if n > s.maxBytes {
		return n, ErrTooLarge
	}
	return n, nil
}

// Resolve returns the absolute path of a stored file
func (s *LocalFileStorage) Resolve(path string) (string, error) {
	fullPath, err := s.fullPath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", path)
	}
	return fullPath, nil
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *LocalFileStorage) Remove(ctx context.Context, path string) error {
	fullPath, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete file",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// fullPath joins a relative path onto baseDir and checks that it stays inside it
func (s *LocalFileStorage) fullPath(relativePath string) (string, error) {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(absBase, filepath.FromSlash(relativePath)))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes base directory: %s", relativePath)
	}
	return absPath, nil
}
