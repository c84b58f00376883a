package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/port"
)

func newStore(t *testing.T, maxBytes int64) *LocalFileStorage {
	t.Helper()
	s, err := NewLocalFileStorage(t.TempDir(), maxBytes, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestLocalFileStorage_StoreAndResolve(t *testing.T) {
	s := newStore(t, 0)

	path, err := s.Store(context.Background(), port.CategoryResume, "My CV.PDF", strings.NewReader("resume"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "resumes/"))
	assert.True(t, strings.HasSuffix(path, ".pdf"))
	assert.NotContains(t, path, "My CV")

	abs, err := s.Resolve(path)
	require.NoError(t, err)
	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "resume", string(data))

	other, err := s.Store(context.Background(), port.CategoryResume, "My CV.PDF", strings.NewReader("again"))
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestLocalFileStorage_RejectsUnknownCategory(t *testing.T) {
	s := newStore(t, 0)
	_, err := s.Store(context.Background(), "../etc", "a.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalFileStorage_SizeLimit(t *testing.T) {
	s := newStore(t, 4)

	_, err := s.Store(context.Background(), port.CategoryPaymentProof, "a.png", strings.NewReader("12345"))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(filepath.Join(s.baseDir, port.CategoryPaymentProof))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = s.Store(context.Background(), port.CategoryPaymentProof, "a.png", strings.NewReader("1234"))
	assert.NoError(t, err)
}

func TestLocalFileStorage_ResolveRejectsTraversal(t *testing.T) {
	s := newStore(t, 0)

	for _, p := range []string{"../secret.txt", "resumes/../../x", ""} {
		_, err := s.Resolve(p)
		assert.Error(t, err, p)
	}
	_, err := s.Resolve("resumes/missing.pdf")
	assert.Error(t, err)
}

func TestLocalFileStorage_Remove(t *testing.T) {
	s := newStore(t, 0)
	path, err := s.Store(context.Background(), port.CategoryResume, "cv.docx", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), path))
	_, err = s.Resolve(path)
	assert.Error(t, err)
	assert.NoError(t, s.Remove(context.Background(), path))
}
