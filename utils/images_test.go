package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanstyle-registrar/internal/types"
)

func testImageStore(t *testing.T) *ImageStore {
	t.Helper()
	config := types.DefaultConfig()
	config.ImageBaseDir = t.TempDir()
	config.RequestDelay = time.Millisecond
	return NewImageStore(config, logrus.New())
}

func TestDownload_WritesFileAtDeterministicPath(t *testing.T) {
	payload := []byte("jpeg-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	store := testImageStore(t)
	ok := store.Download(context.Background(), "shuline", "title", server.URL+"/img.jpg", "42.jpg")
	require.True(t, ok)

	data, err := os.ReadFile(filepath.Join(store.baseDir, "shuline", "title", "42.jpg"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownload_OverwritesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new"))
	}))
	defer server.Close()

	store := testImageStore(t)
	dest := filepath.Join(store.baseDir, "shuline", "desc")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "7_0.jpg"), []byte("old"), 0644))

	ok := store.Download(context.Background(), "shuline", "desc", server.URL, "7_0.jpg")
	require.True(t, ok)

	data, err := os.ReadFile(filepath.Join(dest, "7_0.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestDownload_ServerErrorReportsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := testImageStore(t)
	ok := store.Download(context.Background(), "shuline", "desc", server.URL, "1_0.jpg")

	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(store.baseDir, "shuline", "desc", "1_0.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownload_MissingArguments(t *testing.T) {
	store := testImageStore(t)

	assert.False(t, store.Download(context.Background(), "", "title", "http://example.com/a.jpg", "1.jpg"))
	assert.False(t, store.Download(context.Background(), "shuline", "title", "", "1.jpg"))
}
