package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shenikar/jalanguard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader - сигнатура PNG, достаточная для определения типа
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestStorage(t *testing.T, maxSize int64) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(&config.Config{
		UploadDir:         filepath.Join(t.TempDir(), "uploads"),
		MaxFileSize:       maxSize,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "webp"},
	})
	require.NoError(t, err)
	return s
}

func TestSaveImage_Success(t *testing.T) {
	s := newTestStorage(t, 1024)
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 100)...)

	url, err := s.SaveImage(context.Background(), "Pothole.PNG", bytes.NewReader(content))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, PublicPrefix+"/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(url, PublicPrefix+"/")))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestSaveImage_Rejected(t *testing.T) {
	testCases := []struct {
		name        string
		filename    string
		content     []byte
		expectedErr error
	}{
		{
			name:        "extension not allowed",
			filename:    "report.gif",
			content:     pngHeader,
			expectedErr: ErrUnsupportedExtension,
		},
		{
			name:        "no extension",
			filename:    "report",
			content:     pngHeader,
			expectedErr: ErrUnsupportedExtension,
		},
		{
			name:        "empty file",
			filename:    "report.png",
			content:     nil,
			expectedErr: ErrEmptyFile,
		},
		{
			name:        "text disguised as image",
			filename:    "report.jpg",
			content:     []byte("definitely not an image"),
			expectedErr: ErrNotImage,
		},
		{
			name:        "too large",
			filename:    "report.png",
			content:     append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 64)...),
			expectedErr: ErrFileTooLarge,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStorage(t, 32)

			url, err := s.SaveImage(context.Background(), tc.filename, bytes.NewReader(tc.content))

			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Empty(t, url)
			entries, readErr := os.ReadDir(s.Dir())
			require.NoError(t, readErr)
			assert.Empty(t, entries, "rejected upload must not leave files behind")
		})
	}
}

func TestSaveImage_CanceledContext(t *testing.T) {
	s := newTestStorage(t, 1024)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SaveImage(ctx, "report.png", bytes.NewReader(pngHeader))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseDataURI(t *testing.T) {
	ext, payload, ok := ParseDataURI("data:image/JPEG;base64,AAAA")
	require.True(t, ok)
	assert.Equal(t, "jpeg", ext)
	assert.Equal(t, "AAAA", payload)

	for _, ref := range []string{
		"/uploads/a.jpg",
		"data:image/png;base64,",
		"data:image/png,AAAA",
		"data:text/plain;base64,AAAA",
		"data:image/;base64,AAAA",
	} {
		_, _, ok := ParseDataURI(ref)
		assert.False(t, ok, ref)
	}
}

func TestSaveDataURI(t *testing.T) {
	s := newTestStorage(t, 1024)
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{2}, 64)...)

	url, err := s.SaveDataURI(context.Background(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(content))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"))
	stored, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(url, PublicPrefix+"/")))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestSaveDataURI_Rejected(t *testing.T) {
	tooLarge := append(append([]byte{}, pngHeader...), make([]byte, 4000)...)

	testCases := []struct {
		name        string
		ref         string
		expectedErr error
	}{
		{"too large", "data:image/png;base64," + base64.StdEncoding.EncodeToString(tooLarge), ErrFileTooLarge},
		{"corrupt base64", "data:image/png;base64,iVBORw0KGgo%%%", ErrInvalidDataURI},
		{"malformed", "data:image/png,AAAA", ErrInvalidDataURI},
		{"extension not allowed", "data:image/gif;base64," + base64.StdEncoding.EncodeToString(pngHeader), ErrUnsupportedExtension},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStorage(t, 1024)

			_, err := s.SaveDataURI(context.Background(), tc.ref)

			assert.ErrorIs(t, err, tc.expectedErr)
			entries, readErr := os.ReadDir(s.Dir())
			require.NoError(t, readErr)
			assert.Empty(t, entries)
		})
	}
}
