package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/config"
)

// PublicPrefix - путь, по которому загруженные файлы раздаются статикой
const PublicPrefix = "/uploads"

var (
	ErrEmptyFile            = errors.New("file is empty")
	ErrFileTooLarge         = errors.New("file is too large")
	ErrUnsupportedExtension = errors.New("file extension is not allowed")
	ErrNotImage             = errors.New("file content is not an image")
	ErrInvalidDataURI       = errors.New("invalid image data URI")
)

// sniffLen - сколько байт читаем для определения типа содержимого
const sniffLen = 3072

// LocalStorage сохраняет фото заявок на локальный диск
type LocalStorage struct {
	dir string
	cfg *config.Config
}

func NewLocalStorage(cfg *config.Config) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{dir: cfg.UploadDir, cfg: cfg}, nil
}

// Dir возвращает каталог с файлами
func (s *LocalStorage) Dir() string {
	return s.dir
}

// SaveImage проверяет расширение, размер и содержимое файла и сохраняет его под новым именем.
// Возвращает публичный URL файла.
func (s *LocalStorage) SaveImage(ctx context.Context, originalName string, body io.Reader) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !s.cfg.IsExtensionAllowed(ext) {
		return "", fmt.Errorf("storage: %q: %w", ext, ErrUnsupportedExtension)
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(body, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("storage: failed to read upload: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("storage: %w", ErrEmptyFile)
	}
	header = header[:n]
	if mime := mimetype.Detect(header); !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("storage: detected %s: %w", mime.String(), ErrNotImage)
	}

	name := uuid.NewString() + "." + ext
	target := filepath.Join(s.dir, name)
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("storage: failed to create file: %w", err)
	}

	// Читаем на байт больше лимита, чтобы отличить файл ровно в лимит от слишком большого
	limited := io.LimitReader(io.MultiReader(bytes.NewReader(header), body), s.cfg.MaxFileSize+1)
	size, err := io.Copy(file, &ctxReader{ctx: ctx, r: limited})
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: failed to write file: %w", err)
	}
	if size > s.cfg.MaxFileSize {
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: limit is %d bytes: %w", s.cfg.MaxFileSize, ErrFileTooLarge)
	}

	return PublicPrefix + "/" + name, nil
}

// ParseDataURI разбирает ссылку вида data:image/<ext>;base64,<payload>
func ParseDataURI(ref string) (ext, payload string, ok bool) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", "", false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return "", "", false
	}
	mediaType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", "", false
	}
	ext, ok = strings.CutPrefix(mediaType, "image/")
	if !ok || ext == "" {
		return "", "", false
	}
	return strings.ToLower(ext), payload, true
}

// SaveDataURI декодирует фото из data URI и сохраняет его с теми же проверками, что и SaveImage
func (s *LocalStorage) SaveDataURI(ctx context.Context, ref string) (string, error) {
	ext, payload, ok := ParseDataURI(ref)
	if !ok {
		return "", fmt.Errorf("storage: %w", ErrInvalidDataURI)
	}

	decoder := base64.NewDecoder(base64.StdEncoding, strings.NewReader(payload))
	url, err := s.SaveImage(ctx, "image."+ext, decoder)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			return "", fmt.Errorf("storage: %w", ErrInvalidDataURI)
		}
		return "", err
	}
	return url, nil
}

// ctxReader прерывает копирование при отмене запроса
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
