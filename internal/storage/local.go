package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps uploads on the local filesystem under a base directory
// and hands out web-style reference paths ("/uploads/products/<name>").
type LocalStore struct {
	baseDir    string
	publicPath string
}

func NewLocalStore(baseDir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", baseDir, err)
	}
	return &LocalStore{
		baseDir:    baseDir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
	}, nil
}

// Save stores an uploaded file under a generated name and returns its
// reference path.
func (s *LocalStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.publicPath + "/" + name, nil
}

// Remove deletes a stored file by its reference path. Missing files are not
// an error; removal is idempotent.
func (s *LocalStore) Remove(path string) error {
	name := filepath.Base(path)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// BaseDir returns the directory uploads are stored in, for static serving.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}
