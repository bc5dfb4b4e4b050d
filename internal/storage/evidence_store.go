package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/utils"
)

// MaxEvidenceSize is the upload ceiling for proof-of-payment images.
const MaxEvidenceSize = 5 << 20 // 5 MiB

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// EvidenceStore persists proof-of-payment images on local disk and hands out
// public URLs under /uploads. The directory is served statically by the HTTP
// router so the operator chat can embed the images.
type EvidenceStore struct {
	dir     string
	baseURL string
}

// NewEvidenceStore creates the upload directory if needed.
func NewEvidenceStore(dir, baseURL string) (*EvidenceStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &EvidenceStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the on-disk directory backing the store.
func (s *EvidenceStore) Dir() string {
	return s.dir
}

// Save validates and writes an uploaded image, returning its public URL.
// The stored name is generated server-side, the client filename only
// contributes its extension.
func (s *EvidenceStore) Save(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > MaxEvidenceSize {
		return "", fmt.Errorf("%w: file exceeds the 5MB limit", apperrors.ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: only jpg, jpeg, png and gif images are accepted", apperrors.ErrValidation)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	suffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("proof-%d-%s%s", time.Now().Unix(), suffix, ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create evidence file: %w", err)
	}
	defer dst.Close()

	// Copy caps at one byte over the limit to catch lying Content-Length.
	written, err := io.Copy(dst, io.LimitReader(src, MaxEvidenceSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}
	if written > MaxEvidenceSize {
		os.Remove(dst.Name())
		return "", fmt.Errorf("%w: file exceeds the 5MB limit", apperrors.ErrValidation)
	}

	return s.baseURL + "/uploads/" + name, nil
}
