package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bytemc-uz/bytemc-backend/pkg/utils"
)

// Uploads writes proof images to the public uploads directory. Files are
// served back as static content, so the stored name must stay predictable:
// a millisecond timestamp prefix plus the sanitized original name.
type Uploads struct {
	Dir string
}

// NewUploads makes sure the uploads directory exists.
func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Uploads{Dir: dir}, nil
}

// SaveImage stores one uploaded image and returns its public URL path.
func (u *Uploads) SaveImage(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	safe := utils.SanitizeFilename(header.Filename)
	if safe == "" {
		safe = uuid.NewString()
	}
	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safe)

	dst, err := os.Create(filepath.Join(u.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
