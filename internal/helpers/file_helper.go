package helpers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Upload subfolders, one per owning entity kind.
const (
	UploadKindClient    = "client"
	UploadKindOrganizer = "organizer"
	UploadKindEvent     = "event"
)

type UploadConfig struct {
	MaxSizeBytes     int64
	AllowedMimeTypes []string
	UploadBasePath   string
}

var PhotoUploadConfig = UploadConfig{
	MaxSizeBytes: 5 * 1024 * 1024, // 5MB
	AllowedMimeTypes: []string{
		"image/jpeg",
		"image/png",
	},
	UploadBasePath: "./uploads/",
}

// UploadFile stores a png/jpg/jpeg image under the kind's subfolder and
// returns the stored filename. The owning entity persists the filename only.
func UploadFile(c *gin.Context, fileHeader *multipart.FileHeader, uploadKind string) (string, error) {
	config := PhotoUploadConfig

	if fileHeader.Size > config.MaxSizeBytes {
		return "", fmt.Errorf("file size exceeds maximum limit of %d MB", config.MaxSizeBytes/(1024*1024))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	if _, err = src.Read(buffer); err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(buffer)

	mimeTypeAllowed := false
	for _, allowedType := range config.AllowedMimeTypes {
		if mimeType == allowedType {
			mimeTypeAllowed = true
			break
		}
	}
	if !mimeTypeAllowed {
		return "", fmt.Errorf("invalid file type. Allowed types: png, jpg, jpeg")
	}

	uploadPath := filepath.Join(config.UploadBasePath, uploadKind)
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(uploadPath, filename)); err != nil {
		return "", err
	}

	return filename, nil
}

// DeleteFile removes a previously stored file. A blank filename is a no-op so
// callers can pass the prior value unconditionally on replacement.
func DeleteFile(uploadKind, filename string) error {
	if filename == "" {
		return nil
	}
	return os.Remove(filepath.Join(PhotoUploadConfig.UploadBasePath, uploadKind, filename))
}
