package cli

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/livesboard/livesboard/internal/service"
)

// readImage loads an image file for upload, inferring the content type from
// the extension and falling back to content sniffing.
func readImage(path string) (service.ImageUpload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.ImageUpload{}, fmt.Errorf("read image: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return service.ImageUpload{Data: data, ContentType: contentType}, nil
}
