package client

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageBytes bounds a single attached image.
const MaxImageBytes = 5 << 20

// EncodeImageFile reads an image and returns it as a base64 data URL.
func EncodeImageFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return "", &FormError{Fields: []string{"images"}, Message: fmt.Sprintf("image %s is larger than %d bytes", filepath.Base(path), MaxImageBytes)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	mediaType, _, _ = strings.Cut(mediaType, ";")
	if !strings.HasPrefix(mediaType, "image/") {
		return "", &FormError{Fields: []string{"images"}, Message: fmt.Sprintf("%s is not an image", filepath.Base(path))}
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
