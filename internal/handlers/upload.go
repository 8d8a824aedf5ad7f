package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/cristianadrielbraun/qrforge/internal/config"
)

var (
	ErrLogoTooLarge = errors.New("logo file is too large")
	ErrLogoType     = errors.New("logo file type is not accepted")
)

// logoDataURI validates an uploaded logo against limits and converts it to
// a base64 data URI.
func logoDataURI(fh *multipart.FileHeader, limits config.UploadConfig) (string, error) {
	if fh.Size > limits.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrLogoTooLarge, fh.Size, limits.MaxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open logo: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limits.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	return LogoDataURI(data, limits)
}

// LogoDataURI checks data against limits and returns it as a base64 data
// URI labelled with its detected media type.
func LogoDataURI(data []byte, limits config.UploadConfig) (string, error) {
	if int64(len(data)) > limits.MaxBytes {
		return "", fmt.Errorf("%w: limit %d bytes", ErrLogoTooLarge, limits.MaxBytes)
	}
	uploadSizeBytes.Observe(float64(len(data)))

	mt := mimetype.Detect(data)
	accepted := false
	for _, t := range limits.AllowedTypes {
		if mt.Is(t) {
			accepted = true
			break
		}
	}
	if !accepted {
		return "", fmt.Errorf("%w: %s", ErrLogoType, mt.String())
	}

	mediaType, _, _ := strings.Cut(mt.String(), ";")
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, ErrLogoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrLogoType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}
