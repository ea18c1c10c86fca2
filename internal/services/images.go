package services

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

type ImageFormat struct {
	Extension   string `json:"extension"`
	MIMEType    string `json:"mime_type"`
	Description string `json:"description"`
}

var SupportedImageFormats = []ImageFormat{
	{Extension: ".jpg", MIMEType: "image/jpeg", Description: "JPEG Image"},
	{Extension: ".png", MIMEType: "image/png", Description: "PNG Image"},
	{Extension: ".gif", MIMEType: "image/gif", Description: "GIF Image"},
	{Extension: ".webp", MIMEType: "image/webp", Description: "WebP Image"},
}

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateImage sniffs the leading bytes of an upload and returns its MIME
// type. The client supplied Content-Type and filename are not trusted.
func ValidateImage(data []byte, filename string, maxSize int64) (string, error) {
	if len(data) == 0 {
		return "", &ValidationError{Code: "EMPTY_FILE", Message: "File is empty"}
	}
	if int64(len(data)) > maxSize {
		return "", &ValidationError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds %s limit", humanize.Bytes(uint64(maxSize))),
		}
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType := http.DetectContentType(head)
	if !isAllowedImageType(mimeType) {
		return "", &ValidationError{
			Code:    "UNSUPPORTED_FORMAT",
			Message: fmt.Sprintf("File type not supported: %s (%s)", mimeType, strings.ToLower(filepath.Ext(filename))),
		}
	}
	return mimeType, nil
}

func isAllowedImageType(mimeType string) bool {
	for _, f := range SupportedImageFormats {
		if f.MIMEType == mimeType {
			return true
		}
	}
	return false
}
