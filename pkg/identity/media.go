package identity

import (
	"strings"
)

// imageTypes is the allow-list of inline image types, keyed by the lower-cased content type found in
// exports and mapped to the type written into the data URI.
var imageTypes = map[string]string{
	"image/png":                "image/png",
	"image/jpeg":               "image/jpeg",
	"image/jpg":                "image/jpeg",
	"image/gif":                "image/gif",
	"image/webp":               "image/webp",
	"image/avif":               "image/avif",
	"image/bmp":                "image/bmp",
	"image/svg+xml":            "image/svg+xml",
	"image/tiff":               "image/tiff",
	"image/x-icon":             "image/x-icon",
	"image/vnd.microsoft.icon": "image/x-icon",
}

// NormalizeImageType maps a part content type onto the allow-list. Parameters such as
// "; name=photo.jpg" are ignored.
func NormalizeImageType(contentType string) (string, bool) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	normalized, ok := imageTypes[strings.ToLower(strings.TrimSpace(mediaType))]
	return normalized, ok
}

// DataURI embeds a base64 payload.
func DataURI(mimeType, base64Data string) string {
	return "data:" + mimeType + ";base64," + base64Data
}

func isImagePart(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "image")
}

func isTextPart(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text")
}
