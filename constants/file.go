package constants

import "strings"

// MaxDocumentBytes is the per-document ceiling enforced before any extraction call.
const MaxDocumentBytes int64 = 19 * 1024 * 1024

const (
	MediaPNG  = "image/png"
	MediaJPEG = "image/jpeg"
	MediaWebP = "image/webp"
	MediaPDF  = "application/pdf"
)

// AllowedMediaTypes holds the media types the extraction service accepts.
var AllowedMediaTypes = map[string]struct{}{
	MediaPNG:  {},
	MediaJPEG: {},
	MediaWebP: {},
	MediaPDF:  {},
}

// AllowedExtensions maps receipt file extensions to their media type.
var AllowedExtensions = map[string]string{
	"png":  MediaPNG,
	"jpg":  MediaJPEG,
	"jpeg": MediaJPEG,
	"webp": MediaWebP,
	"pdf":  MediaPDF,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MediaTypeForExt returns the media type for an extension, or "" when unsupported.
func MediaTypeForExt(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}

// IsAllowedMediaType ignores parameters such as "; charset=".
func IsAllowedMediaType(mt string) bool {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	_, ok := AllowedMediaTypes[strings.ToLower(strings.TrimSpace(mt))]
	return ok
}
