package util

import (
	"path"
	"strings"
)

// ExtFromFilenameOrMime returns a file extension (with leading dot) from the
// filename, falling back to the MIME type for extension-less uploads.
func ExtFromFilenameOrMime(filename, mime string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext != "" {
		return ext
	}
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".jpg"
	}
}

// MimeFromExt returns a content type for common image extensions.
func MimeFromExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	case "heic":
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}

// SanitizeHost normalizes a request host for use in export archive names:
// protocol prefixes and "www." are stripped, "." and "-" become "_".
func SanitizeHost(host string) string {
	h := strings.TrimSpace(host)
	h = strings.TrimPrefix(h, "http://")
	h = strings.TrimPrefix(h, "https://")
	// ports show up as host:port on gin requests
	if i := strings.Index(h, ":"); i >= 0 {
		h = h[:i]
	}
	h = strings.TrimPrefix(h, "www.")
	h = strings.NewReplacer(".", "_", "-", "_").Replace(h)
	if h == "" {
		return "localhost"
	}
	return h
}
