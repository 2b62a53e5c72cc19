// ABOUTME: Fixed extension to content-type mapping for archived pages and assets.
// ABOUTME: The host's mime database is never consulted.
package archive

import (
	"path"
	"strings"
)

// DefaultContentType is returned for any extension not in the table.
const DefaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".ico":  "image/x-icon",
	".webp": "image/webp",
	".xml":  "application/xml",
}

// ContentType returns the content type for name based on its extension.
// Matching is case-insensitive.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return DefaultContentType
}
