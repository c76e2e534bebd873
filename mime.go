package lanshare

import (
	"path"
	"strings"
)

// DefaultContentType is served for names without a known extension.
const DefaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"xml":  "application/xml",
	"txt":  "text/plain",

	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",

	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",

	"mp3": "audio/mpeg",
	"wav": "audio/wav",
	"ogg": "audio/ogg",

	"mp4":  "video/mp4",
	"webm": "video/webm",
	"avi":  "video/x-msvideo",
	"mkv":  "video/x-matroska",
	"mov":  "video/quicktime",

	"zip": "application/zip",
	"rar": "application/x-rar-compressed",
	"7z":  "application/x-7z-compressed",
	"tar": "application/x-tar",
	"gz":  "application/gzip",

	"apk": "application/vnd.android.package-archive",
}

// ContentTypeFor maps the extension after the last '.' of name,
// case-insensitively, to a MIME type.
func ContentTypeFor(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return DefaultContentType
	}

	if ct, ok := contentTypes[strings.ToLower(ext[1:])]; ok {
		return ct
	}

	return DefaultContentType
}
