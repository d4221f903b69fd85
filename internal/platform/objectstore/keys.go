package objectstore

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9.-]`)

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".zip":  "application/zip",
	".json": "application/json",
}

const defaultContentType = "application/octet-stream"

// SanitizeFilename replaces every character outside [A-Za-z0-9.-] with '_'.
func SanitizeFilename(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// ObjectKey builds "{folder}/{unix-millis}-{sanitized-filename}".
func ObjectKey(folder string, now time.Time, filename string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	name := fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeFilename(path.Base(filename)))
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// ContentTypeFor prefers the declared type and falls back to the extension map.
func ContentTypeFor(filename, declared string) string {
	if d := strings.TrimSpace(declared); d != "" && d != defaultContentType {
		return d
	}
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return defaultContentType
}
