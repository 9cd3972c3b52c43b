package constants

import (
	"path/filepath"
	"strings"
)

const (
	MediaImage    = "image"
	MediaVideo    = "video"
	MediaDocument = "document"
	MediaAudio    = "audio"
)

var allowedExtensions = map[string][]string{
	MediaImage:    {".png", ".jpg", ".jpeg", ".webp", ".gif"},
	MediaVideo:    {".mp4", ".mov", ".webm", ".mkv"},
	MediaDocument: {".pdf", ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx", ".csv", ".txt"},
	MediaAudio:    {".mp3", ".wav", ".m4a", ".ogg"},
}

// DetectMediaType maps a filename to one of the media kinds, or "" when unknown.
func DetectMediaType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for kind, exts := range allowedExtensions {
		for _, e := range exts {
			if e == ext {
				return kind
			}
		}
	}
	return ""
}

func IsAllowedExtension(kind, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range allowedExtensions[kind] {
		if e == ext {
			return true
		}
	}
	return false
}
