package data

import (
	"path"
	"strings"
)

type ContentType string

const (
	ContentTypeTextPlain         ContentType = "text/plain"
	ContentTypeTextCSV           ContentType = "text/csv"
	ContentTypeTextLua           ContentType = "text/x-lua"
	ContentTypeTextSquirrel      ContentType = "text/x-squirrel"
	ContentTypeImagePNG          ContentType = "image/png"
	ContentTypeImageGIF          ContentType = "image/gif"
	ContentTypeAudioWAV          ContentType = "audio/wav"
	ContentTypeAudioOGG          ContentType = "audio/ogg"
	ContentTypeApplicationJSON   ContentType = "application/json"
	ContentTypeApplicationYAML   ContentType = "application/yaml"
	ContentTypeApplicationZip    ContentType = "application/zip"
	ContentTypeApplicationStream ContentType = "application/octet-stream"
)

// ExtensionToMIME maps file extensions found in cartridges to MIME types.
var ExtensionToMIME = map[string]ContentType{
	".txt":  ContentTypeTextPlain,
	".csv":  ContentTypeTextCSV,
	".lua":  ContentTypeTextLua,
	".nut":  ContentTypeTextSquirrel,
	".png":  ContentTypeImagePNG,
	".gif":  ContentTypeImageGIF,
	".wav":  ContentTypeAudioWAV,
	".ogg":  ContentTypeAudioOGG,
	".json": ContentTypeApplicationJSON,
	".yaml": ContentTypeApplicationYAML,
	".yml":  ContentTypeApplicationYAML,
	".zip":  ContentTypeApplicationZip,
	".cart": ContentTypeApplicationZip,
}

// GetMIMEType returns the MIME type for the extension of key.
func GetMIMEType(key string) ContentType {
	ext := strings.ToLower(path.Ext(key))
	if mimeType, exists := ExtensionToMIME[ext]; exists {
		return mimeType
	}

	// Default to octet-stream for unknown types
	return ContentTypeApplicationStream
}
