package config

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("config")

// ErrInvalidFormat indicates a video-id config file with an unsupported shape.
var ErrInvalidFormat = errors.New("config: invalid video id file format")

// LoadVideoIDs reads video ids from a JSON file. The file may be a JSON
// array of strings, or an object with a "video_ids" array. Any other shape
// is a fatal configuration error.
func LoadVideoIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read video id file %s: %w", path, err)
	}

	parsed := gjson.ParseBytes(data)
	switch {
	case parsed.IsArray():
		return videoIDsFromArray(parsed)
	case parsed.IsObject():
		inner := parsed.Get("video_ids")
		if !inner.Exists() || !inner.IsArray() {
			log.Error("invalid video id file", "path", path,
				"reason", "expecting a list or an object with a 'video_ids' key")
			return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, path)
		}
		return videoIDsFromArray(inner)
	default:
		log.Error("invalid video id file", "path", path,
			"reason", "expecting a list or an object with a 'video_ids' key")
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}
}

// videoIDsFromArray converts a gjson array to a string slice, preserving order.
func videoIDsFromArray(arr gjson.Result) ([]string, error) {
	items := arr.Array()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("%w: video ids must be strings", ErrInvalidFormat)
		}
		ids = append(ids, item.String())
	}
	return ids, nil
}
