package clipio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat indicates a file extension that is neither YAML nor JSON.
var ErrUnknownFormat = errors.New("unknown clip format")

// Format is a clip file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

const (
	yamlIndent     = 2
	reducedSuffix  = "_reduced"
	maxUniqueTries = 1000
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Decode reads a clip. Unknown fields are rejected.
func Decode(r io.Reader, f Format) (*Clip, error) {
	var clip Clip
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&clip); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&clip); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	return &clip, nil
}

// Encode writes a clip.
func Encode(w io.Writer, f Format, clip *Clip) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)
		if err := enc.Encode(clip); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(clip); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
}

// Load reads and validates a clip file.
func Load(path string) (*Clip, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidClip, path)
	}

	clip, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := clip.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

// Save validates clip and writes it to path, replacing any existing file.
func Save(path string, clip *Clip) (err error) {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := clip.Validate(); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Encode(file, f, clip)
}

// ReducedPath returns the default output path for a reduced copy of in:
// "walk.yaml" becomes "walk_reduced.yaml" in the same directory.
func ReducedPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + reducedSuffix + ext
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "name_N.ext" variant.
func UniquePath(path string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path, nil
	} else if err != nil {
		return "", err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxUniqueTries; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free file name for %s after %d attempts", path, maxUniqueTries)
}
