package vocab

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the vocabulary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatBinary             // count header + length-prefixed entries
	FormatText               // one command per line
)

// MaxEntries is the largest entry count a binary header may declare.
const MaxEntries = 1000000

// ErrUnknownFormat is returned for files that are neither text nor binary vocabularies.
var ErrUnknownFormat = errors.New("unknown vocabulary format")

// FormatInfo contains metadata about a vocabulary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatBinary: {
		Format:      FormatBinary,
		Description: "Binary Vocabulary",
		Extensions:  []string{".bin"},
		MinSize:     4, // entry count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Vocabulary",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatBinary {
		return validateBinaryHeader(filename)
	}
	return nil
}

// validateBinaryHeader checks the declared entry count
func validateBinaryHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var count int32
	if err := binary.Read(file, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if count < 0 {
		return fmt.Errorf("invalid entry count in %s: %d (negative)", filename, count)
	}
	if count > MaxEntries {
		return fmt.Errorf("suspicious entry count in %s: %d (too large)", filename, count)
	}

	log.Debugf("Binary file %s validated: %d entries", filename, count)
	return nil
}

// DetectFileFormat picks the format from the extension and validates it.
func DetectFileFormat(filename string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".bin":
		if err := ValidateFileFormat(filename, FormatBinary); err != nil {
			return FormatUnknown, err
		}
		return FormatBinary, nil
	case ".txt":
		if err := ValidateFileFormat(filename, FormatText); err != nil {
			return FormatUnknown, err
		}
		return FormatText, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}
