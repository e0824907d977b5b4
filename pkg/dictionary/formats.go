package dictionary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
)

// FileFormat represents the dictionary inputs the loader understands
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatWordList            // one word per line
	FormatZipf                // word<TAB>zipf
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt"},
	},
	FormatZipf: {
		Format:      FormatZipf,
		Description: "Zipf Frequency Table",
		Extensions:  []string{".tsv", ".txt"},
	},
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// IsGzip reports whether filename carries a .gz suffix.
func IsGzip(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".gz")
}

// ValidateFileFormat checks the extension of filename (ignoring a trailing
// .gz) against the expected format.
func ValidateFileFormat(filename string, expected FileFormat) error {
	info, ok := GetFormatInfo(expected)
	if !ok {
		return fmt.Errorf("unknown format: %v", expected)
	}
	base := filename
	if IsGzip(base) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, valid := range info.Extensions {
		if ext == valid {
			return nil
		}
	}
	return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
		filename, ext, info.Description, info.Extensions)
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

// Open opens filename for reading, transparently decompressing .gz files.
func Open(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	if !IsGzip(filename) {
		return file, nil
	}
	zr, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open gzip stream %s: %w", filename, err)
	}
	log.Debugf("Reading gzip input %s", filename)
	return &gzipFile{Reader: zr, file: file}, nil
}
