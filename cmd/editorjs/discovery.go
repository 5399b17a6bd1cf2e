package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-editorjs/internal/yamlutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have a .json, .yaml or .yml extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// MaxPoolSize caps the number of render workers.
const MaxPoolSize = 64

// FileToRender represents a single document to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all JSON and YAML documents under inputPath.
func discoverFiles(inputPath, outputDir string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateDocumentExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isDocumentPath(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the HTML output path for a document.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if strings.HasSuffix(outputDir, ".html") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".html")
		}
	}

	return filepath.Join(outputDir, base+".html")
}

// isDocumentPath reports whether path names a JSON or YAML document.
func isDocumentPath(path string) bool {
	return filepath.Ext(path) == ".json" || yamlutil.IsYAML(path)
}

func validateDocumentExtension(path string) error {
	if !isDocumentPath(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// readDocument reads a document file, converting YAML to JSON.
func readDocument(path string) ([]byte, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- discovered or user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	if !yamlutil.IsYAML(path) {
		return content, nil
	}
	out, err := yamlutil.ToJSON(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	return out, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxPoolSize)
	}
	return nil
}
