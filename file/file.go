package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jsphweid/dombratab/util"
)

// SaveUpload copies r into dir under a fresh unique name that keeps ext, so
// concurrent requests never share a file.
func SaveUpload(dir, ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	path := filepath.Join(dir, uuid.New().String()+strings.ToLower(ext))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

// TabPath maps an input file to its JSON output in outDir.
func TabPath(outDir, input string) string {
	return filepath.Join(outDir, util.Stem(input)+".tab.json")
}
