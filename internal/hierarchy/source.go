package hierarchy

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LineSource reads every line of a named file.
type LineSource interface {
	ReadLines(path string) ([]string, error)
}

// FileSource reads lines from the local filesystem.
type FileSource struct{}

func (FileSource) ReadLines(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	defer f.Close()

	lines := make([]string, 0, 16)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	return lines, nil
}

// CheckExtension accepts only paths ending in [Extension].
func CheckExtension(path string) error {
	if len(path) <= len(Extension) || !strings.HasSuffix(path, Extension) {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, path)
	}
	return nil
}

// Load reads and parses the hierarchy file at path.
func Load(path string) (*Scene, error) {
	return LoadFrom(FileSource{}, path)
}

// LoadFrom reads path through src and parses it.
func LoadFrom(src LineSource, path string) (*Scene, error) {
	if err := CheckExtension(path); err != nil {
		return nil, err
	}

	lines, err := src.ReadLines(path)
	if err != nil {
		return nil, err
	}

	scene, err := Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	scene.Path = path
	return scene, nil
}
