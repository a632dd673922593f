// Package workspace is the service's temp directory: every submitted run is
// saved there as <unix-ms>.py before it executes.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/model"
)

// Ext is the extension of saved runs. List and Clear ignore anything else.
const Ext = ".py"

type Store struct {
	dir string
	now func() time.Time
}

// New opens (creating if needed) the temp directory at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes code to a new file named after the current time in
// milliseconds. Two saves in the same millisecond get an xid suffix rather
// than overwriting each other.
func (s *Store) Save(code string) (string, error) {
	ms := s.now().UnixMilli()
	name := fmt.Sprintf("%d%s", ms, Ext)

	err := s.create(name, code)
	if errors.Is(err, fs.ErrExist) {
		name = fmt.Sprintf("%d-%s%s", ms, xid.New().String(), Ext)
		err = s.create(name, code)
	}
	if err != nil {
		return "", fmt.Errorf("saving code: %w", err)
	}
	return name, nil
}

func (s *Store) create(name, code string) error {
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns up to limit saved files, newest first.
func (s *Store) List(limit int) ([]model.FileArtifact, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+Ext))
	if err != nil {
		return nil, fmt.Errorf("listing temp dir: %w", err)
	}

	files := make([]model.FileArtifact, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue // removed underneath us, or not a file
		}
		files = append(files, model.FileArtifact{
			Name:    info.Name(),
			Path:    p,
			Size:    float64(info.Size()),
			ModTime: float64(info.ModTime().UnixNano()) / 1e9,
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime != files[j].ModTime {
			return files[i].ModTime > files[j].ModTime
		}
		return files[i].Name > files[j].Name
	})
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// Read returns the content of a saved file.
func (s *Store) Read(name string) (string, error) {
	p, err := s.Path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// Path resolves name to a regular file inside the temp directory.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", apperror.NotFound("file", name)
	}
	return p, nil
}

// Clear deletes every saved file and reports how many were removed. Files
// that cannot be removed are skipped.
func (s *Store) Clear() (int, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+Ext))
	if err != nil {
		return 0, fmt.Errorf("listing temp dir: %w", err)
	}
	n := 0
	for _, p := range paths {
		if os.Remove(p) == nil {
			n++
		}
	}
	return n, nil
}

// ValidateName rejects anything that is not a plain file name.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return apperror.ValidationFailed("name", "invalid file name")
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return apperror.ValidationFailed("name", "file name must not contain path separators")
	case strings.ContainsRune(name, 0):
		return apperror.ValidationFailed("name", "invalid file name")
	}
	return nil
}
