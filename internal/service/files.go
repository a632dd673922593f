package service

import (
	"log/slog"

	"github.com/sakif/pysnap/internal/model"
)

// FileStore is the temp directory as the file endpoints see it.
type FileStore interface {
	List(limit int) ([]model.FileArtifact, error)
	Read(name string) (string, error)
	Path(name string) (string, error)
	Clear() (int, error)
}

// FileService lists, reads and clears saved runs.
type FileService struct {
	store   FileStore
	maxList int
	logger  *slog.Logger
}

// NewFileService caps every listing at maxList entries.
func NewFileService(store FileStore, maxList int, logger *slog.Logger) *FileService {
	if maxList <= 0 {
		maxList = 100
	}
	return &FileService{store: store, maxList: maxList, logger: logger}
}

// List returns up to limit files, newest first. A limit outside
// (0, maxList] is clamped to maxList.
func (s *FileService) List(limit int) ([]model.FileArtifact, error) {
	if limit <= 0 || limit > s.maxList {
		limit = s.maxList
	}
	return s.store.List(limit)
}

func (s *FileService) Read(name string) (string, error) {
	return s.store.Read(name)
}

// Path resolves name for download.
func (s *FileService) Path(name string) (string, error) {
	return s.store.Path(name)
}

func (s *FileService) Clear() (int, error) {
	n, err := s.store.Clear()
	if err != nil {
		return 0, err
	}
	s.logger.Info("temp files cleared", slog.Int("deleted", n))
	return n, nil
}
