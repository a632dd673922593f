package model

import "math"

// FileArtifact is one server-side temporary file produced by a run.
// Name is unique within a listing. Size is a JSON number and may be
// fractional on the wire; it is rounded for display.
type FileArtifact struct {
	Name    string  `json:"name"`
	Path    string  `json:"path,omitempty"`
	Size    float64 `json:"size"`
	ModTime float64 `json:"mtime,omitempty"`
}

// SizeBytes is Size rounded to the nearest byte.
func (f FileArtifact) SizeBytes() int64 {
	return int64(math.Round(f.Size))
}

// FilesResponse is the body of GET /files.
type FilesResponse struct {
	OK    bool           `json:"ok"`
	Error string         `json:"error,omitempty"`
	Files []FileArtifact `json:"files"`
}

// FileResponse is the body of GET /file/{name}.
type FileResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// ClearResponse is the body of DELETE /clear. The client does not check OK.
type ClearResponse struct {
	OK      bool `json:"ok"`
	Deleted int  `json:"deleted"`
}
