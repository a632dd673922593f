// Package ui hosts the client components on a headless page model and wires
// user actions to them.
//
// Surface plays the part of the page: every component writes to it through
// a small interface, and a renderer (terminal, tests) reads Snapshot.
package ui

import (
	"context"
	"maps"
	"sync"

	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/model"
)

// TaggedKeys are the localization keys of the page's static labels, in page
// order.
var TaggedKeys = []string{
	i18n.KeyRun,
	i18n.KeyFiles,
	i18n.KeyHistory,
	i18n.KeyClear,
	i18n.KeySettings,
	i18n.KeyAbout,
	i18n.KeyTimeoutEnable,
	i18n.KeyTimeout,
	i18n.KeyStdout,
	i18n.KeyStderr,
	i18n.KeyModules,
	i18n.KeyTemp,
	i18n.KeyClickLoad,
	i18n.KeyView,
	i18n.KeyDownload,
	i18n.KeyLanguage,
	i18n.KeyThemeLight,
	i18n.KeyThemeDark,
	i18n.KeyThemeAuto,
	i18n.KeySidebarCollapse,
	i18n.KeySidebarExpand,
}

// Region is one output area. A region showing a localized placeholder keeps
// its key so a locale change re-renders it.
type Region struct {
	Text string
	Key  string
}

// Page is a point-in-time copy of the Surface.
type Page struct {
	Labels       map[string]string
	Regions      map[string]Region
	Files        []model.FileArtifact
	Main         model.RunControls
	Modal        model.RunControls
	Hidden       map[string]bool
	Theme        model.Theme
	Notification model.Notification
	NoteVisible  bool
	Editor       string
	Navigations  []string
}

// Surface is the headless page. It is safe for concurrent use: notification
// timers call into it from their own goroutines.
type Surface struct {
	mu sync.RWMutex

	labels      map[string]string
	regions     map[string]Region
	files       []model.FileArtifact
	main        model.RunControls
	modal       model.RunControls
	hidden      map[string]bool
	theme       model.Theme
	note        model.Notification
	noteVisible bool
	editor      string
	navigations []string
}

// NewSurface creates a page with the given editor text and main-panel
// controls. Both overlays start hidden, the theme is auto and the files
// region invites the user to load something.
func NewSurface(editor string, main model.RunControls) *Surface {
	labels := make(map[string]string, len(TaggedKeys))
	for _, k := range TaggedKeys {
		labels[k] = k
	}
	return &Surface{
		labels: labels,
		regions: map[string]Region{
			"files": {Text: i18n.KeyClickLoad, Key: i18n.KeyClickLoad},
		},
		main:   main,
		modal:  main,
		hidden: map[string]bool{"settings": true, "about": true},
		theme:  model.ThemeAuto,
		editor: editor,
	}
}

// Relabel rewrites every tagged label and every placeholder region.
func (s *Surface) Relabel(lookup func(key string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.labels {
		s.labels[k] = lookup(k)
	}
	for name, r := range s.regions {
		if r.Key != "" {
			r.Text = lookup(r.Key)
			s.regions[name] = r
		}
	}
}

// Label returns the displayed text of a tagged label.
func (s *Surface) Label(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labels[key]
}

func (s *Surface) SetRegionText(region, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[region] = Region{Text: text}
}

func (s *Surface) SetRegionKey(region, key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[region] = Region{Text: text, Key: key}
}

func (s *Surface) Region(name string) Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regions[name]
}

func (s *Surface) SetFileRows(rows []model.FileArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append([]model.FileArtifact(nil), rows...)
}

func (s *Surface) FileRows() []model.FileArtifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.FileArtifact(nil), s.files...)
}

func (s *Surface) MainControls() model.RunControls {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.main
}

func (s *Surface) SetMainControls(c model.RunControls) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.main = c
}

func (s *Surface) ModalControls() model.RunControls {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modal
}

func (s *Surface) SetModalControls(c model.RunControls) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = c
}

func (s *Surface) SetTheme(t model.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
}

func (s *Surface) Theme() model.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Surface) SetHidden(overlay string, hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden[overlay] = hidden
}

func (s *Surface) Hidden(overlay string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hidden[overlay]
}

func (s *Surface) ShowNotification(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.note = n
	s.noteVisible = true
}

func (s *Surface) HideNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteVisible = false
}

// Notification returns the last notification and whether it is still shown.
func (s *Surface) Notification() (model.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.note, s.noteVisible
}

// Text and SetText make the Surface the editor.
func (s *Surface) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editor
}

func (s *Surface) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor = text
}

// Navigate records a full-page navigation. Nothing is fetched.
func (s *Surface) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigations = append(s.navigations, url)
	return nil
}

// Snapshot copies the whole page.
func (s *Surface) Snapshot() Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Page{
		Labels:       maps.Clone(s.labels),
		Regions:      maps.Clone(s.regions),
		Files:        append([]model.FileArtifact(nil), s.files...),
		Main:         s.main,
		Modal:        s.modal,
		Hidden:       maps.Clone(s.hidden),
		Theme:        s.theme,
		Notification: s.note,
		NoteVisible:  s.noteVisible,
		Editor:       s.editor,
		Navigations:  append([]string(nil), s.navigations...),
	}
}
