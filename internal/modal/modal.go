// Package modal opens and closes the settings and about overlays.
//
// The overlays are independent: opening one never closes or blocks the
// other. Value synchronization for the settings overlay is delegated to the
// settings coordinator.
package modal

// Overlay names.
const (
	Settings = "settings"
	About    = "about"
)

// Overlays toggles an overlay's hidden state.
type Overlays interface {
	SetHidden(overlay string, hidden bool)
}

// Editing is the draft/commit protocol of the settings overlay.
type Editing interface {
	BeginEdit()
	Commit()
}

type Coordinator struct {
	overlays Overlays
	editing  Editing
}

func New(overlays Overlays, editing Editing) *Coordinator {
	return &Coordinator{overlays: overlays, editing: editing}
}

// OpenSettings loads the committed values into the draft and shows the overlay.
func (c *Coordinator) OpenSettings() {
	c.overlays.SetHidden(Settings, false)
	c.editing.BeginEdit()
}

// SaveSettings commits the draft and hides the overlay. It is the designated
// close control.
func (c *Coordinator) SaveSettings() {
	c.editing.Commit()
	c.overlays.SetHidden(Settings, true)
}

// DismissSettings hides the overlay without committing; draft edits are lost.
func (c *Coordinator) DismissSettings() {
	c.overlays.SetHidden(Settings, true)
}

func (c *Coordinator) OpenAbout() {
	c.overlays.SetHidden(About, false)
}

func (c *Coordinator) CloseAbout() {
	c.overlays.SetHidden(About, true)
}
