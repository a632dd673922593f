package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/model"
)

// Render writes a plain-text rendition of page to w.
func Render(w io.Writer, page Page) error {
	var b strings.Builder
	label := func(key string) string {
		if l, ok := page.Labels[key]; ok {
			return l
		}
		return key
	}
	section := func(key, body string) {
		fmt.Fprintf(&b, "── %s ──\n", label(key))
		if body != "" {
			b.WriteString(body)
			if !strings.HasSuffix(body, "\n") {
				b.WriteByte('\n')
			}
		}
	}

	enabled := "off"
	if page.Main.TimeoutEnabled {
		enabled = "on"
	}
	fmt.Fprintf(&b, "[%s] %s: %s  %s: %s  theme: %s\n",
		label(i18n.KeyRun), label(i18n.KeyTimeout), page.Main.Timeout,
		label(i18n.KeyTimeoutEnable), enabled, page.Theme)

	section(i18n.KeyStdout, page.Regions["stdout"].Text)
	section(i18n.KeyStderr, page.Regions["stderr"].Text)
	section(i18n.KeyModules, page.Regions["modules"].Text)

	var files strings.Builder
	files.WriteString(page.Regions["files"].Text)
	for _, f := range page.Files {
		if files.Len() > 0 {
			files.WriteByte('\n')
		}
		fmt.Fprintf(&files, "%s (%d bytes)  [%s] [%s]",
			f.Name, f.SizeBytes(), label(i18n.KeyView), label(i18n.KeyDownload))
	}
	section(i18n.KeyFiles, files.String())

	if !page.Hidden["settings"] {
		modalEnabled := "off"
		if page.Modal.TimeoutEnabled {
			modalEnabled = "on"
		}
		fmt.Fprintf(&b, "┌ %s: %s: %s  %s: %s  [%s|%s|%s]\n",
			label(i18n.KeySettings),
			label(i18n.KeyTimeout), page.Modal.Timeout,
			label(i18n.KeyTimeoutEnable), modalEnabled,
			label(i18n.KeyThemeLight), label(i18n.KeyThemeDark), label(i18n.KeyThemeAuto))
	}
	if !page.Hidden["about"] {
		fmt.Fprintf(&b, "┌ %s: PySnap\n", label(i18n.KeyAbout))
	}

	if page.NoteVisible {
		mark := "•"
		if page.Notification.Severity == model.SeverityError {
			mark = "!"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, page.Notification.Text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
