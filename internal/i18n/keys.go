package i18n

// Semantic keys. Every dictionary defines all of them.
const (
	KeyRun             = "run"
	KeyHistory         = "history"
	KeyTemp            = "temp"
	KeyClear           = "clear"
	KeyTimeoutEnable   = "timeout_enable"
	KeyTimeout         = "timeout"
	KeyModules         = "modules"
	KeyStdout          = "stdout"
	KeyStderr          = "stderr"
	KeyFiles           = "files"
	KeyNoOutput        = "no_output"
	KeyNoError         = "no_error"
	KeyClickLoad       = "click_load"
	KeyMsgDone         = "msg_done"
	KeyMsgError        = "msg_error"
	KeyMsgNetwork      = "msg_network"
	KeyMsgBusy         = "msg_busy"
	KeySettings        = "settings"
	KeyAbout           = "about"
	KeyThemeLight      = "theme_light"
	KeyThemeDark       = "theme_dark"
	KeyThemeAuto       = "theme_auto"
	KeyLanguage        = "language"
	KeySaveDone        = "save_done"
	KeyNoImport        = "no_import"
	KeyFileNone        = "file_none"
	KeyFileLoaded      = "file_loaded"
	KeyFilesUnit       = "files_unit"
	KeyView            = "view"
	KeyDownload        = "download"
	KeyRequestFailed   = "request_failed"
	KeySidebarCollapse = "sidebar_collapse"
	KeySidebarExpand   = "sidebar_expand"
)

// ThemeKey returns the key that names theme t ("theme_" + t).
func ThemeKey(theme string) string {
	return "theme_" + theme
}
