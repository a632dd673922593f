package i18n

// Locale tags.
const (
	LocaleZH = "zh"
	LocaleEN = "en"
	LocaleJP = "jp"
)

// Dictionary maps semantic keys to display strings for one locale.
type Dictionary map[string]string

// DefaultDictionaries returns a fresh copy of the built-in zh/en/jp tables.
func DefaultDictionaries() map[string]Dictionary {
	return map[string]Dictionary{
		LocaleZH: {
			KeyRun:             "运行",
			KeyHistory:         "历史",
			KeyTemp:            "Temp",
			KeyClear:           "清空",
			KeyTimeoutEnable:   "启用超时保护",
			KeyTimeout:         "超时(s)",
			KeyModules:         "模块解析",
			KeyStdout:          "stdout",
			KeyStderr:          "stderr",
			KeyFiles:           "操作/历史",
			KeyNoOutput:        "无输出",
			KeyNoError:         "无错误",
			KeyClickLoad:       "（点击历史或 TempFiles）",
			KeyMsgDone:         "执行完成 ✔",
			KeyMsgError:        "执行失败",
			KeyMsgNetwork:      "网络错误",
			KeyMsgBusy:         "正在执行，请稍候",
			KeySettings:        "设置",
			KeyAbout:           "关于",
			KeyThemeLight:      "亮色",
			KeyThemeDark:       "暗色",
			KeyThemeAuto:       "跟随系统",
			KeyLanguage:        "语言",
			KeySaveDone:        "设置已保存 ✔",
			KeyNoImport:        "未检测到 import",
			KeyFileNone:        "暂无临时文件",
			KeyFileLoaded:      "已加载到编辑器",
			KeyFilesUnit:       "个文件",
			KeyView:            "查看",
			KeyDownload:        "下载",
			KeyRequestFailed:   "请求失败",
			KeySidebarCollapse: "折叠",
			KeySidebarExpand:   "展开",
		},
		LocaleEN: {
			KeyRun:             "Run",
			KeyHistory:         "History",
			KeyTemp:            "Temp",
			KeyClear:           "Clear",
			KeyTimeoutEnable:   "Enable Timeout",
			KeyTimeout:         "Timeout(s)",
			KeyModules:         "Modules",
			KeyStdout:          "stdout",
			KeyStderr:          "stderr",
			KeyFiles:           "Files/History",
			KeyNoOutput:        "No Output",
			KeyNoError:         "No Error",
			KeyClickLoad:       "(Click History or TempFiles)",
			KeyMsgDone:         "Execution Done ✔",
			KeyMsgError:        "Execution Failed",
			KeyMsgNetwork:      "Network Error",
			KeyMsgBusy:         "A run is already in progress",
			KeySettings:        "Settings",
			KeyAbout:           "About",
			KeyThemeLight:      "Light",
			KeyThemeDark:       "Dark",
			KeyThemeAuto:       "Auto",
			KeyLanguage:        "Language",
			KeySaveDone:        "Settings Saved ✔",
			KeyNoImport:        "No imports detected",
			KeyFileNone:        "No temporary files",
			KeyFileLoaded:      "Loaded to editor",
			KeyFilesUnit:       "files",
			KeyView:            "View",
			KeyDownload:        "Download",
			KeyRequestFailed:   "Request failed",
			KeySidebarCollapse: "Collapse",
			KeySidebarExpand:   "Expand",
		},
		LocaleJP: {
			KeyRun:             "実行",
			KeyHistory:         "履歴",
			KeyTemp:            "Temp",
			KeyClear:           "クリア",
			KeyTimeoutEnable:   "タイムアウト有効",
			KeyTimeout:         "タイムアウト(s)",
			KeyModules:         "モジュール解析",
			KeyStdout:          "stdout",
			KeyStderr:          "stderr",
			KeyFiles:           "操作/履歴",
			KeyNoOutput:        "出力なし",
			KeyNoError:         "エラーなし",
			KeyClickLoad:       "（履歴または TempFiles をクリック）",
			KeyMsgDone:         "実行完了 ✔",
			KeyMsgError:        "実行失敗",
			KeyMsgNetwork:      "ネットワークエラー",
			KeyMsgBusy:         "実行中です",
			KeySettings:        "設定",
			KeyAbout:           "情報",
			KeyThemeLight:      "ライト",
			KeyThemeDark:       "ダーク",
			KeyThemeAuto:       "システムに合わせる",
			KeyLanguage:        "言語",
			KeySaveDone:        "設定を保存 ✔",
			KeyNoImport:        "import は検出されません",
			KeyFileNone:        "一時ファイルなし",
			KeyFileLoaded:      "エディタに読み込みました",
			KeyFilesUnit:       "ファイル",
			KeyView:            "表示",
			KeyDownload:        "ダウンロード",
			KeyRequestFailed:   "リクエスト失敗",
			KeySidebarCollapse: "折りたたむ",
			KeySidebarExpand:   "展開",
		},
	}
}
