// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Server Connection - these keys locate and identify against the remote media server.
const (
	ServerURL    = "server.url"
	ServerUserID = "server.user_id"
)

// Playback Coordination - these keys tune the adaptive playback coordinator.
const (
	PlaybackMode                 = "playback.mode"
	PlaybackMinBufferStart       = "playback.min_buffer_start"
	PlaybackMinBufferResume      = "playback.min_buffer_resume"
	PlaybackSeekRestartThreshold = "playback.seek_restart_threshold"
	PlaybackCompletionPercentage = "playback.completion_percentage"
)

// Media Player - these keys maintain the configuration for the external video player.
const (
	Player = "player.default"
)

// History Tracking - these keys configure the persistence of media consumption state.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Search Interaction - these keys define the UI/UX parameters for library discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
	SearchLimit                = "search.limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the playback shell's styling and logic.
const (
	TUIShowCompatReason = "tui.show_compat_reason"
	TUIItemSpacing      = "tui.item_spacing"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
