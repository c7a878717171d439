package types

// Notification event types pushed to the GUI over the notify websocket.
const (
	NotifyTypeShareStarted   = "share_started"
	NotifyTypeShareStopped   = "share_stopped"
	NotifyTypeFileDownloaded = "file_downloaded"
	NotifyTypePeerDiscovered = "peer_discovered"
)

// Notification represents one event message for the notify hub.
type Notification struct {
	Type    string         `json:"type,omitempty"`    // e.g. "share_started", "file_downloaded"
	Title   string         `json:"title,omitempty"`   // notification title
	Message string         `json:"message,omitempty"` // notification message/content
	Data    map[string]any `json:"data,omitempty"`    // additional data fields
}
