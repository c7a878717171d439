package types

// PeerAnnouncement is the multicast UDP payload a droplink instance sends
// while a share is active, and what the listener parses from the wire.
type PeerAnnouncement struct {
	Alias       string `json:"alias"`
	Fingerprint string `json:"fingerprint"`
	Port        int    `json:"port"`
	PrimaryURL  string `json:"primaryUrl"`
	FileCount   int    `json:"fileCount"`
	Announce    bool   `json:"announce"` // false on goodbye messages
}

// PeerItem is a discovered peer as cached and exposed by the control API.
type PeerItem struct {
	Alias       string `json:"alias"`
	Fingerprint string `json:"fingerprint"`
	IPAddress   string `json:"ipAddress"`
	Port        int    `json:"port"`
	PrimaryURL  string `json:"primaryUrl"`
	FileCount   int    `json:"fileCount"`
}
