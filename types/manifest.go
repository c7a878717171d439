package types

// FileEntry describes one shareable file inside a manifest.
// SourcePath is process-local and must never reach a client.
type FileEntry struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	DownloadName string `json:"downloadName"`
	Size         int64  `json:"size"`
	Extension    string `json:"extension,omitempty"`
	MimeType     string `json:"mimeType"`
	SourcePath   string `json:"-"`
}

// Meta returns the client-visible projection of the entry.
func (e FileEntry) Meta() FileMeta {
	return FileMeta{
		ID:           e.ID,
		DisplayName:  e.DisplayName,
		DownloadName: e.DownloadName,
		Size:         e.Size,
		Extension:    e.Extension,
		MimeType:     e.MimeType,
	}
}

// FileMeta is what snapshot() and the control API expose per file.
type FileMeta struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	DownloadName string `json:"downloadName"`
	Size         int64  `json:"size"`
	Extension    string `json:"extension,omitempty"`
	MimeType     string `json:"mimeType"`
}

// SessionDescriptor is the read-only description of an active share
// returned to the caller of start and snapshot.
type SessionDescriptor struct {
	Port       int        `json:"port"`
	Addresses  []string   `json:"addresses"`
	PrimaryURL string     `json:"primaryUrl"`
	Files      []FileMeta `json:"files"`
}

// Clone returns a deep copy so callers can hold the descriptor after the
// session it came from is torn down.
func (d *SessionDescriptor) Clone() *SessionDescriptor {
	if d == nil {
		return nil
	}
	out := &SessionDescriptor{
		Port:       d.Port,
		PrimaryURL: d.PrimaryURL,
		Addresses:  make([]string, len(d.Addresses)),
		Files:      make([]FileMeta, len(d.Files)),
	}
	copy(out.Addresses, d.Addresses)
	copy(out.Files, d.Files)
	return out
}
