package events

// Event type constants
const (
	EventTorrentFinished = "torrent.finished"
	EventSelectionFailed = "selection.failed"
)

// TorrentFinished is emitted when the activation transport reports a
// completed torrent. RootPath is the download's output directory and is
// validated to exist before the event is published.
type TorrentFinished struct {
	BaseEvent
	RootPath string `json:"root_path"`
}

// NewTorrentFinished builds a TorrentFinished event for the given torrent.
func NewTorrentFinished(torrent, rootPath string) TorrentFinished {
	return TorrentFinished{
		BaseEvent: NewBaseEvent(EventTorrentFinished, torrent),
		RootPath:  rootPath,
	}
}

// SelectionFailed is emitted when a run could not complete for a torrent.
type SelectionFailed struct {
	BaseEvent
	RootPath string `json:"root_path"`
	Reason   string `json:"reason"`
}

// NewSelectionFailed builds a SelectionFailed event.
func NewSelectionFailed(torrent, rootPath, reason string) SelectionFailed {
	return SelectionFailed{
		BaseEvent: NewBaseEvent(EventSelectionFailed, torrent),
		RootPath:  rootPath,
		Reason:    reason,
	}
}
