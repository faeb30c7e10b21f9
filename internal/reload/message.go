package reload

// Message types understood by connected clients.
const (
	// TypeFullReload tells the client to reload the entire page.
	TypeFullReload = "full-reload"
	// TypeCustom carries a named event for the client runtime.
	TypeCustom = "custom"
)

// TurboRefreshEvent is the custom event asking the Turbo runtime to
// re-render in place instead of reloading the page.
const TurboRefreshEvent = "turbo-refresh"

// AllPaths is the full-reload path wildcard sent when Always is set.
const AllPaths = "*"

// Message is the payload pushed to connected browser clients.
type Message struct {
	Type  string `json:"type"`
	Path  string `json:"path,omitempty"`
	Event string `json:"event,omitempty"`
}

// FullReloadMessage builds a full-page reload instruction for path.
func FullReloadMessage(path string) Message {
	return Message{Type: TypeFullReload, Path: path}
}

// CustomMessage builds a custom client event with no payload beyond its name.
func CustomMessage(event string) Message {
	return Message{Type: TypeCustom, Event: event}
}
