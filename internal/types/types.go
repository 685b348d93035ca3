package types

// ServerMessage is the only frame the dashboard sends over /ws.
type ServerMessage struct {
	Type    string `json:"type"` // "View" | "Error"
	Version int    `json:"version,omitempty"`
	HTML    string `json:"html,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	MsgView  = "View"
	MsgError = "Error"
)
