package spark

import "time"

// OutboundMessage is the payload for POST /messages. At least one of
// RoomID/ToPersonID/ToPersonEmail must be set by the caller; absent fields
// are omitted from the serialized body.
type OutboundMessage struct {
	RoomID        string `json:"roomId,omitempty"`
	ToPersonID    string `json:"toPersonId,omitempty"`
	ToPersonEmail string `json:"toPersonEmail,omitempty"`
	Text          string `json:"text,omitempty"`
	Markdown      string `json:"markdown,omitempty"`
	Files         string `json:"files,omitempty"`
}

// Person is the remote person entity, fetched on demand and never cached.
type Person struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Created     time.Time `json:"created"`
	Avatar      string    `json:"avatar"`
	Emails      []string  `json:"emails"`
}

// Room is one entry of the rooms collection.
type Room struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"` // "group" or "direct"
}

// RoomList is the decoded GET /rooms payload. Filtering is up to the caller.
type RoomList struct {
	Items []Room `json:"items"`
}

// Webhook is the payload for POST /webhooks. Name, TargetURL, Resource and
// Event are required by the API; Filter and Secret are optional.
type Webhook struct {
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
	Filter    string `json:"filter,omitempty"`
	Secret    string `json:"secret,omitempty"`
}
