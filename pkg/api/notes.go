package api

type Note struct {
	ID         string `json:"id"`
	BlockID    string `json:"blockId"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	DeviceID   string `json:"deviceId"`
	// CreatedAt is a Unix timestamp in milliseconds.
	CreatedAt int64               `json:"createdAt"`
	Reactions map[string][]string `json:"reactions,omitempty"`
}

type PostNoteRequest struct {
	// ID is generated by the client; posting the same ID again is a no-op.
	ID         string `json:"id"`
	BlockID    string `json:"blockId"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName,omitempty"`
	CreatedAt  int64  `json:"createdAt,omitempty"`
}

type PostNoteResponse struct {
	Note    *Note `json:"note"`
	Created bool  `json:"created"`
}

type ListNotesRequest struct {
	BlockID string `json:"blockId"`
	Limit   int    `json:"limit,omitempty"`
}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

type ToggleReactionRequest struct {
	BlockID string `json:"blockId"`
	NoteID  string `json:"noteId"`
	Emoji   string `json:"emoji"`
}

type ToggleReactionResponse struct {
	Note *Note `json:"note"`
}
