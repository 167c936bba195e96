package models

// Reaction emojis a note can receive.
const (
	ReactionThumbsUp = "👍"
	ReactionHeart    = "❤️"
	ReactionRamen    = "🍜"
)

// ReactionEmojis lists the allowed reactions in display order.
var ReactionEmojis = []string{ReactionThumbsUp, ReactionHeart, ReactionRamen}

// MaxNoteLength bounds the content of a single note.
const MaxNoteLength = 2000

// NoteListLimit is how many notes a block returns at most.
const NoteListLimit = 100

// Note is a message posted on an itinerary block (one day of the trip).
type Note struct {
	// ID is generated by the posting device so that replays are idempotent.
	ID      string
	TripID  string
	BlockID string

	Content    string
	AuthorName string
	DeviceID   string

	// CreatedAt is a Unix timestamp in milliseconds.
	CreatedAt int64

	// Reactions maps an emoji to the devices that reacted with it.
	Reactions map[string][]string
}

// IsReaction reports whether emoji is one of the allowed reactions.
func IsReaction(emoji string) bool {
	for _, e := range ReactionEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}
