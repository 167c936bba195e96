package models

// MarkKind distinguishes gastronomy votes from favorites.
type MarkKind string

const (
	MarkVote MarkKind = "vote"
	MarkFav  MarkKind = "fav"
)

// Valid reports whether k is a known mark kind.
func (k MarkKind) Valid() bool {
	return k == MarkVote || k == MarkFav
}

// MarkCounts aggregates the marks of one restaurant.
type MarkCounts struct {
	Votes int
	Favs  int

	// MyVote and MyFav refer to the requesting device.
	MyVote bool
	MyFav  bool
}
