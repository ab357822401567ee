package domain

// LikesStore is the read/query/mutate contract consumers get injected with.
// Display components and the analytics sync never touch the backing store directly.
type LikesStore interface {
	// Add appends movie to the LikedSet; false if its ID is already liked
	Add(movie Movie) bool

	// Remove drops every entry with the given ID; false if none matched
	Remove(id int64) bool

	// IsLiked reports whether some entry has the given ID
	IsLiked(id int64) bool

	// Snapshot returns a copy of the LikedSet in like order
	Snapshot() []Movie
}

// KVStore is durable string-keyed, string-valued storage that survives restarts.
type KVStore interface {
	// Get returns the value and whether the key was present
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
	Close() error
}
