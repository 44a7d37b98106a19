package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark row keys.
	// Full key: marq:bm:<owner>:<id>
	KeyPrefixBookmark = "marq:bm:"
	// KeyPrefixOwnerIndex is the prefix for the per-owner index zset,
	// scored by creation time. Full key: marq:bms:<owner>
	KeyPrefixOwnerIndex = "marq:bms:"
)

// BookmarkKey returns the Redis key for one bookmark row.
// Owner is part of the key, so every row access is owner-scoped.
func BookmarkKey(owner, id string) string {
	return KeyPrefixBookmark + owner + ":" + id
}

// OwnerIndexKey returns the Redis key for the owner's creation-time index.
func OwnerIndexKey(owner string) string {
	return KeyPrefixOwnerIndex + owner
}
