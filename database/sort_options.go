package database

const (
	SortRecent   = "recent"
	SortPopular  = "popular"
	SortTrending = "trending"
)

const DefaultSortOrder = SortRecent

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortRecent, SortPopular, SortTrending:
		return true
	default:
		return false
	}
}

// NormalizeSortOrder maps unknown sort values to the default instead of failing
func NormalizeSortOrder(order string) string {
	if IsValidSortOrder(order) {
		return order
	}
	return DefaultSortOrder
}
