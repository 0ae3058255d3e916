package random

// Shuffle returns a shuffled copy of items using the Durstenfeld variant of
// Fisher-Yates. The input slice is left untouched.
func Shuffle[T any](items []T, src Source) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}
