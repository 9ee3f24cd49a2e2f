package gridlayout

// ArrayMove returns a copy of items with the element at from relocated to
// to. Elements between the two positions shift by one; every other element
// keeps its relative order. Out of range indexes return an unchanged copy.
func ArrayMove[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}
