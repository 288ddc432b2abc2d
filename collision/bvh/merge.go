package bvh

// Merge two packed subtrees into a single array without adding a parent
// node. For each tree level i (starting at 1) the next 2^(i-1) nodes of left
// are appended followed by the next 2^(i-1) nodes of right.
//
// An empty right side returns left unchanged and vice versa; two empty
// sides yield an empty array.
func Merge(left, right []Node) []Node {
	switch {
	case len(left) == 0 && len(right) == 0:
		return []Node{}
	case len(right) == 0:
		return left
	case len(left) == 0:
		return right
	}

	out := make([]Node, 0, len(left)+len(right))
	for inc, li, ri := 1, 0, 0; li < len(left) || ri < len(right); inc <<= 1 {
		n := min(inc, len(left)-li)
		out = append(out, left[li:li+n]...)
		li += n

		n = min(inc, len(right)-ri)
		out = append(out, right[ri:ri+n]...)
		ri += n
	}
	return out
}
