package block

// Document is the ordered sequence of blocks produced from one content string.
// It is a derived value: recompute it from the source instead of mutating it.
type Document []Block

// Len returns the number of blocks.
func (d Document) Len() int {
	return len(d)
}

// Count returns the number of blocks of the given kind.
func (d Document) Count(kind Kind) int {
	n := 0
	for _, b := range d {
		if b.Kind() == kind {
			n++
		}
	}
	return n
}

// CountByKind returns a count for every kind, including zero counts.
func (d Document) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, len(Kinds()))
	for _, k := range Kinds() {
		counts[k] = 0
	}
	for _, b := range d {
		counts[b.Kind()]++
	}
	return counts
}

// Headings returns the heading blocks in order, useful for outlines.
func (d Document) Headings() []Heading {
	var out []Heading
	for _, b := range d {
		if h, ok := b.(Heading); ok {
			out = append(out, h)
		}
	}
	return out
}

// Equal reports whether two block sequences are structurally identical.
func Equal(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
