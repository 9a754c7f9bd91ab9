package unionfind

// Set is a disjoint-set forest over keys of type K.
// The zero value is not usable; construct with New.
type Set[K comparable] struct {
	parent map[K]K
	rank   map[K]int
	order  []K // insertion order; keeps Roots/Components deterministic
}

// New returns a Set holding each key as a singleton. Duplicate keys are ignored.
func New[K comparable](keys ...K) *Set[K] {
	s := &Set[K]{
		parent: make(map[K]K, len(keys)),
		rank:   make(map[K]int, len(keys)),
		order:  make([]K, 0, len(keys)),
	}
	for _, k := range keys {
		s.Add(k)
	}

	return s
}

// Add registers k as a singleton; it is a no-op when k is already known.
func (s *Set[K]) Add(k K) {
	if _, ok := s.parent[k]; ok {
		return
	}
	s.parent[k] = k
	s.rank[k] = 0
	s.order = append(s.order, k)
}

// Has reports whether k has been registered.
func (s *Set[K]) Has(k K) bool {
	_, ok := s.parent[k]

	return ok
}

// Len returns the number of registered keys.
func (s *Set[K]) Len() int { return len(s.order) }

// Find returns the canonical representative of k's set, registering k first
// if it is unknown. Compression is done in a second pass, not by recursion.
func (s *Set[K]) Find(k K) K {
	s.Add(k)

	// 1. Walk up to the root.
	root := k
	for s.parent[root] != root {
		root = s.parent[root]
	}

	// 2. Point every node on the path directly at the root.
	for k != root {
		next := s.parent[k]
		s.parent[k] = root
		k = next
	}

	return root
}

// Union merges the sets containing a and b and reports whether they were
// disjoint. The higher-rank root survives; ties keep a's root.
func (s *Set[K]) Union(a, b K) bool {
	ra, rb := s.Find(a), s.Find(b)
	if ra == rb {
		return false
	}
	if s.rank[ra] < s.rank[rb] {
		ra, rb = rb, ra
	}
	s.parent[rb] = ra
	if s.rank[ra] == s.rank[rb] {
		s.rank[ra]++
	}

	return true
}

// Same reports whether a and b are in the same set.
// It returns false, not an error, when either key is unknown.
func (s *Set[K]) Same(a, b K) bool {
	if !s.Has(a) || !s.Has(b) {
		return false
	}

	return s.Find(a) == s.Find(b)
}

// Copy returns a deep copy; mutations of either side never affect the other.
func (s *Set[K]) Copy() *Set[K] {
	c := &Set[K]{
		parent: make(map[K]K, len(s.parent)),
		rank:   make(map[K]int, len(s.rank)),
		order:  make([]K, len(s.order)),
	}
	for k, p := range s.parent {
		c.parent[k] = p
	}
	for k, r := range s.rank {
		c.rank[k] = r
	}
	copy(c.order, s.order)

	return c
}

// Roots returns one representative per set, ordered by first registration of
// any member.
func (s *Set[K]) Roots() []K {
	seen := make(map[K]struct{}, len(s.order))
	out := make([]K, 0)
	for _, k := range s.order {
		r := s.Find(k)
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}

	return out
}

// Components groups every registered key by representative, in the order of
// Roots; members keep registration order.
func (s *Set[K]) Components() [][]K {
	idx := make(map[K]int)
	var out [][]K
	for _, k := range s.order {
		r := s.Find(k)
		i, ok := idx[r]
		if !ok {
			i = len(out)
			idx[r] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], k)
	}

	return out
}

// Count returns the number of disjoint sets.
func (s *Set[K]) Count() int { return len(s.Roots()) }
