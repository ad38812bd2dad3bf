package stepping

// nodeSet is an ordered set with O(1) add and remove.
// Removal swaps the last element into the vacated slot, so order is insertion order
// only until the first removal.
type nodeSet[N comparable] struct {
	nodes []N
	index map[N]int
}

func newNodeSet[N comparable]() *nodeSet[N] {
	return &nodeSet[N]{index: make(map[N]int)}
}

func (s *nodeSet[N]) add(n N) bool {
	if _, ok := s.index[n]; ok {
		return false
	}
	s.index[n] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return true
}

func (s *nodeSet[N]) remove(n N) bool {
	i, ok := s.index[n]
	if !ok {
		return false
	}
	last := len(s.nodes) - 1
	if i != last {
		moved := s.nodes[last]
		s.nodes[i] = moved
		s.index[moved] = i
	}
	var zero N
	s.nodes[last] = zero
	s.nodes = s.nodes[:last]
	delete(s.index, n)
	return true
}

func (s *nodeSet[N]) contains(n N) bool {
	_, ok := s.index[n]
	return ok
}

func (s *nodeSet[N]) len() int {
	return len(s.nodes)
}
