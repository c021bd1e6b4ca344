package host

// Set holds hosts deduplicated by Key, in insertion order.
type Set struct {
	index map[Key]int
	hosts []*Host
}

func NewSet(hosts ...*Host) *Set {
	s := &Set{index: make(map[Key]int)}
	for _, h := range hosts {
		s.Add(h)
	}
	return s
}

// Add stores h unless an equal host is already present. It reports whether
// h was added.
func (s *Set) Add(h *Host) bool {
	if _, exists := s.index[h.Key()]; exists {
		return false
	}
	s.index[h.Key()] = len(s.hosts)
	s.hosts = append(s.hosts, h)
	return true
}

func (s *Set) Get(k Key) (*Host, bool) {
	i, ok := s.index[k]
	if !ok {
		return nil, false
	}
	return s.hosts[i], true
}

func (s *Set) Remove(k Key) bool {
	i, ok := s.index[k]
	if !ok {
		return false
	}
	s.hosts = append(s.hosts[:i], s.hosts[i+1:]...)
	delete(s.index, k)
	for j := i; j < len(s.hosts); j++ {
		s.index[s.hosts[j].Key()] = j
	}
	return true
}

func (s *Set) Len() int {
	return len(s.hosts)
}

// Hosts returns the stored hosts in insertion order.
func (s *Set) Hosts() []*Host {
	out := make([]*Host, len(s.hosts))
	copy(out, s.hosts)
	return out
}
