package models

// ClassMap is a bijection between class names and dense labels 0..K-1.
// Names is the only serialized state; the reverse index is rebuilt on demand.
type ClassMap struct {
	Names []string `msgpack:"names"`

	index map[string]int
}

// NewClassMap builds a map from labels in first-seen order.
func NewClassMap(labels []string) *ClassMap {
	m := &ClassMap{index: make(map[string]int)}
	for _, name := range labels {
		if _, ok := m.index[name]; ok {
			continue
		}
		m.index[name] = len(m.Names)
		m.Names = append(m.Names, name)
	}
	return m
}

func (m *ClassMap) Len() int {
	return len(m.Names)
}

func (m *ClassMap) Label(name string) (int, bool) {
	if m.index == nil {
		m.index = make(map[string]int, len(m.Names))
		for i, n := range m.Names {
			m.index[n] = i
		}
	}
	l, ok := m.index[name]
	return l, ok
}

func (m *ClassMap) Name(label int) string {
	return m.Names[label]
}

// Encode translates names to labels. Unknown names map to -1.
func (m *ClassMap) Encode(names []string) []int {
	out := make([]int, len(names))
	for i, n := range names {
		l, ok := m.Label(n)
		if !ok {
			l = -1
		}
		out[i] = l
	}
	return out
}
