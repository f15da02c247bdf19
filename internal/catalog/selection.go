package catalog

// Toggle 切换分类选择
//
// slug 为空表示“全部分类”，清空选择。
// 选中父分类会同时选中全部后代；取消其中一个后代时，已选中的祖先被移除，
// 其余后代保持单独选中。
func Toggle(tree *Tree, selected []string, slug string) []string {
	if slug == "" {
		return []string{}
	}
	set := newOrderedSet(selected)
	subtree := append([]string{slug}, tree.Descendants(slug)...)

	if set.has(slug) {
		set.remove(subtree...)
		excluded := make(map[string]bool, len(subtree))
		for _, s := range subtree {
			excluded[s] = true
		}
		ancestors := tree.Ancestors(slug)
		for _, a := range ancestors {
			excluded[a] = true
		}
		for _, a := range ancestors {
			if !set.has(a) {
				continue
			}
			set.remove(a)
			for _, d := range tree.Descendants(a) {
				if !excluded[d] {
					set.add(d)
				}
			}
		}
		return set.items()
	}

	for _, a := range tree.Ancestors(slug) {
		if set.has(a) {
			set.remove(a)
			set.remove(tree.Descendants(a)...)
		}
	}
	set.remove(subtree...)
	set.add(subtree...)
	return set.items()
}

// IsSelected 分类是否选中
func IsSelected(selected []string, slug string) bool {
	if slug == "" {
		return len(selected) == 0
	}
	for _, s := range selected {
		if s == slug {
			return true
		}
	}
	return false
}

type orderedSet struct {
	order []string
	index map[string]bool
}

func newOrderedSet(values []string) *orderedSet {
	s := &orderedSet{index: make(map[string]bool, len(values))}
	s.add(values...)
	return s
}

func (s *orderedSet) has(v string) bool {
	return s.index[v]
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if v == "" || s.index[v] {
			continue
		}
		s.index[v] = true
		s.order = append(s.order, v)
	}
}

func (s *orderedSet) remove(values ...string) {
	if len(values) == 0 {
		return
	}
	drop := make(map[string]bool, len(values))
	for _, v := range values {
		if s.index[v] {
			drop[v] = true
			delete(s.index, v)
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := s.order[:0]
	for _, v := range s.order {
		if !drop[v] {
			kept = append(kept, v)
		}
	}
	s.order = kept
}

func (s *orderedSet) items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
