package catalog

import (
	"sort"
	"strings"

	"github.com/spongik/storefront/internal/models"
)

// Node 分类树节点
type Node struct {
	Category models.Category `json:"category"`
	Children []*Node         `json:"children,omitempty"`
	parent   *Node
}

// FlatNode 扁平化后的分类（带层级）
type FlatNode struct {
	Category    models.Category `json:"category"`
	Depth       int             `json:"depth"`
	HasChildren bool            `json:"has_children"`
}

// Tree 由扁平列表组装的分类树
type Tree struct {
	roots  []*Node
	bySlug map[string]*Node
	byID   map[uint]*Node
}

// BuildTree 组装分类树：丢弃未启用分类，父节点缺失的分类提升为根
func BuildTree(categories []models.Category) *Tree {
	t := &Tree{
		bySlug: make(map[string]*Node, len(categories)),
		byID:   make(map[uint]*Node, len(categories)),
	}
	nodes := make([]*Node, 0, len(categories))
	for _, c := range categories {
		if !c.IsActive || c.Slug == "" {
			continue
		}
		if _, dup := t.byID[c.ID]; dup {
			continue
		}
		n := &Node{Category: c}
		nodes = append(nodes, n)
		t.byID[c.ID] = n
		t.bySlug[c.Slug] = n
	}
	for _, n := range nodes {
		pid := n.Category.ParentID
		if pid != nil && *pid != n.Category.ID {
			if parent, ok := t.byID[*pid]; ok && !t.isAncestor(n, parent) {
				n.parent = parent
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		t.roots = append(t.roots, n)
	}
	sortNodes(t.roots)
	for _, n := range nodes {
		sortNodes(n.Children)
	}
	return t
}

// isAncestor 判断 n 是否出现在 candidate 的祖先链上（防止环）
func (t *Tree) isAncestor(n, candidate *Node) bool {
	for p := candidate; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Category.SortOrder < nodes[j].Category.SortOrder
	})
}

// Roots 根节点
func (t *Tree) Roots() []*Node {
	if t == nil {
		return nil
	}
	return t.roots
}

// Len 分类数量
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bySlug)
}

// Lookup 按 slug 查找分类
func (t *Tree) Lookup(slug string) (models.Category, bool) {
	if t == nil {
		return models.Category{}, false
	}
	n, ok := t.bySlug[slug]
	if !ok {
		return models.Category{}, false
	}
	return n.Category, true
}

// HasChildren 是否有子分类
func (t *Tree) HasChildren(slug string) bool {
	if t == nil {
		return false
	}
	n, ok := t.bySlug[slug]
	return ok && len(n.Children) > 0
}

// Descendants 所有后代 slug（深度优先）
func (t *Tree) Descendants(slug string) []string {
	if t == nil {
		return nil
	}
	n, ok := t.bySlug[slug]
	if !ok {
		return nil
	}
	var out []string
	var walk func(*Node)
	walk = func(node *Node) {
		for _, child := range node.Children {
			out = append(out, child.Category.Slug)
			walk(child)
		}
	}
	walk(n)
	return out
}

// Parent 父分类 slug
func (t *Tree) Parent(slug string) (string, bool) {
	if t == nil {
		return "", false
	}
	n, ok := t.bySlug[slug]
	if !ok || n.parent == nil {
		return "", false
	}
	return n.parent.Category.Slug, true
}

// Ancestors 祖先 slug，由近及远
func (t *Tree) Ancestors(slug string) []string {
	if t == nil {
		return nil
	}
	n, ok := t.bySlug[slug]
	if !ok {
		return nil
	}
	var out []string
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p.Category.Slug)
	}
	return out
}

// Flatten 深度优先展开，用于渲染
func (t *Tree) Flatten() []FlatNode {
	if t == nil {
		return nil
	}
	var out []FlatNode
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			out = append(out, FlatNode{Category: n.Category, Depth: depth, HasChildren: len(n.Children) > 0})
			walk(n.Children, depth+1)
		}
	}
	walk(t.roots, 0)
	return out
}

// Search 按名称筛选分类，保留命中项的祖先
func (t *Tree) Search(query string) *Tree {
	query = strings.ToLower(strings.TrimSpace(query))
	if t == nil || query == "" {
		return t
	}
	keep := make(map[uint]bool)
	for _, n := range t.byID {
		if !strings.Contains(strings.ToLower(n.Category.Name), query) {
			continue
		}
		for p := n; p != nil; p = p.parent {
			keep[p.Category.ID] = true
		}
	}
	var picked []models.Category
	for _, flat := range t.Flatten() {
		if keep[flat.Category.ID] {
			picked = append(picked, flat.Category)
		}
	}
	return BuildTree(picked)
}
