package storage

import (
	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/entity"
)

// BuildSectionTree arranges flat section rows into a forest of nested
// nodes. The input must already be sorted (see [Store.SectionsByPage]);
// this function only partitions rows under their parents, preserving
// input order, so it runs in O(n) and never re-sorts.
//
// A row whose parent reference points outside the input set (an orphan,
// e.g. from a race with a concurrent delete) is promoted to the top
// level rather than dropped. The function is total over any input: it
// builds iteratively and never walks parent chains, so even a corrupted
// cycle cannot make it loop.
func BuildSectionTree(rows []*entity.Section) []*entity.SectionNode {
	nodes := make(map[ksid.ID]*entity.SectionNode, len(rows))
	for _, row := range rows {
		nodes[row.ID] = &entity.SectionNode{
			Section:   *row,
			Images:    []*entity.Image{},
			Documents: []*entity.Document{},
			Children:  []*entity.SectionNode{},
		}
	}

	top := []*entity.SectionNode{}
	for _, row := range rows {
		node := nodes[row.ID]
		if !row.ParentID.IsZero() {
			if parent, ok := nodes[row.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
			// Orphaned parent reference: keep the row reachable.
		}
		top = append(top, node)
	}
	return top
}

// WalkTree visits every node of the forest iteratively, depth-first.
func WalkTree(roots []*entity.SectionNode, visit func(*entity.SectionNode)) {
	stack := append([]*entity.SectionNode{}, roots...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(node)
		stack = append(stack, node.Children...)
	}
}
