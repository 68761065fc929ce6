package coa

import "sort"

// GroupNode is a ledger group with its resolved children.
type GroupNode struct {
	LedgerGroup
	Children []*GroupNode `json:"children,omitempty"`
}

// BuildTree reconstructs the group hierarchy from flat parent_id rows.
// A node whose parent is not present in the input set is treated as a root.
// Siblings are ordered by sort_order ascending, id as tie-break.
func BuildTree(groups []LedgerGroup) []*GroupNode {
	nodes := make(map[int64]*GroupNode, len(groups))
	for _, g := range groups {
		nodes[g.ID] = &GroupNode{LedgerGroup: g}
	}

	var roots []*GroupNode
	for _, g := range groups {
		node := nodes[g.ID]
		if g.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*g.ParentID]
		if !ok || *g.ParentID == g.ID {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// A parent cycle in the rows leaves its members with no path to a root,
	// so the whole component would vanish from the tree. Promote the
	// lowest-id member of each unreachable component to root.
	reachable := make(map[int64]bool, len(nodes))
	var mark func(n *GroupNode)
	mark = func(n *GroupNode) {
		if reachable[n.ID] {
			return
		}
		reachable[n.ID] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for {
		var pick *GroupNode
		for id, n := range nodes {
			if !reachable[id] && (pick == nil || n.ID < pick.ID) {
				pick = n
			}
		}
		if pick == nil {
			break
		}
		parent := nodes[*pick.ParentID]
		for i, c := range parent.Children {
			if c == pick {
				parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
				break
			}
		}
		roots = append(roots, pick)
		mark(pick)
	}

	var sortLevel func(level []*GroupNode)
	sortLevel = func(level []*GroupNode) {
		sort.SliceStable(level, func(i, j int) bool {
			if level[i].SortOrder != level[j].SortOrder {
				return level[i].SortOrder < level[j].SortOrder
			}
			return level[i].ID < level[j].ID
		})
		for _, n := range level {
			sortLevel(n.Children)
		}
	}
	sortLevel(roots)

	return roots
}
