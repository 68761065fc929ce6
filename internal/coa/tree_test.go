package coa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestBuildTreeNestsChildren(t *testing.T) {
	groups := []LedgerGroup{
		{ID: 1, Name: "Current Assets", Nature: NatureAssets, SortOrder: 1},
		{ID: 2, Name: "Bank Accounts", ParentID: ptr(1), Nature: NatureAssets, SortOrder: 2},
		{ID: 3, Name: "Cash-in-Hand", ParentID: ptr(1), Nature: NatureAssets, SortOrder: 1},
		{ID: 4, Name: "Sales Accounts", Nature: NatureIncome, SortOrder: 2},
	}

	roots := BuildTree(groups)
	require.Len(t, roots, 2)
	require.Equal(t, "Current Assets", roots[0].Name)
	require.Equal(t, "Sales Accounts", roots[1].Name)

	children := roots[0].Children
	require.Len(t, children, 2)
	require.Equal(t, "Cash-in-Hand", children[0].Name, "siblings sort by sort_order")
	require.Equal(t, "Bank Accounts", children[1].Name)
}

func TestBuildTreeDanglingParentBecomesRoot(t *testing.T) {
	groups := []LedgerGroup{
		{ID: 5, Name: "Orphan", ParentID: ptr(99), Nature: NatureExpense, SortOrder: 1},
	}

	roots := BuildTree(groups)
	require.Len(t, roots, 1)
	require.Equal(t, "Orphan", roots[0].Name)
	require.Empty(t, roots[0].Children)
}

func TestBuildTreeSelfParentBecomesRoot(t *testing.T) {
	groups := []LedgerGroup{
		{ID: 7, Name: "Loop", ParentID: ptr(7), Nature: NatureAssets, SortOrder: 1},
	}

	roots := BuildTree(groups)
	require.Len(t, roots, 1)
	require.Equal(t, "Loop", roots[0].Name)
}

func TestBuildTreeBreaksParentCycle(t *testing.T) {
	groups := []LedgerGroup{
		{ID: 10, Name: "Alpha", ParentID: ptr(11), Nature: NatureAssets, SortOrder: 1},
		{ID: 11, Name: "Beta", ParentID: ptr(10), Nature: NatureAssets, SortOrder: 2},
	}

	roots := BuildTree(groups)
	require.Len(t, roots, 1, "one cycle member is promoted to root")
	require.Equal(t, "Alpha", roots[0].Name, "lowest id wins")
	require.Len(t, roots[0].Children, 1)
	require.Equal(t, "Beta", roots[0].Children[0].Name)
	require.Empty(t, roots[0].Children[0].Children, "cycle edge back to the root is cut")
}

func TestBuildTreeCycleBelowValidRoot(t *testing.T) {
	groups := []LedgerGroup{
		{ID: 1, Name: "Assets", Nature: NatureAssets, SortOrder: 1},
		{ID: 2, Name: "Loans", ParentID: ptr(3), Nature: NatureAssets, SortOrder: 2},
		{ID: 3, Name: "Deposits", ParentID: ptr(2), Nature: NatureAssets, SortOrder: 3},
	}

	roots := BuildTree(groups)
	require.Len(t, roots, 2)

	names := func(level []*GroupNode) []string {
		out := make([]string, 0, len(level))
		for _, n := range level {
			out = append(out, n.Name)
		}
		return out
	}
	require.Equal(t, []string{"Assets", "Loans"}, names(roots))
	require.Equal(t, []string{"Deposits"}, names(roots[1].Children))
}

func TestBuildTreeSiblingTieBreaksByID(t *testing.T) {
	groups := []LedgerGroup{
		{ID: 2, Name: "B", Nature: NatureAssets, SortOrder: 1},
		{ID: 1, Name: "A", Nature: NatureAssets, SortOrder: 1},
	}

	roots := BuildTree(groups)
	require.Len(t, roots, 2)
	require.Equal(t, "A", roots[0].Name)
	require.Equal(t, "B", roots[1].Name)
}
