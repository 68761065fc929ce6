package coa

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/insuite-dev/insuite/internal/shared"
)

type fakeRepo struct {
	nextID  int64
	groups  map[int64]LedgerGroup
	ledgers map[int64]Ledger
	entries map[int64]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		groups:  make(map[int64]LedgerGroup),
		ledgers: make(map[int64]Ledger),
		entries: make(map[int64]int),
	}
}

func (f *fakeRepo) addGroup(g LedgerGroup) LedgerGroup {
	f.nextID++
	g.ID = f.nextID
	f.groups[g.ID] = g
	return g
}

func (f *fakeRepo) addLedger(l Ledger) Ledger {
	f.nextID++
	l.ID = f.nextID
	f.ledgers[l.ID] = l
	return l
}

func (f *fakeRepo) ListGroups(ctx context.Context, companyID int64) ([]LedgerGroup, error) {
	var out []LedgerGroup
	for _, g := range f.groups {
		if g.CompanyID == companyID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetGroup(ctx context.Context, id int64) (LedgerGroup, error) {
	g, ok := f.groups[id]
	if !ok {
		return LedgerGroup{}, shared.ErrNotFound
	}
	return g, nil
}

func (f *fakeRepo) InsertGroup(ctx context.Context, g LedgerGroup) (LedgerGroup, error) {
	return f.addGroup(g), nil
}

func (f *fakeRepo) UpdateGroup(ctx context.Context, g LedgerGroup) error {
	if _, ok := f.groups[g.ID]; !ok {
		return shared.ErrNotFound
	}
	f.groups[g.ID] = g
	return nil
}

func (f *fakeRepo) DeleteGroup(ctx context.Context, id int64) error {
	if _, ok := f.groups[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.groups, id)
	return nil
}

func (f *fakeRepo) GroupNameExists(ctx context.Context, companyID int64, parentID *int64, name string, excludeID int64) (bool, error) {
	for _, g := range f.groups {
		if g.CompanyID != companyID || g.ID == excludeID {
			continue
		}
		sameParent := (g.ParentID == nil && parentID == nil) ||
			(g.ParentID != nil && parentID != nil && *g.ParentID == *parentID)
		if sameParent && strings.EqualFold(g.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CountChildGroups(ctx context.Context, id int64) (int, error) {
	n := 0
	for _, g := range f.groups {
		if g.ParentID != nil && *g.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountGroupLedgers(ctx context.Context, groupID int64) (int, error) {
	n := 0
	for _, l := range f.ledgers {
		if l.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ListLedgers(ctx context.Context, filter ListLedgersFilter) ([]Ledger, error) {
	var out []Ledger
	for _, l := range f.ledgers {
		if l.CompanyID != filter.CompanyID {
			continue
		}
		if filter.GroupID != nil && l.GroupID != *filter.GroupID {
			continue
		}
		if filter.IsActive != nil && l.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeRepo) GetLedger(ctx context.Context, id int64) (Ledger, error) {
	l, ok := f.ledgers[id]
	if !ok {
		return Ledger{}, shared.ErrNotFound
	}
	return l, nil
}

func (f *fakeRepo) InsertLedger(ctx context.Context, l Ledger) (Ledger, error) {
	return f.addLedger(l), nil
}

func (f *fakeRepo) UpdateLedger(ctx context.Context, l Ledger) error {
	if _, ok := f.ledgers[l.ID]; !ok {
		return shared.ErrNotFound
	}
	f.ledgers[l.ID] = l
	return nil
}

func (f *fakeRepo) DeleteLedger(ctx context.Context, id int64) error {
	if _, ok := f.ledgers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.ledgers, id)
	return nil
}

func (f *fakeRepo) LedgerNameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	for _, l := range f.ledgers {
		if l.CompanyID == companyID && l.ID != excludeID && strings.EqualFold(l.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CountLedgerEntries(ctx context.Context, ledgerID int64) (int, error) {
	return f.entries[ledgerID], nil
}

func TestDeleteGroupBlockedByChildren(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	// Default flag set on purpose: children must be reported first.
	parent := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Current Assets", Nature: NatureAssets, IsDefault: true})
	repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Bank Accounts", ParentID: &parent.ID, Nature: NatureAssets})

	err := svc.DeleteGroup(context.Background(), parent.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Contains(t, err.Error(), "child groups")
	require.Contains(t, repo.groups, parent.ID)
}

func TestDeleteGroupBlockedByLedgers(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	// Childless but default: the ledger guard still fires before the flag.
	group := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Cash-in-Hand", Nature: NatureAssets, IsDefault: true})
	repo.addLedger(Ledger{CompanyID: 1, Name: "Cash", GroupID: group.ID})

	err := svc.DeleteGroup(context.Background(), group.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Contains(t, err.Error(), "ledgers")
	require.Contains(t, repo.groups, group.ID)
}

func TestDeleteGroupBlockedByDefaultFlag(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	group := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Sales Accounts", Nature: NatureIncome, IsDefault: true})

	err := svc.DeleteGroup(context.Background(), group.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Contains(t, err.Error(), "default group")
	require.Contains(t, repo.groups, group.ID)
}

func TestDeleteGroupSucceeds(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	group := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Obsolete Expenses", Nature: NatureExpense})

	require.NoError(t, svc.DeleteGroup(context.Background(), group.ID))
	require.NotContains(t, repo.groups, group.ID)

	err := svc.DeleteGroup(context.Background(), group.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateGroupRejectsSelfParent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	group := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Indirect Expenses", Nature: NatureExpense})

	_, err := svc.UpdateGroup(context.Background(), group.ID, UpdateGroupRequest{ParentID: &group.ID})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateGroupRejectsDescendantParent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	top := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Expenses", Nature: NatureExpense})
	mid := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Office", ParentID: &top.ID, Nature: NatureExpense})
	leaf := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Stationery", ParentID: &mid.ID, Nature: NatureExpense})

	// Moving the top under its own grandchild would close a loop.
	_, err := svc.UpdateGroup(context.Background(), top.ID, UpdateGroupRequest{ParentID: &leaf.ID})
	require.ErrorIs(t, err, shared.ErrValidation)

	stored, getErr := repo.GetGroup(context.Background(), top.ID)
	require.NoError(t, getErr)
	require.Nil(t, stored.ParentID, "rejected move leaves the group in place")
}

func TestUpdateGroupReparentsToValidGroup(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	a := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Direct Expenses", Nature: NatureExpense})
	b := repo.addGroup(LedgerGroup{CompanyID: 1, Name: "Freight", Nature: NatureExpense})

	updated, err := svc.UpdateGroup(context.Background(), b.ID, UpdateGroupRequest{ParentID: &a.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID)
	require.Equal(t, a.ID, *updated.ParentID)
}
