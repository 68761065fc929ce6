package inventory

import (
	"sort"
	"time"
)

// StockGroup organises stock items hierarchically, mirroring ledger group
// tree semantics: flat parent_id rows, dangling parent treated as root.
type StockGroup struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit is a simple measurement unit.
type Unit struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	Name          string    `json:"name"`
	Symbol        string    `json:"symbol"`
	DecimalPlaces int       `json:"decimal_places"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockItem is a sellable/purchasable product.
type StockItem struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	Name         string    `json:"name"`
	StockGroupID int64     `json:"stock_group_id"`
	UnitID       int64     `json:"unit_id"`
	HSNCode      string    `json:"hsn_code,omitempty"`
	GSTRate      float64   `json:"gst_rate"`
	OpeningQty   float64   `json:"opening_qty"`
	Rate         float64   `json:"rate"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockGroupNode is a stock group with resolved children.
type StockGroupNode struct {
	StockGroup
	Children []*StockGroupNode `json:"children,omitempty"`
}

// BuildStockTree reconstructs the stock group hierarchy from flat rows.
func BuildStockTree(groups []StockGroup) []*StockGroupNode {
	nodes := make(map[int64]*StockGroupNode, len(groups))
	for _, g := range groups {
		nodes[g.ID] = &StockGroupNode{StockGroup: g}
	}
	var roots []*StockGroupNode
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
	var sortLevel func(level []*StockGroupNode)
	sortLevel = func(level []*StockGroupNode) {
		sort.SliceStable(level, func(i, j int) bool { return level[i].ID < level[j].ID })
		for _, n := range level {
			sortLevel(n.Children)
		}
	}
	sortLevel(roots)
	return roots
}
