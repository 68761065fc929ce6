package coa

import "time"

// Nature enumerates the accounting nature of a ledger group.
type Nature string

const (
	NatureAssets      Nature = "assets"
	NatureLiabilities Nature = "liabilities"
	NatureIncome      Nature = "income"
	NatureExpense     Nature = "expense"
	NatureEquity      Nature = "equity"
)

// Valid reports whether the nature is one of the known values.
func (n Nature) Valid() bool {
	switch n {
	case NatureAssets, NatureLiabilities, NatureIncome, NatureExpense, NatureEquity:
		return true
	}
	return false
}

// NormalSide returns the side on which a balance of this nature increases.
func (n Nature) NormalSide() Side {
	switch n {
	case NatureAssets, NatureExpense:
		return SideDr
	default:
		return SideCr
	}
}

// Side is the debit/credit tag carried next to every balance magnitude.
type Side string

const (
	SideDr Side = "Dr"
	SideCr Side = "Cr"
)

// Valid reports whether the side is Dr or Cr.
func (s Side) Valid() bool {
	return s == SideDr || s == SideCr
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideDr {
		return SideCr
	}
	return SideDr
}

// Balance is a non-negative magnitude tagged with a side. Balances are never
// represented as signed numbers; crossing zero flips the side instead.
type Balance struct {
	Magnitude float64
	Side      Side
}

// Signed returns the balance as a signed number with Dr positive.
func (b Balance) Signed() float64 {
	if b.Side == SideCr {
		return -b.Magnitude
	}
	return b.Magnitude
}

// Apply adds one voucher entry to the balance. A Dr entry moves the balance
// toward Dr, a Cr entry toward Cr; when the result crosses zero the side
// flips and the absolute remainder is kept. A zero result takes the normal
// side of the owning group's nature.
func (b Balance) Apply(nature Nature, entrySide Side, amount float64) Balance {
	signed := b.Signed()
	if entrySide == SideDr {
		signed += amount
	} else {
		signed -= amount
	}
	switch {
	case signed > 0:
		return Balance{Magnitude: signed, Side: SideDr}
	case signed < 0:
		return Balance{Magnitude: -signed, Side: SideCr}
	default:
		return Balance{Magnitude: 0, Side: nature.NormalSide()}
	}
}

// Reverse undoes a previously applied entry.
func (b Balance) Reverse(nature Nature, entrySide Side, amount float64) Balance {
	return b.Apply(nature, entrySide.Opposite(), amount)
}

// LedgerGroup is a category node organising ledgers hierarchically.
// ParentID nil means root; a dangling parent is treated as root at read time.
type LedgerGroup struct {
	ID                 int64     `json:"id"`
	CompanyID          int64     `json:"company_id"`
	Name               string    `json:"name"`
	ParentID           *int64    `json:"parent_id,omitempty"`
	Nature             Nature    `json:"nature"`
	IsDefault          bool      `json:"is_default"`
	AffectsGrossProfit bool      `json:"affects_gross_profit"`
	SortOrder          int       `json:"sort_order"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Ledger is a leaf account holding a running balance. CurrentBalance starts
// equal to the opening balance and is mutated only by the posting engine or
// an administrative update.
type Ledger struct {
	ID                 int64     `json:"id"`
	CompanyID          int64     `json:"company_id"`
	Name               string    `json:"name"`
	GroupID            int64     `json:"group_id"`
	OpeningBalance     float64   `json:"opening_balance"`
	BalanceType        Side      `json:"balance_type"`
	CurrentBalance     float64   `json:"current_balance"`
	CurrentBalanceType Side      `json:"current_balance_type"`
	IsActive           bool      `json:"is_active"`
	ContactPerson      string    `json:"contact_person,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	Address            string    `json:"address,omitempty"`
	GSTIN              string    `json:"gstin,omitempty"`
	PAN                string    `json:"pan,omitempty"`
	BankName           string    `json:"bank_name,omitempty"`
	BankAccountNo      string    `json:"bank_account_no,omitempty"`
	BankIFSC           string    `json:"bank_ifsc,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
