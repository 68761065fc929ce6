package coa

type CreateGroupRequest struct {
	CompanyID          int64  `json:"company_id" validate:"required,gt=0"`
	Name               string `json:"name" validate:"required,max=200"`
	ParentID           *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	Nature             Nature `json:"nature" validate:"required,oneof=assets liabilities income expense equity"`
	AffectsGrossProfit bool   `json:"affects_gross_profit"`
	SortOrder          int    `json:"sort_order" validate:"gte=0"`
}

type UpdateGroupRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,max=200"`
	ParentID           *int64  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	Nature             *Nature `json:"nature,omitempty" validate:"omitempty,oneof=assets liabilities income expense equity"`
	AffectsGrossProfit *bool   `json:"affects_gross_profit,omitempty"`
	SortOrder          *int    `json:"sort_order,omitempty" validate:"omitempty,gte=0"`
}

type CreateLedgerRequest struct {
	CompanyID      int64   `json:"company_id" validate:"required,gt=0"`
	Name           string  `json:"name" validate:"required,max=200"`
	GroupID        int64   `json:"group_id" validate:"required,gt=0"`
	OpeningBalance float64 `json:"opening_balance" validate:"gte=0"`
	BalanceType    Side    `json:"balance_type" validate:"required,oneof=Dr Cr"`
	ContactPerson  string  `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	Phone          string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email          string  `json:"email,omitempty" validate:"omitempty,email"`
	Address        string  `json:"address,omitempty" validate:"omitempty,max=500"`
	GSTIN          string  `json:"gstin,omitempty" validate:"omitempty,max=15"`
	PAN            string  `json:"pan,omitempty" validate:"omitempty,max=10"`
	BankName       string  `json:"bank_name,omitempty" validate:"omitempty,max=200"`
	BankAccountNo  string  `json:"bank_account_no,omitempty" validate:"omitempty,max=50"`
	BankIFSC       string  `json:"bank_ifsc,omitempty" validate:"omitempty,max=11"`
}

type UpdateLedgerRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=200"`
	GroupID       *int64  `json:"group_id,omitempty" validate:"omitempty,gt=0"`
	IsActive      *bool   `json:"is_active,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	GSTIN         *string `json:"gstin,omitempty" validate:"omitempty,max=15"`
	PAN           *string `json:"pan,omitempty" validate:"omitempty,max=10"`
	BankName      *string `json:"bank_name,omitempty" validate:"omitempty,max=200"`
	BankAccountNo *string `json:"bank_account_no,omitempty" validate:"omitempty,max=50"`
	BankIFSC      *string `json:"bank_ifsc,omitempty" validate:"omitempty,max=11"`
}

// AdjustBalanceRequest is the administrative balance edit; the source treats
// it as equivalent to a posting-engine mutation.
type AdjustBalanceRequest struct {
	CurrentBalance     float64 `json:"current_balance" validate:"gte=0"`
	CurrentBalanceType Side    `json:"current_balance_type" validate:"required,oneof=Dr Cr"`
}

type ListLedgersFilter struct {
	CompanyID int64
	GroupID   *int64
	IsActive  *bool
	Limit     int
	Offset    int
}
