package company

import "time"

// Company is the tenant root; every other record carries its id.
type Company struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Address            string    `json:"address,omitempty"`
	State              string    `json:"state,omitempty"`
	GSTIN              string    `json:"gstin,omitempty"`
	PAN                string    `json:"pan,omitempty"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	BooksBeginningDate time.Time `json:"books_beginning_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// FinancialYear is a company's April–March accounting period.
type FinancialYear struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Label     string    `json:"label"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsClosed  bool      `json:"is_closed"`
	IsFrozen  bool      `json:"is_frozen"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
