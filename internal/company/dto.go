package company

import "time"

type CreateCompanyRequest struct {
	Name               string    `json:"name" validate:"required,max=200"`
	Address            string    `json:"address,omitempty" validate:"omitempty,max=500"`
	State              string    `json:"state,omitempty" validate:"omitempty,max=100"`
	GSTIN              string    `json:"gstin,omitempty" validate:"omitempty,max=15"`
	PAN                string    `json:"pan,omitempty" validate:"omitempty,max=10"`
	Email              string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone              string    `json:"phone,omitempty" validate:"omitempty,max=50"`
	BooksBeginningDate time.Time `json:"books_beginning_date" validate:"required"`
}

type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	GSTIN   *string `json:"gstin,omitempty" validate:"omitempty,max=15"`
	PAN     *string `json:"pan,omitempty" validate:"omitempty,max=10"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type CreateFinancialYearRequest struct {
	CompanyID int64     `json:"company_id" validate:"required,gt=0"`
	StartDate time.Time `json:"start_date" validate:"required"`
}
