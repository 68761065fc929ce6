package inventory

type CreateStockGroupRequest struct {
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=200"`
	ParentID  *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

type CreateUnitRequest struct {
	CompanyID     int64  `json:"company_id" validate:"required,gt=0"`
	Name          string `json:"name" validate:"required,max=100"`
	Symbol        string `json:"symbol" validate:"required,max=10"`
	DecimalPlaces int    `json:"decimal_places" validate:"gte=0,lte=4"`
}

type CreateStockItemRequest struct {
	CompanyID    int64   `json:"company_id" validate:"required,gt=0"`
	Name         string  `json:"name" validate:"required,max=200"`
	StockGroupID int64   `json:"stock_group_id" validate:"required,gt=0"`
	UnitID       int64   `json:"unit_id" validate:"required,gt=0"`
	HSNCode      string  `json:"hsn_code,omitempty" validate:"omitempty,max=8"`
	GSTRate      float64 `json:"gst_rate" validate:"gte=0,lte=100"`
	OpeningQty   float64 `json:"opening_qty" validate:"gte=0"`
	Rate         float64 `json:"rate" validate:"gte=0"`
}

type UpdateStockItemRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	StockGroupID *int64   `json:"stock_group_id,omitempty" validate:"omitempty,gt=0"`
	UnitID       *int64   `json:"unit_id,omitempty" validate:"omitempty,gt=0"`
	HSNCode      *string  `json:"hsn_code,omitempty" validate:"omitempty,max=8"`
	GSTRate      *float64 `json:"gst_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rate         *float64 `json:"rate,omitempty" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active,omitempty"`
}
