package models

// PurchaseForm holds the raw strings entered on the purchase form.
type PurchaseForm struct {
	Item    string `json:"item" form:"item"`
	Company string `json:"company" form:"company"`
	Model   string `json:"model" form:"model"`
	Dealer  string `json:"dealer" form:"dealer"`
	City    string `json:"city" form:"city"`
	Price   string `json:"price" form:"price"`
	Units   string `json:"units" form:"units"`
}

// SaleForm holds the raw strings entered on the sale form.
type SaleForm struct {
	SaleDealer   string `json:"sale_dealer" form:"sale_dealer"`
	ItemSold     string `json:"item_sold" form:"item_sold"`
	CompanySold  string `json:"company_sold" form:"company_sold"`
	ModelSold    string `json:"model_sold" form:"model_sold"`
	QuantitySold string `json:"quantity_sold" form:"quantity_sold"`
	SalePrice    string `json:"sale_price" form:"sale_price"`
}
