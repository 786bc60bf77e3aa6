package httpdto

// ProductRequest is used for POST and PUT on /v1/products
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CostPrice   float64 `json:"cost_price"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"`
	Unit        string  `json:"unit,omitempty"`
}

// RestockRequest is used for POST /v1/products/:productId/restock
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CustomerRequest is used for POST and PUT on /v1/customers
type CustomerRequest struct {
	Name             string `json:"name" binding:"required"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	Notes            string `json:"notes,omitempty"`
	DeliverySchedule string `json:"delivery_schedule,omitempty"`
	IsRegular        bool   `json:"is_regular"`
}

// CheckoutItemRequest is one cart line in a checkout.
type CheckoutItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Discount  float64 `json:"discount,omitempty"`
}

// CheckoutRequest is used for POST /v1/transactions
type CheckoutRequest struct {
	CustomerID      string                `json:"customer_id,omitempty"`
	TransactionType string                `json:"transaction_type" binding:"required"`
	PaymentMethod   string                `json:"payment_method" binding:"required"`
	Items           []CheckoutItemRequest `json:"items" binding:"required"`
	Discount        float64               `json:"discount,omitempty"`
	DeliveryFee     float64               `json:"delivery_fee,omitempty"`
	PaidAmount      float64               `json:"paid_amount"`
	DeliveryAddress string                `json:"delivery_address,omitempty"`
	Notes           string                `json:"notes,omitempty"`
}

// CompletePaymentRequest is used for POST /v1/transactions/:transactionId/complete
type CompletePaymentRequest struct {
	PaidAmount float64 `json:"paid_amount" binding:"required"`
}

// GenerateReportRequest is used for POST /v1/reports
type GenerateReportRequest struct {
	Date           string  `json:"date,omitempty"`
	OpeningBalance float64 `json:"opening_balance"`
}

// SettingsRequest is used for PUT /v1/settings
type SettingsRequest struct {
	StoreName     string  `json:"store_name" binding:"required"`
	StoreAddress  string  `json:"store_address,omitempty"`
	StorePhone    string  `json:"store_phone,omitempty"`
	StoreLogo     string  `json:"store_logo,omitempty"`
	ReceiptFooter string  `json:"receipt_footer,omitempty"`
	TaxRate       float64 `json:"tax_rate"`
}
