package model

// Product carries the catalog fields this service reads. Catalog CRUD lives
// in the product service; here products are reference data for stock records
// and price evaluation.
type Product struct {
	BaseModel
	MerchantID string   `db:"merchant_id" json:"merchant_id"`
	SKU        string   `db:"sku" json:"sku"`
	Name       string   `db:"name" json:"name"`
	BasePrice  float64  `db:"base_price" json:"base_price"`
	CostPrice  *float64 `db:"cost_price" json:"cost_price"`
	IsActive   bool     `db:"is_active" json:"is_active"`
}

type ProductVariant struct {
	BaseModel
	ProductID   string `db:"product_id" json:"product_id"`
	SKU         string `db:"sku" json:"sku"`
	VariantName string `db:"variant_name" json:"variant_name"`
	IsActive    bool   `db:"is_active" json:"is_active"`
}
