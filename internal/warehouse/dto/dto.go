package dto

type WarehouseFilters struct {
	MerchantID string
	ParentID   *string // Empty string means roots (parent IS NULL)
	IsActive   *bool
	Page       int
	PageSize   int
}

// Offset clamps Page to 1 so an unset page never produces a negative
// SQL offset.
func (f *WarehouseFilters) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}
