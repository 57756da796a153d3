package dto

type RuleFilters struct {
	InventoryItemID string
	IsActive        *bool
	Page            int
	PageSize        int
}

// Offset clamps Page to 1 so an unset page never produces a negative
// SQL offset.
func (f *RuleFilters) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}
