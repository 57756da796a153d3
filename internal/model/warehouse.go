package model

// WarehouseType distinguishes physical stock locations from bookkeeping ones.
type WarehouseType string

const (
	WarehouseTypeStandard WarehouseType = "standard"
	WarehouseTypeVirtual  WarehouseType = "virtual"
	WarehouseTypeDropship WarehouseType = "dropship"
)

func (t WarehouseType) Valid() bool {
	switch t {
	case WarehouseTypeStandard, WarehouseTypeVirtual, WarehouseTypeDropship:
		return true
	}
	return false
}

type Warehouse struct {
	BaseModel
	Code       string        `db:"code" json:"code"`
	Name       string        `db:"name" json:"name"`
	Type       WarehouseType `db:"type" json:"type"`
	ParentID   *string       `db:"parent_id" json:"parent_id"` // Nullable, adjacency list
	MerchantID *string       `db:"merchant_id" json:"merchant_id"`
	IsActive   bool          `db:"is_active" json:"is_active"`
	Children   []Warehouse   `db:"-" json:"children,omitempty"` // For tree responses, not in DB
}
