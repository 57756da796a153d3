package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type CreateWarehouseInput struct {
	Code       string
	Name       string
	Type       model.WarehouseType
	ParentID   *string
	MerchantID *string
}

type UpdateWarehouseInput struct {
	ID       string
	Name     string
	Type     model.WarehouseType
	ParentID *string
	IsActive bool
}
