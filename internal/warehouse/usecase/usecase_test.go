package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperr"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/warehouse"
	"github.com/fekuna/omnipos-inventory-service/internal/warehouse/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	warehouses map[string]model.Warehouse
	itemCounts map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		warehouses: map[string]model.Warehouse{},
		itemCounts: map[string]int{},
	}
}

func (r *fakeRepo) Create(ctx context.Context, w *model.Warehouse) error {
	r.warehouses[w.ID] = *w
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*model.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, nil
	}
	copied := w
	return &copied, nil
}

func (r *fakeRepo) FindByCode(ctx context.Context, code string) (*model.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.Code == code {
			copied := w
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindAll(ctx context.Context, f *dto.WarehouseFilters) ([]model.Warehouse, int, error) {
	var result []model.Warehouse
	for _, w := range r.warehouses {
		if f.MerchantID != "" && (w.MerchantID == nil || *w.MerchantID != f.MerchantID) {
			continue
		}
		result = append(result, w)
	}
	return result, len(result), nil
}

func (r *fakeRepo) FindChildren(ctx context.Context, parentID string) ([]model.Warehouse, error) {
	var children []model.Warehouse
	for _, w := range r.warehouses {
		if w.ParentID != nil && *w.ParentID == parentID {
			children = append(children, w)
		}
	}
	return children, nil
}

func (r *fakeRepo) Update(ctx context.Context, w *model.Warehouse) error {
	r.warehouses[w.ID] = *w
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(r.warehouses, id)
	return nil
}

func (r *fakeRepo) CountItems(ctx context.Context, warehouseID string) (int, error) {
	return r.itemCounts[warehouseID], nil
}

func newTestUseCase(t *testing.T) (warehouse.UseCase, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewWarehouseUseCase(repo, logger.NewNop()), repo
}

func seedWarehouse(repo *fakeRepo, id, code string, parentID *string) {
	repo.warehouses[id] = model.Warehouse{
		BaseModel: model.BaseModel{ID: id},
		Code:      code,
		Name:      code,
		Type:      model.WarehouseTypeStandard,
		ParentID:  parentID,
		IsActive:  true,
	}
}

func TestCreateWarehouse(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	w, err := uc.CreateWarehouse(ctx, &dto.CreateWarehouseInput{
		Code: "WH-MAIN",
		Name: "Main",
		Type: model.WarehouseTypeStandard,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.True(t, w.IsActive)

	got, err := uc.GetWarehouse(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "WH-MAIN", got.Code)
}

func TestCreateWarehouseCodeConflict(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()
	seedWarehouse(repo, "wh-1", "WH-MAIN", nil)

	_, err := uc.CreateWarehouse(ctx, &dto.CreateWarehouseInput{
		Code: "WH-MAIN",
		Name: "Duplicate",
		Type: model.WarehouseTypeStandard,
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateWarehouseValidation(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateWarehouse(ctx, &dto.CreateWarehouseInput{Name: "No code", Type: model.WarehouseTypeStandard})
	assert.True(t, apperr.IsValidation(err))

	_, err = uc.CreateWarehouse(ctx, &dto.CreateWarehouseInput{Code: "X", Type: model.WarehouseType("depot")})
	assert.True(t, apperr.IsValidation(err))

	ghost := "ghost"
	_, err = uc.CreateWarehouse(ctx, &dto.CreateWarehouseInput{Code: "X", Type: model.WarehouseTypeStandard, ParentID: &ghost})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateWarehouseRejectsCycle(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()
	// wh-1 -> wh-2 -> wh-3
	parent1, parent2 := "wh-1", "wh-2"
	seedWarehouse(repo, "wh-1", "A", nil)
	seedWarehouse(repo, "wh-2", "B", &parent1)
	seedWarehouse(repo, "wh-3", "C", &parent2)

	// Re-parenting the root under its grandchild would close a loop.
	grandchild := "wh-3"
	_, err := uc.UpdateWarehouse(ctx, &dto.UpdateWarehouseInput{
		ID: "wh-1", Name: "A", Type: model.WarehouseTypeStandard, ParentID: &grandchild, IsActive: true,
	})
	assert.True(t, apperr.IsValidation(err))

	self := "wh-1"
	_, err = uc.UpdateWarehouse(ctx, &dto.UpdateWarehouseInput{
		ID: "wh-1", Name: "A", Type: model.WarehouseTypeStandard, ParentID: &self, IsActive: true,
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateWarehouseReparent(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()
	parent1 := "wh-1"
	seedWarehouse(repo, "wh-1", "A", nil)
	seedWarehouse(repo, "wh-2", "B", &parent1)
	seedWarehouse(repo, "wh-3", "C", nil)

	newParent := "wh-3"
	w, err := uc.UpdateWarehouse(ctx, &dto.UpdateWarehouseInput{
		ID: "wh-2", Name: "B", Type: model.WarehouseTypeVirtual, ParentID: &newParent, IsActive: true,
	})
	require.NoError(t, err)
	require.NotNil(t, w.ParentID)
	assert.Equal(t, "wh-3", *w.ParentID)
	assert.Equal(t, model.WarehouseTypeVirtual, w.Type)
}

func TestDeleteWarehouseGuards(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()
	parent1 := "wh-1"
	seedWarehouse(repo, "wh-1", "A", nil)
	seedWarehouse(repo, "wh-2", "B", &parent1)

	// Children block deletion.
	err := uc.DeleteWarehouse(ctx, "wh-1")
	assert.True(t, apperr.IsValidation(err))

	// Stored items block deletion.
	repo.itemCounts["wh-2"] = 3
	err = uc.DeleteWarehouse(ctx, "wh-2")
	assert.True(t, apperr.IsValidation(err))

	repo.itemCounts["wh-2"] = 0
	require.NoError(t, uc.DeleteWarehouse(ctx, "wh-2"))
	require.NoError(t, uc.DeleteWarehouse(ctx, "wh-1"))

	err = uc.DeleteWarehouse(ctx, "wh-1")
	assert.True(t, apperr.IsNotFound(err))
}

func TestDescendantsDeepChain(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()

	// A 60-level chain would blow a recursive walk; the iterative queue keeps
	// going.
	seedWarehouse(repo, "wh-00", "W00", nil)
	for i := 1; i < 60; i++ {
		parent := fmt.Sprintf("wh-%02d", i-1)
		seedWarehouse(repo, fmt.Sprintf("wh-%02d", i), fmt.Sprintf("W%02d", i), &parent)
	}

	descendants, err := uc.Descendants(ctx, "wh-00")
	require.NoError(t, err)
	assert.Len(t, descendants, 59)

	_, err = uc.Descendants(ctx, "ghost")
	assert.True(t, apperr.IsNotFound(err))
}

func TestDescendantsBranching(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()
	root := "wh-root"
	seedWarehouse(repo, root, "R", nil)
	seedWarehouse(repo, "wh-a", "A", &root)
	seedWarehouse(repo, "wh-b", "B", &root)
	a := "wh-a"
	seedWarehouse(repo, "wh-a1", "A1", &a)

	descendants, err := uc.Descendants(ctx, root)
	require.NoError(t, err)
	assert.Len(t, descendants, 3)

	ids := map[string]bool{}
	for _, d := range descendants {
		ids[d.ID] = true
	}
	assert.True(t, ids["wh-a"] && ids["wh-b"] && ids["wh-a1"])
}

func TestAncestorsNearestFirst(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()
	parent1, parent2 := "wh-1", "wh-2"
	seedWarehouse(repo, "wh-1", "A", nil)
	seedWarehouse(repo, "wh-2", "B", &parent1)
	seedWarehouse(repo, "wh-3", "C", &parent2)

	ancestors, err := uc.Ancestors(ctx, "wh-3")
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, "wh-2", ancestors[0].ID)
	assert.Equal(t, "wh-1", ancestors[1].ID)

	ancestors, err = uc.Ancestors(ctx, "wh-1")
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}

func TestAncestorsStopsOnCorruptedLoop(t *testing.T) {
	uc, repo := newTestUseCase(t)
	ctx := context.Background()
	// wh-1 and wh-2 point at each other.
	parent1, parent2 := "wh-1", "wh-2"
	seedWarehouse(repo, "wh-1", "A", &parent2)
	seedWarehouse(repo, "wh-2", "B", &parent1)

	ancestors, err := uc.Ancestors(ctx, "wh-1")
	require.NoError(t, err)
	assert.Len(t, ancestors, 1)
}
