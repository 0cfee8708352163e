package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/errs"
	"github.com/example/goshop/internal/repository/mysql"
)

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(mysql.NewCartRepository(db), mysql.NewProductRepository(db))
}

func TestAddItemMergesQuantity(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newCartService(db)
	first, err := svc.AddItem(context.Background(), buyer.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Quantity)

	// 重复加购同一商品不产生新行，数量叠加
	second, err := svc.AddItem(context.Background(), buyer.ID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(5), second.Quantity)

	items, err := svc.ListItems(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
}

func TestAddItemValidation(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newCartService(db)
	_, err := svc.AddItem(context.Background(), buyer.ID, p.ID, 0)
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.AddItem(context.Background(), buyer.ID, 999, 1)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestUpdateItemOverwritesQuantity(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newCartService(db)
	item, err := svc.AddItem(context.Background(), buyer.ID, p.ID, 2)
	require.NoError(t, err)

	// 更新是覆盖而非叠加
	updated, err := svc.UpdateItem(context.Background(), buyer.ID, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.Quantity)

	_, err = svc.UpdateItem(context.Background(), buyer.ID, item.ID, 0)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestCartItemOwnership(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	other := createUser(t, db, "buyer2", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newCartService(db)
	item, err := svc.AddItem(context.Background(), buyer.ID, p.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), other.ID, item.ID, 5)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	err = svc.RemoveItem(context.Background(), other.ID, item.ID)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	_, err = svc.UpdateItem(context.Background(), buyer.ID, 999, 5)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestRemoveItemAndClear(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p1 := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)
	p2 := createProduct(t, db, seller.ID, "Keyboard", "200.00", 10)

	svc := newCartService(db)
	item, err := svc.AddItem(context.Background(), buyer.ID, p1.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), buyer.ID, p2.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), buyer.ID, item.ID))
	items, err := svc.ListItems(context.Background(), buyer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Clear(context.Background(), buyer.ID))
	items, err = svc.ListItems(context.Background(), buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListItemsWithoutCart(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)

	svc := newCartService(db)
	items, err := svc.ListItems(context.Background(), buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// 没有购物车时清空是幂等空操作
	require.NoError(t, svc.Clear(context.Background(), buyer.ID))
}
