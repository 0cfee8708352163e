package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/cart"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/errs"
	"github.com/example/goshop/internal/repository/mysql"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, mysql.NewOrderRepository(db), nil)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Wireless Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, order.StatusToShip, o.Status)
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("200.00")),
		"total = %s", o.TotalPrice)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(2), o.Items[0].Quantity)
	assert.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("100.00")))

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, int64(8), got.Stock)
	assert.Equal(t, int64(2), got.Sales)
}

func TestPlaceOrderEmptyAndInvalidLines(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	svc := newOrderService(db)

	_, err := svc.PlaceOrder(context.Background(), buyer.ID, nil)
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: 1, Quantity: 0}})
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestPlaceOrderProductNotFound(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	svc := newOrderService(db)

	_, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: 999, Quantity: 1}})
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestPlaceOrderInsufficientStockRollsBackWholeOrder(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p1 := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)
	p2 := createProduct(t, db, seller.ID, "Keyboard", "200.00", 1)

	svc := newOrderService(db)
	_, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 5}, // 超过库存，整单失败
	})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInsufficientStock))
	assert.Contains(t, err.Error(), "Keyboard")

	// 第一行的扣减也必须回滚
	assert.Equal(t, int64(10), reloadProduct(t, db, p1.ID).Stock)
	assert.Equal(t, int64(0), reloadProduct(t, db, p1.ID).Sales)
	assert.Equal(t, int64(1), reloadProduct(t, db, p2.ID).Stock)

	var count int64
	require.NoError(t, db.Model(&order.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPriceSnapshotIndependentOfLaterPriceChange(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 3}})
	require.NoError(t, err)

	// 改价
	require.NoError(t, db.Model(p).Update("price", decimal.RequireFromString("999.00")).Error)

	got, err := svc.GetByID(context.Background(), o.ID, buyer.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("100.00")))
}

func TestCheckoutFromCart(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	cartSvc := NewCartService(mysql.NewCartRepository(db), mysql.NewProductRepository(db))
	_, err := cartSvc.AddItem(context.Background(), buyer.ID, p.ID, 2)
	require.NoError(t, err)

	svc := newOrderService(db)
	o, err := svc.Checkout(context.Background(), buyer.ID)
	require.NoError(t, err)

	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, int64(8), reloadProduct(t, db, p.ID).Stock)
	assert.Equal(t, int64(2), reloadProduct(t, db, p.ID).Sales)

	// 结算成功后购物车被清空
	items, err := cartSvc.ListItems(context.Background(), buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	svc := newOrderService(db)

	// 没有购物车
	_, err := svc.Checkout(context.Background(), buyer.ID)
	assert.True(t, errs.Is(err, errs.KindEmptyCart))

	// 有购物车但没有条目
	cartSvc := NewCartService(mysql.NewCartRepository(db), mysql.NewProductRepository(db))
	_, err = cartSvc.GetOrCreate(context.Background(), buyer.ID)
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), buyer.ID)
	assert.True(t, errs.Is(err, errs.KindEmptyCart))
}

func TestCheckoutInsufficientStockKeepsCart(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 1)

	cartSvc := NewCartService(mysql.NewCartRepository(db), mysql.NewProductRepository(db))
	_, err := cartSvc.AddItem(context.Background(), buyer.ID, p.ID, 5)
	require.NoError(t, err)

	svc := newOrderService(db)
	_, err = svc.Checkout(context.Background(), buyer.ID)
	assert.True(t, errs.Is(err, errs.KindInsufficientStock))

	// 失败时购物车保持原样，库存不动
	items, err := cartSvc.ListItems(context.Background(), buyer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), reloadProduct(t, db, p.ID).Stock)
}

func TestCancelRestoresStockAndSales(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, int64(8), reloadProduct(t, db, p.ID).Stock)

	cancelled, err := svc.Cancel(context.Background(), o.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)
	assert.Equal(t, int64(10), reloadProduct(t, db, p.ID).Stock)
	assert.Equal(t, int64(0), reloadProduct(t, db, p.ID).Sales)

	// 二次取消：cancelled 是终态
	_, err = svc.Cancel(context.Background(), o.ID, buyer.ID)
	assert.True(t, errs.Is(err, errs.KindInvalidTransition))
	assert.Equal(t, int64(10), reloadProduct(t, db, p.ID).Stock)
}

func TestCancelForbiddenForOtherBuyer(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	other := createUser(t, db, "buyer2", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), o.ID, other.ID)
	assert.True(t, errs.Is(err, errs.KindForbidden))
	assert.Equal(t, int64(9), reloadProduct(t, db, p.ID).Stock)
}

func TestMarkReceivedFlow(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	// to_ship 不能直接 received，必须先经过 to_receive
	_, err = svc.MarkReceived(context.Background(), o.ID, buyer.ID)
	assert.True(t, errs.Is(err, errs.KindInvalidTransition))

	_, err = svc.SellerUpdateStatus(context.Background(), o.ID, seller.ID, order.StatusToReceive)
	require.NoError(t, err)

	got, err := svc.MarkReceived(context.Background(), o.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusReceived, got.Status)

	// received 是终态，收货无库存副作用
	assert.Equal(t, int64(9), reloadProduct(t, db, p.ID).Stock)
	assert.Equal(t, int64(1), reloadProduct(t, db, p.ID).Sales)
	_, err = svc.SellerUpdateStatus(context.Background(), o.ID, seller.ID, order.StatusCancelled)
	assert.True(t, errs.Is(err, errs.KindInvalidTransition))
}

func TestMarkReceivedForbiddenForOtherBuyer(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	other := createUser(t, db, "buyer2", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.SellerUpdateStatus(context.Background(), o.ID, seller.ID, order.StatusToReceive)
	require.NoError(t, err)

	_, err = svc.MarkReceived(context.Background(), o.ID, other.ID)
	assert.True(t, errs.Is(err, errs.KindForbidden))
}

func TestSellerUpdateStatusForbiddenWithoutOwnedItem(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	stranger := createUser(t, db, "seller2", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.SellerUpdateStatus(context.Background(), o.ID, stranger.ID, order.StatusToReceive)
	assert.True(t, errs.Is(err, errs.KindForbidden))
}

func TestSellerUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	_, err := svc.SellerUpdateStatus(context.Background(), 1, 1, order.Status("shipped"))
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestSellerCancelRestoresOnlyOwnItems(t *testing.T) {
	db := newTestDB(t)
	seller1 := createUser(t, db, "seller1", user.RoleSeller)
	seller2 := createUser(t, db, "seller2", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p1 := createProduct(t, db, seller1.ID, "Mouse", "100.00", 10)
	p2 := createProduct(t, db, seller2.ID, "Keyboard", "200.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Equal(t, int64(8), reloadProduct(t, db, p1.ID).Stock)
	require.Equal(t, int64(7), reloadProduct(t, db, p2.ID).Stock)

	// 卖家取消只回补自己商品的库存，别家的条目不动
	_, err = svc.SellerUpdateStatus(context.Background(), o.ID, seller1.ID, order.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, int64(10), reloadProduct(t, db, p1.ID).Stock)
	assert.Equal(t, int64(0), reloadProduct(t, db, p1.ID).Sales)
	assert.Equal(t, int64(7), reloadProduct(t, db, p2.ID).Stock)
	assert.Equal(t, int64(3), reloadProduct(t, db, p2.ID).Sales)
}

func TestBuyerCancelRestoresAllItemsAcrossSellers(t *testing.T) {
	db := newTestDB(t)
	seller1 := createUser(t, db, "seller1", user.RoleSeller)
	seller2 := createUser(t, db, "seller2", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	p1 := createProduct(t, db, seller1.ID, "Mouse", "100.00", 10)
	p2 := createProduct(t, db, seller2.ID, "Keyboard", "200.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 3},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), o.ID, buyer.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(10), reloadProduct(t, db, p1.ID).Stock)
	assert.Equal(t, int64(10), reloadProduct(t, db, p2.ID).Stock)
}

func TestGetByIDOwnership(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer := createUser(t, db, "buyer1", user.RoleBuyer)
	other := createUser(t, db, "buyer2", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	svc := newOrderService(db)
	o, err := svc.PlaceOrder(context.Background(), buyer.ID, []Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), o.ID, other.ID)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	_, err = svc.GetByID(context.Background(), 999, buyer.ID)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestCheckoutClearsOnlyOwnCart(t *testing.T) {
	db := newTestDB(t)
	seller := createUser(t, db, "seller1", user.RoleSeller)
	buyer1 := createUser(t, db, "buyer1", user.RoleBuyer)
	buyer2 := createUser(t, db, "buyer2", user.RoleBuyer)
	p := createProduct(t, db, seller.ID, "Mouse", "100.00", 10)

	cartSvc := NewCartService(mysql.NewCartRepository(db), mysql.NewProductRepository(db))
	_, err := cartSvc.AddItem(context.Background(), buyer1.ID, p.ID, 1)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(context.Background(), buyer2.ID, p.ID, 1)
	require.NoError(t, err)

	svc := newOrderService(db)
	_, err = svc.Checkout(context.Background(), buyer1.ID)
	require.NoError(t, err)

	var remaining []cart.CartItem
	require.NoError(t, db.Find(&remaining).Error)
	assert.Len(t, remaining, 1)
}
