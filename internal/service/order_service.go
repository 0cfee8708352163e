package service

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/goshop/internal/datamodels/cart"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/errs"
	"github.com/example/goshop/internal/events"
)

// Line 下单请求中的一行（商品 + 数量）
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// OrderService 订单引擎：下单/结算扣减库存，取消回补库存，管理状态流转
type OrderService struct {
	db        *gorm.DB
	orderRepo order.Repository
	publisher *events.Publisher
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo order.Repository, publisher *events.Publisher) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// lockProduct 行级锁定商品。sqlite（测试库）不支持 FOR UPDATE，
// 它本身写入就是串行的，跳过锁子句即可。
func lockProduct(tx *gorm.DB, id int64) (*product.Product, error) {
	query := tx
	if tx.Dialector.Name() == "mysql" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p product.Product
	if err := query.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// placeOrderTx 在事务内按输入顺序逐行校验并扣减库存，最后创建订单。
// 任意一行失败整体回滚，库存不留部分扣减。
func (s *OrderService) placeOrderTx(tx *gorm.DB, buyerID int64, lines []Line) (*order.Order, error) {
	total := decimal.Zero
	items := make([]order.OrderItem, 0, len(lines))

	for _, line := range lines {
		p, err := lockProduct(tx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.Newf(errs.KindNotFound, "product %d not found", line.ProductID)
			}
			return nil, err
		}
		if p.Stock < line.Quantity {
			return nil, errs.Newf(errs.KindInsufficientStock, "insufficient stock for %s", p.Name)
		}

		p.Stock -= line.Quantity
		p.Sales += line.Quantity
		if err := tx.Save(p).Error; err != nil {
			return nil, err
		}

		// 价格快照取扣减时读到的值，后续改价不影响已建订单
		items = append(items, order.OrderItem{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}

	o := &order.Order{
		BuyerID:    buyerID,
		TotalPrice: total,
		Status:     order.StatusToShip,
		Items:      items,
	}
	if err := tx.Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func validateLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.New(errs.KindValidation, "order must contain at least one item")
	}
	for _, line := range lines {
		if line.ProductID <= 0 {
			return errs.New(errs.KindValidation, "product_id is required")
		}
		if line.Quantity < 1 {
			return errs.New(errs.KindValidation, "quantity must be at least 1")
		}
	}
	return nil
}

// PlaceOrder 按显式商品清单下单
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID int64, lines []Line) (*order.Order, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	var o *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		o, err = s.placeOrderTx(tx, buyerID, lines)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, o, events.TypeCreated)
	return o, nil
}

// Checkout 用购物车结算下单，成功后清空购物车（同一事务内）
func (s *OrderService) Checkout(ctx context.Context, buyerID int64) (*order.Order, error) {
	var o *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		if err := tx.Preload("Items").Where("buyer_id = ?", buyerID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.New(errs.KindEmptyCart, "cart is empty")
			}
			return err
		}
		if len(c.Items) == 0 {
			return errs.New(errs.KindEmptyCart, "cart is empty")
		}

		lines := make([]Line, 0, len(c.Items))
		for _, item := range c.Items {
			lines = append(lines, Line{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		var err error
		o, err = s.placeOrderTx(tx, buyerID, lines)
		if err != nil {
			return err
		}

		return tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, o, events.TypeCreated)
	return o, nil
}

// Cancel 买家取消订单，回补所有条目的库存与销量
func (s *OrderService) Cancel(ctx context.Context, orderID, requesterID int64) (*order.Order, error) {
	var o *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur order.Order
		if err := tx.Preload("Items").First(&cur, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Newf(errs.KindNotFound, "order %d not found", orderID)
			}
			return err
		}
		if cur.BuyerID != requesterID {
			return errs.New(errs.KindForbidden, "order does not belong to requester")
		}
		if !order.CanTransition(cur.Status, order.StatusCancelled) {
			return errs.Newf(errs.KindInvalidTransition, "cannot cancel order in status %s", cur.Status)
		}

		// 买家取消不区分卖家，所有条目一律回补
		for _, item := range cur.Items {
			p, err := lockProduct(tx, item.ProductID)
			if err != nil {
				return err
			}
			p.Stock += item.Quantity
			p.Sales -= item.Quantity
			if err := tx.Save(p).Error; err != nil {
				return err
			}
		}

		cur.Status = order.StatusCancelled
		if err := tx.Model(&order.Order{}).Where("id = ?", cur.ID).
			Update("status", order.StatusCancelled).Error; err != nil {
			return err
		}
		o = &cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, o, events.TypeCancelled)
	return o, nil
}

// MarkReceived 买家确认收货，无库存副作用
func (s *OrderService) MarkReceived(ctx context.Context, orderID, requesterID int64) (*order.Order, error) {
	var o *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur order.Order
		if err := tx.Preload("Items").First(&cur, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Newf(errs.KindNotFound, "order %d not found", orderID)
			}
			return err
		}
		if cur.BuyerID != requesterID {
			return errs.New(errs.KindForbidden, "order does not belong to requester")
		}
		if !order.CanTransition(cur.Status, order.StatusReceived) {
			return errs.Newf(errs.KindInvalidTransition, "cannot mark received from status %s", cur.Status)
		}

		cur.Status = order.StatusReceived
		if err := tx.Model(&order.Order{}).Where("id = ?", cur.ID).
			Update("status", order.StatusReceived).Error; err != nil {
			return err
		}
		o = &cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, o, events.TypeStatusUpdated)
	return o, nil
}

// SellerUpdateStatus 卖家推进订单状态。取消时只回补自己商品的库存，
// 多卖家共享一张订单时不动别人的货。
func (s *OrderService) SellerUpdateStatus(ctx context.Context, orderID, sellerID int64, newStatus order.Status) (*order.Order, error) {
	if !newStatus.Valid() {
		return nil, errs.Newf(errs.KindValidation, "unknown status %q", newStatus)
	}

	var o *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur order.Order
		if err := tx.Preload("Items").First(&cur, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Newf(errs.KindNotFound, "order %d not found", orderID)
			}
			return err
		}

		// 卖家至少要拥有订单里的一个商品
		productIDs := make([]int64, 0, len(cur.Items))
		for _, item := range cur.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		var owned []product.Product
		if err := tx.Where("id IN ? AND seller_id = ?", productIDs, sellerID).
			Find(&owned).Error; err != nil {
			return err
		}
		if len(owned) == 0 {
			return errs.New(errs.KindForbidden, "seller has no product in this order")
		}

		if !order.CanTransition(cur.Status, newStatus) {
			return errs.Newf(errs.KindInvalidTransition, "cannot transition from %s to %s", cur.Status, newStatus)
		}

		if newStatus == order.StatusCancelled {
			ownedSet := make(map[int64]bool, len(owned))
			for _, p := range owned {
				ownedSet[p.ID] = true
			}
			for _, item := range cur.Items {
				if !ownedSet[item.ProductID] {
					continue
				}
				p, err := lockProduct(tx, item.ProductID)
				if err != nil {
					return err
				}
				p.Stock += item.Quantity
				p.Sales -= item.Quantity
				if err := tx.Save(p).Error; err != nil {
					return err
				}
			}
		}

		cur.Status = newStatus
		if err := tx.Model(&order.Order{}).Where("id = ?", cur.ID).
			Update("status", newStatus).Error; err != nil {
			return err
		}
		o = &cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, o, events.TypeStatusUpdated)
	return o, nil
}

// GetByID 买家查询自己的订单详情
func (s *OrderService) GetByID(ctx context.Context, orderID, requesterID int64) (*order.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "order %d not found", orderID)
		}
		return nil, err
	}
	if o.BuyerID != requesterID {
		return nil, errs.New(errs.KindForbidden, "order does not belong to requester")
	}
	return o, nil
}

// ListByBuyer 买家订单列表
func (s *OrderService) ListByBuyer(ctx context.Context, buyerID int64) ([]*order.Order, error) {
	return s.orderRepo.ListByBuyer(ctx, buyerID)
}

// publish 事务提交成功后发事件，失败只记日志不影响主流程
func (s *OrderService) publish(ctx context.Context, o *order.Order, eventType string) {
	if s.publisher == nil || o == nil {
		return
	}
	ev := &events.OrderEvent{
		OrderID: o.ID,
		BuyerID: o.BuyerID,
		Type:    eventType,
		Status:  string(o.Status),
		Total:   o.TotalPrice,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("failed to publish order event (%s, order=%d): %v", eventType, o.ID, err)
	}
}
