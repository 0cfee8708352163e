package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	// Items 随订单一并写入（gorm 关联创建）
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]*order.Order, error) {
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// sellerOrderIDs 包含该卖家商品的订单 id 子查询
func (r *orderRepo) sellerOrderIDs(sellerID int64) *gorm.DB {
	return r.db.Table("order_items").
		Select("order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID)
}

func (r *orderRepo) ListBySeller(ctx context.Context, sellerID int64, status order.Status, from, to time.Time) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN (?)", r.sellerOrderIDs(sellerID))
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("created_at < ?", to)
	}
	var list []*order.Order
	if err := query.Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) ListRecentBySeller(ctx context.Context, sellerID int64, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN (?)", r.sellerOrderIDs(sellerID)).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	return r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
