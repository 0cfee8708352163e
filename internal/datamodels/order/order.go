package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态
type Status string

const (
	StatusToShip    Status = "to_ship"    // 初始状态，等待卖家发货
	StatusToReceive Status = "to_receive" // 已发货，等待买家确认
	StatusReceived  Status = "received"   // 买家已确认收货（终态）
	StatusCancelled Status = "cancelled"  // 已取消（终态）
)

// transitions 状态流转表，表外的任何流转均不合法
var transitions = map[Status][]Status{
	StatusToShip:    {StatusToReceive, StatusCancelled},
	StatusToReceive: {StatusReceived},
	StatusReceived:  {},
	StatusCancelled: {},
}

// Valid 校验状态取值
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition 判断 from -> to 是否在流转表内
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order 订单模型
// 创建后仅 Status 可变，条目为不可变快照。
type Order struct {
	ID         int64           `gorm:"primaryKey" json:"id"`
	BuyerID    int64           `gorm:"index;not null" json:"buyer_id"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status     Status          `gorm:"size:16;index;not null" json:"status"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderItem 订单条目，Price 为下单时快照，不随商品改价变化
type OrderItem struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	OrderID   int64           `gorm:"index;not null" json:"order_id"`
	ProductID int64           `gorm:"index;not null" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// Repository 订单仓储接口
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]*Order, error)
	// ListBySeller 查询包含指定卖家商品的订单；status 为空时不过滤状态，
	// from/to 非零时按创建时间过滤（闭开区间）。
	ListBySeller(ctx context.Context, sellerID int64, status Status, from, to time.Time) ([]*Order, error)
	ListRecentBySeller(ctx context.Context, sellerID int64, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
