package cart

import (
	"context"
	"time"
)

// Cart 购物车，每个买家唯一一个，首次访问时惰性创建
type Cart struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	BuyerID   int64      `gorm:"uniqueIndex;not null" json:"buyer_id"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem 购物车条目，同一购物车内每个商品最多一行
// 重复加购同一商品时数量累加，不新增行。
type CartItem struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CartID    int64     `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID int64     `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository 购物车仓储接口
type Repository interface {
	GetOrCreateByBuyer(ctx context.Context, buyerID int64) (*Cart, error)
	GetByBuyer(ctx context.Context, buyerID int64) (*Cart, error)
	GetItem(ctx context.Context, itemID int64) (*CartItem, error)
	GetCart(ctx context.Context, cartID int64) (*Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]*CartItem, error)
	CreateItem(ctx context.Context, item *CartItem) error
	UpdateItem(ctx context.Context, item *CartItem) error
	DeleteItem(ctx context.Context, itemID int64) error
	ClearItems(ctx context.Context, cartID int64) error
}
