package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品模型
// Stock 永不为负；Sales 只增不减，仅在订单取消回补时回退。
type Product struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:128;not null" json:"name"`
	Description string          `gorm:"size:512" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"size:255" json:"image"` // 仅保存存储引用，上传由外部处理
	Stock       int64           `gorm:"not null" json:"stock"`
	Sales       int64           `gorm:"not null" json:"sales"` // 累计售出件数
	SellerID    int64           `gorm:"index;not null" json:"seller_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]*Product, error)
	TopBySales(ctx context.Context, sellerID int64, limit int) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
