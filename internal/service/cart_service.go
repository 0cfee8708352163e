package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/cart"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/errs"
)

// CartService 购物车：加购/改量/删行/清空
// 加购阶段不占用库存，库存只在下单时校验，购物车允许过期陈旧。
type CartService struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo cart.Repository, productRepo product.Repository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetOrCreate 获取买家购物车，没有则创建空车（幂等）
func (s *CartService) GetOrCreate(ctx context.Context, buyerID int64) (*cart.Cart, error) {
	return s.cartRepo.GetOrCreateByBuyer(ctx, buyerID)
}

// ListItems 购物车条目列表，无购物车时返回空列表
func (s *CartService) ListItems(ctx context.Context, buyerID int64) ([]*cart.CartItem, error) {
	c, err := s.cartRepo.GetByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*cart.CartItem{}, nil
		}
		return nil, err
	}
	return s.cartRepo.ListItems(ctx, c.ID)
}

// AddItem 加购。同一商品已有行时数量累加，不产生重复行。
func (s *CartService) AddItem(ctx context.Context, buyerID, productID, quantity int64) (*cart.CartItem, error) {
	if quantity < 1 {
		return nil, errs.New(errs.KindValidation, "quantity must be at least 1")
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "product %d not found", productID)
		}
		return nil, err
	}

	c, err := s.cartRepo.GetOrCreateByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ProductID == productID {
			item.Quantity += quantity
			if err := s.cartRepo.UpdateItem(ctx, item); err != nil {
				return nil, err
			}
			return item, nil
		}
	}

	item := &cart.CartItem{
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// getOwnedItem 取出条目并校验归属
func (s *CartService) getOwnedItem(ctx context.Context, buyerID, itemID int64) (*cart.CartItem, error) {
	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "cart item %d not found", itemID)
		}
		return nil, err
	}
	c, err := s.cartRepo.GetCart(ctx, item.CartID)
	if err != nil {
		return nil, err
	}
	if c.BuyerID != buyerID {
		return nil, errs.New(errs.KindForbidden, "cart item does not belong to requester")
	}
	return item, nil
}

// UpdateItem 覆盖（不是累加）条目数量
func (s *CartService) UpdateItem(ctx context.Context, buyerID, itemID, quantity int64) (*cart.CartItem, error) {
	if quantity < 1 {
		return nil, errs.New(errs.KindValidation, "quantity must be at least 1")
	}
	item, err := s.getOwnedItem(ctx, buyerID, itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem 删除条目
func (s *CartService) RemoveItem(ctx context.Context, buyerID, itemID int64) error {
	item, err := s.getOwnedItem(ctx, buyerID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(ctx, item.ID)
}

// Clear 清空购物车，没有购物车时为空操作
func (s *CartService) Clear(ctx context.Context, buyerID int64) error {
	c, err := s.cartRepo.GetByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.cartRepo.ClearItems(ctx, c.ID)
}
