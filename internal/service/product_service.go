package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/errs"
)

type ProductService struct {
	repo product.Repository
}

func NewProductService(repo product.Repository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *ProductService) ListBySeller(ctx context.Context, sellerID int64) ([]*product.Product, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "product %d not found", id)
		}
		return nil, err
	}
	return p, nil
}

func validateProduct(p *product.Product) error {
	if p.Name == "" {
		return errs.New(errs.KindValidation, "name is required")
	}
	if p.Price.LessThan(decimal.Zero) {
		return errs.New(errs.KindValidation, "price must not be negative")
	}
	if p.Stock < 0 {
		return errs.New(errs.KindValidation, "stock must not be negative")
	}
	return nil
}

// Create 卖家上架商品，销量从零开始
func (s *ProductService) Create(ctx context.Context, sellerID int64, p *product.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	p.SellerID = sellerID
	p.Sales = 0
	return s.repo.Create(ctx, p)
}

// Update 更新商品，仅限所属卖家
func (s *ProductService) Update(ctx context.Context, sellerID, id int64, updated *product.Product) (*product.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, errs.New(errs.KindForbidden, "product does not belong to seller")
	}
	if err := validateProduct(updated); err != nil {
		return nil, err
	}

	p.Name = updated.Name
	p.Description = updated.Description
	p.Price = updated.Price
	p.Stock = updated.Stock
	if updated.Image != "" {
		p.Image = updated.Image
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete 下架商品，仅限所属卖家
func (s *ProductService) Delete(ctx context.Context, sellerID, id int64) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.SellerID != sellerID {
		return errs.New(errs.KindForbidden, "product does not belong to seller")
	}
	return s.repo.Delete(ctx, id)
}
