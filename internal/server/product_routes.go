package server

import (
	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"

	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/service"
)

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Image       string          `json:"image"`
}

func (r *productRequest) toModel() *product.Product {
	return &product.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Image:       r.Image,
	}
}

// registerProductRoutes 商品目录：浏览对所有登录用户开放，写操作仅限卖家
func registerProductRoutes(party iris.Party, productSvc *service.ProductService) {
	party.Get("/products", func(ctx iris.Context) {
		list, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	// 卖家查看自己上架的商品，放在 {id} 路由之前避免被吞掉
	party.Get("/products/mine", requireSeller, func(ctx iris.Context) {
		list, err := productSvc.ListBySeller(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	party.Get("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, p)
	})

	party.Post("/products", requireSeller, func(ctx iris.Context) {
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p := req.toModel()
		if err := productSvc.Create(ctx.Request().Context(), currentUserID(ctx), p); err != nil {
			fail(ctx, err)
			return
		}
		created(ctx, p)
	})

	party.Put("/products/{id:int64}", requireSeller, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p, err := productSvc.Update(ctx.Request().Context(), currentUserID(ctx), id, req.toModel())
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, p)
	})

	party.Delete("/products/{id:int64}", requireSeller, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := productSvc.Delete(ctx.Request().Context(), currentUserID(ctx), id); err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, iris.Map{"deleted": id})
	})
}
