package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/service"
)

// registerCartRoutes 购物车接口，仅操作当前买家自己的购物车
func registerCartRoutes(party iris.Party, cartSvc *service.CartService) {
	party.Get("/cart", func(ctx iris.Context) {
		c, err := cartSvc.GetOrCreate(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, c)
	})

	party.Get("/cart/items", func(ctx iris.Context) {
		items, err := cartSvc.ListItems(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, items)
	})

	party.Post("/cart/items", func(ctx iris.Context) {
		var req struct {
			ProductID int64 `json:"product_id"`
			Quantity  int64 `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		item, err := cartSvc.AddItem(ctx.Request().Context(), currentUserID(ctx), req.ProductID, req.Quantity)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, item)
	})

	party.Put("/cart/items/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Quantity int64 `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		item, err := cartSvc.UpdateItem(ctx.Request().Context(), currentUserID(ctx), id, req.Quantity)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, item)
	})

	party.Delete("/cart/items/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := cartSvc.RemoveItem(ctx.Request().Context(), currentUserID(ctx), id); err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, iris.Map{"removed": id})
	})

	party.Delete("/cart", func(ctx iris.Context) {
		if err := cartSvc.Clear(ctx.Request().Context(), currentUserID(ctx)); err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, iris.Map{"cleared": true})
	})
}
