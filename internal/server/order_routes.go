package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/metrics"
	"github.com/example/goshop/internal/middleware"
	"github.com/example/goshop/internal/service"
)

// registerOrderRoutes 订单接口：买家下单/结算/取消/确认收货，卖家推状态
func registerOrderRoutes(party iris.Party, orderSvc *service.OrderService) {
	// 按显式商品清单下单
	party.Post("/orders", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		success := false
		defer func() { metrics.RecordOrderOperation("place", success) }()

		var req struct {
			Items []service.Line `json:"items"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		o, err := orderSvc.PlaceOrder(ctx.Request().Context(), currentUserID(ctx), req.Items)
		if err != nil {
			fail(ctx, err)
			return
		}
		success = true
		created(ctx, o)
	})

	// 购物车结算
	party.Post("/orders/checkout", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		success := false
		defer func() { metrics.RecordOrderOperation("checkout", success) }()

		o, err := orderSvc.Checkout(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		success = true
		created(ctx, o)
	})

	party.Get("/orders", func(ctx iris.Context) {
		list, err := orderSvc.ListByBuyer(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	party.Get("/orders/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), id, currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, o)
	})

	// 买家取消（仅 to_ship 状态）
	party.Post("/orders/{id:int64}/cancel", func(ctx iris.Context) {
		success := false
		defer func() { metrics.RecordOrderOperation("cancel", success) }()

		id, _ := ctx.Params().GetInt64("id")
		o, err := orderSvc.Cancel(ctx.Request().Context(), id, currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		success = true
		ok(ctx, o)
	})

	// 买家确认收货（仅 to_receive 状态）
	party.Post("/orders/{id:int64}/received", func(ctx iris.Context) {
		success := false
		defer func() { metrics.RecordOrderOperation("mark_received", success) }()

		id, _ := ctx.Params().GetInt64("id")
		o, err := orderSvc.MarkReceived(ctx.Request().Context(), id, currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		success = true
		ok(ctx, o)
	})

	// 卖家推进状态
	party.Put("/orders/{id:int64}/status", requireSeller, func(ctx iris.Context) {
		success := false
		defer func() { metrics.RecordOrderOperation("update_status", success) }()

		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		o, err := orderSvc.SellerUpdateStatus(ctx.Request().Context(), id, currentUserID(ctx), order.Status(req.Status))
		if err != nil {
			fail(ctx, err)
			return
		}
		success = true
		ok(ctx, o)
	})
}
