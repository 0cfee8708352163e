package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/service"
)

// registerDashboardRoutes 卖家看板（只读报表）
func registerDashboardRoutes(party iris.Party, dashboardSvc *service.DashboardService) {
	party.Get("/dashboard/summary", requireSeller, func(ctx iris.Context) {
		summary, err := dashboardSvc.Summary(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, summary)
	})
}
