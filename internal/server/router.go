package server

import (
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/events"
	"github.com/example/goshop/internal/infra/mq"
	"github.com/example/goshop/internal/infra/redis"
	"github.com/example/goshop/internal/metrics"
	"github.com/example/goshop/internal/repository/mysql"
	"github.com/example/goshop/internal/service"
)

// RegisterRoutes 注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 仓储与服务
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	publisher := events.NewPublisher(mqConn, cfg.RabbitMQ.OrderQueue)

	userSvc := service.NewUserService(userRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(db, orderRepo, publisher)
	dashboardSvc := service.NewDashboardService(
		orderRepo,
		productRepo,
		redisClient,
		time.Duration(cfg.Dashboard.CacheTTLSeconds)*time.Second,
	)

	app.Use(metrics.Middleware())

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})
	app.Get("/metrics", iris.FromStd(promhttp.Handler()))

	api := app.Party("/api")

	// 注册（买家或卖家）
	api.Post("/register", func(ctx iris.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, err := userSvc.Register(ctx.Request().Context(), req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			fail(ctx, err)
			return
		}
		created(ctx, u)
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, u, err := userSvc.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, iris.Map{"token": token, "user": u, "role": u.Role})
	})

	// 需要登录的接口
	tokenCache := auth.NewTokenCache(redisClient, time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)
	authAPI := api.Party("/", authMiddleware(cfg, tokenCache))

	authAPI.Get("/user", func(ctx iris.Context) {
		u, err := userSvc.GetByID(ctx.Request().Context(), currentUserID(ctx))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, u)
	})

	registerProductRoutes(authAPI, productSvc)
	registerCartRoutes(authAPI, cartSvc)
	registerOrderRoutes(authAPI, orderSvc)
	registerDashboardRoutes(authAPI, dashboardSvc)
}

// authMiddleware 解析 Bearer token，claims 写入请求上下文。
// 解析结果优先走 Redis 缓存，未命中再做签名校验。
func authMiddleware(cfg *config.Config, cache *auth.TokenCache) iris.Handler {
	return func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}

		claims, hit, err := cache.Get(ctx.Request().Context(), token)
		if err != nil || !hit {
			claims, err = auth.ParseToken(&cfg.JWT, token)
			if err != nil {
				ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
				return
			}
			_ = cache.Set(ctx.Request().Context(), token, claims)
		}

		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("name", claims.Name)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// requireSeller 仅卖家可访问
func requireSeller(ctx iris.Context) {
	if currentRole(ctx) != user.RoleSeller {
		ctx.StopWithJSON(403, iris.Map{"code": 403, "msg": "seller account required"})
		return
	}
	ctx.Next()
}
