package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/repository/mysql"
	"github.com/example/goshop/internal/service"
)

// 初始化演示数据：两个卖家、两个买家和几件商品，方便本地起服务后直接点。
func main() {
	cfg := config.Load()
	db := mysql.Init(&cfg.MySQL)

	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	userSvc := service.NewUserService(userRepo, &cfg.JWT)

	ctx := context.Background()

	seedUsers := []struct {
		name, email, password, role string
	}{
		{"Tina", "tina@example.com", "tinabels1", user.RoleSeller},
		{"Zen", "zen@example.com", "zenmode11", user.RoleSeller},
		{"Khan", "khan@example.com", "khankhan1", user.RoleBuyer},
		{"Ivy", "ivy@example.com", "12345678", user.RoleBuyer},
	}

	sellers := make([]*user.User, 0, 2)
	for _, su := range seedUsers {
		u, err := userSvc.Register(ctx, su.name, su.email, su.password, su.role)
		if err != nil {
			// 重复执行 seed 时账号已存在，跳过即可
			log.Printf("skip user %s: %v", su.email, err)
			existing, gerr := userRepo.GetByEmail(ctx, su.email)
			if gerr != nil {
				continue
			}
			u = existing
		}
		if u.Role == user.RoleSeller {
			sellers = append(sellers, u)
		}
	}
	if len(sellers) == 0 {
		log.Fatal("no seller account available, cannot seed products")
	}

	seedProducts := []*product.Product{
		{
			Name:        "Wireless Mouse",
			Description: "Ergonomic wireless mouse with adjustable DPI.",
			Price:       decimal.NewFromFloat(899.00),
			Stock:       50,
			Image:       "products/mouse.jpg",
		},
		{
			Name:        "Mechanical Keyboard",
			Description: "RGB backlit mechanical keyboard with blue switches.",
			Price:       decimal.NewFromFloat(2499.00),
			Stock:       30,
			Image:       "products/keyboard.jpg",
		},
		{
			Name:        "USB-C Hub",
			Description: "7-in-1 hub with HDMI, card reader and PD charging.",
			Price:       decimal.NewFromFloat(1299.00),
			Stock:       40,
			Image:       "products/hub.jpg",
		},
		{
			Name:        "Laptop Stand",
			Description: "Adjustable aluminium laptop stand.",
			Price:       decimal.NewFromFloat(699.00),
			Stock:       60,
			Image:       "products/stand.jpg",
		},
	}

	for i, p := range seedProducts {
		seller := sellers[i%len(sellers)]
		p.SellerID = seller.ID
		if err := productRepo.Create(ctx, p); err != nil {
			log.Printf("skip product %s: %v", p.Name, err)
			continue
		}
		fmt.Printf("seeded product #%d %-22s price=%s stock=%d seller=%s\n",
			p.ID, p.Name, p.Price, p.Stock, seller.Name)
	}

	fmt.Println("seed done. start the api with: go run ./cmd/web")
}
