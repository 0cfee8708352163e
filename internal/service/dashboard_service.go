package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	radix "github.com/mediocregopher/radix/v3"
	"github.com/shopspring/decimal"

	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
)

const dashboardCacheKey = "dash:summary:%d" // sellerID

// DailyRevenue 单日营收
type DailyRevenue struct {
	Date    string          `json:"date"` // 2006-01-02
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardSummary 卖家看板汇总
type DashboardSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	// RevenueChangePercent 本月相对上月的营收变化百分比，上月为 0 时报 0
	RevenueChangePercent float64            `json:"revenue_change_percent"`
	TopProducts          []*product.Product `json:"top_products"`
	RecentOrders         []*order.Order     `json:"recent_orders"`
	// DailyRevenue 近 7 天逐日营收，最早的一天在前
	DailyRevenue []DailyRevenue `json:"daily_revenue"`
}

// DashboardService 卖家侧只读报表，读订单/商品数据做聚合
// 汇总结果在 Redis 中短暂缓存，减少重复聚合查询。
type DashboardService struct {
	orderRepo   order.Repository
	productRepo product.Repository
	redis       radix.Client
	cacheTTL    time.Duration
}

// NewDashboardService 创建看板服务，redis 为 nil 时不缓存
func NewDashboardService(orderRepo order.Repository, productRepo product.Repository, redis radix.Client, cacheTTL time.Duration) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		redis:       redis,
		cacheTTL:    cacheTTL,
	}
}

// sumRevenue 汇总一批订单的总价。注意：只要订单里含有该卖家的商品，
// 整单金额都计入该卖家营收（与原系统一致的已知不精确点）。
func sumRevenue(orders []*order.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return total
}

// receivedRevenueBetween 指定时间段内已收货订单的营收
func (s *DashboardService) receivedRevenueBetween(ctx context.Context, sellerID int64, from, to time.Time) (decimal.Decimal, error) {
	orders, err := s.orderRepo.ListBySeller(ctx, sellerID, order.StatusReceived, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return sumRevenue(orders), nil
}

// Summary 生成（或从缓存读取）卖家看板汇总
func (s *DashboardService) Summary(ctx context.Context, sellerID int64) (*DashboardSummary, error) {
	if cached := s.fromCache(sellerID); cached != nil {
		return cached, nil
	}

	now := time.Now()

	// 1) 总营收：所有已收货订单
	allReceived, err := s.orderRepo.ListBySeller(ctx, sellerID, order.StatusReceived, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	totalRevenue := sumRevenue(allReceived)

	// 2) 月环比：本月 vs 上月，上月为 0 时直接报 0，避免除零
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	curRevenue, err := s.receivedRevenueBetween(ctx, sellerID, monthStart, now.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	prevRevenue, err := s.receivedRevenueBetween(ctx, sellerID, prevMonthStart, monthStart)
	if err != nil {
		return nil, err
	}
	change := float64(0)
	if !prevRevenue.IsZero() {
		change, _ = curRevenue.Sub(prevRevenue).
			Div(prevRevenue).
			Mul(decimal.NewFromInt(100)).
			Float64()
	}

	// 3) 销量前 5 的商品
	topProducts, err := s.productRepo.TopBySales(ctx, sellerID, 5)
	if err != nil {
		return nil, err
	}

	// 4) 最近 10 笔订单
	recentOrders, err := s.orderRepo.ListRecentBySeller(ctx, sellerID, 10)
	if err != nil {
		return nil, err
	}

	// 5) 近 7 天逐日营收，每天独立计算，最早的一天在前
	daily := make([]DailyRevenue, 0, 7)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		revenue, err := s.receivedRevenueBetween(ctx, sellerID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		daily = append(daily, DailyRevenue{
			Date:    dayStart.Format("2006-01-02"),
			Revenue: revenue,
		})
	}

	summary := &DashboardSummary{
		TotalRevenue:         totalRevenue,
		RevenueChangePercent: change,
		TopProducts:          topProducts,
		RecentOrders:         recentOrders,
		DailyRevenue:         daily,
	}
	s.toCache(sellerID, summary)
	return summary, nil
}

func (s *DashboardService) fromCache(sellerID int64) *DashboardSummary {
	if s.redis == nil {
		return nil
	}
	key := fmt.Sprintf(dashboardCacheKey, sellerID)
	var raw string
	if err := s.redis.Do(radix.Cmd(&raw, "GET", key)); err != nil || raw == "" {
		return nil
	}
	var summary DashboardSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		_ = s.redis.Do(radix.Cmd(nil, "DEL", key))
		return nil
	}
	return &summary
}

func (s *DashboardService) toCache(sellerID int64, summary *DashboardSummary) {
	if s.redis == nil {
		return
	}
	key := fmt.Sprintf(dashboardCacheKey, sellerID)
	body, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Do(radix.FlatCmd(nil, "SETEX", key, int64(s.cacheTTL/time.Second), body)); err != nil {
		log.Printf("failed to cache dashboard summary for seller %d: %v", sellerID, err)
	}
}
