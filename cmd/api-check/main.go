package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080"

// 对着本地起好的服务跑一遍主链路：注册 → 登录 → 上架 → 加购 → 结算 → 取消。
// 只做冒烟用，断言靠人眼看输出。
func main() {
	fmt.Println("==========================================")
	fmt.Println("    goshop API 冒烟测试")
	fmt.Println("==========================================")
	fmt.Println()

	stamp := time.Now().UnixNano()
	sellerEmail := fmt.Sprintf("seller%d@example.com", stamp)
	buyerEmail := fmt.Sprintf("buyer%d@example.com", stamp)

	// 1. 注册卖家和买家
	fmt.Println("1. 注册卖家和买家...")
	if _, err := httpPost(baseURL+"/api/register", map[string]interface{}{
		"name": "smoke-seller", "email": sellerEmail, "password": "password1", "role": "seller",
	}, ""); err != nil {
		fmt.Printf("   卖家注册失败: %v\n", err)
		return
	}
	if _, err := httpPost(baseURL+"/api/register", map[string]interface{}{
		"name": "smoke-buyer", "email": buyerEmail, "password": "password1", "role": "buyer",
	}, ""); err != nil {
		fmt.Printf("   买家注册失败: %v\n", err)
		return
	}
	fmt.Println("   注册成功")

	// 2. 登录获取 token
	fmt.Println("\n2. 登录获取 token...")
	sellerToken, err := login(sellerEmail, "password1")
	if err != nil {
		fmt.Printf("   卖家登录失败: %v\n", err)
		return
	}
	buyerToken, err := login(buyerEmail, "password1")
	if err != nil {
		fmt.Printf("   买家登录失败: %v\n", err)
		return
	}
	fmt.Println("   登录成功")

	// 3. 卖家上架商品
	fmt.Println("\n3. 卖家上架商品...")
	createResp, err := httpPost(baseURL+"/api/products", map[string]interface{}{
		"name":        "Smoke Test Widget",
		"description": "created by api-check",
		"price":       "100.00",
		"stock":       10,
	}, sellerToken)
	if err != nil {
		fmt.Printf("   上架失败: %v\n", err)
		return
	}
	productData, _ := createResp["data"].(map[string]interface{})
	productID := productData["id"]
	fmt.Printf("   商品已上架: id=%v\n", productID)

	// 4. 买家加购两次，验证同一商品合并为一行
	fmt.Println("\n4. 买家加购两次（应合并为一行）...")
	for i := 0; i < 2; i++ {
		if _, err := httpPost(baseURL+"/api/cart/items", map[string]interface{}{
			"product_id": productID, "quantity": 1,
		}, buyerToken); err != nil {
			fmt.Printf("   加购失败: %v\n", err)
			return
		}
	}
	itemsResp, err := httpGet(baseURL+"/api/cart/items", buyerToken)
	if err != nil {
		fmt.Printf("   查询购物车失败: %v\n", err)
		return
	}
	fmt.Printf("   购物车条目: %v\n", itemsResp["data"])

	// 5. 结算下单
	fmt.Println("\n5. 购物车结算...")
	checkoutResp, err := httpPost(baseURL+"/api/orders/checkout", nil, buyerToken)
	if err != nil {
		fmt.Printf("   结算失败: %v\n", err)
		return
	}
	orderData, _ := checkoutResp["data"].(map[string]interface{})
	orderID := orderData["id"]
	fmt.Printf("   订单创建成功: id=%v total=%v status=%v\n",
		orderID, orderData["total_price"], orderData["status"])

	// 6. 买家取消订单（库存应回补）
	fmt.Println("\n6. 买家取消订单...")
	cancelResp, err := httpPost(fmt.Sprintf("%s/api/orders/%v/cancel", baseURL, orderID), nil, buyerToken)
	if err != nil {
		fmt.Printf("   取消失败: %v\n", err)
		return
	}
	cancelData, _ := cancelResp["data"].(map[string]interface{})
	fmt.Printf("   订单状态: %v\n", cancelData["status"])

	// 7. 卖家看板
	fmt.Println("\n7. 卖家看板汇总...")
	dashResp, err := httpGet(baseURL+"/api/dashboard/summary", sellerToken)
	if err != nil {
		fmt.Printf("   看板查询失败: %v\n", err)
		return
	}
	fmt.Printf("   看板: %v\n", dashResp["data"])

	fmt.Println("\n✅ 冒烟测试跑完")
}

func login(email, password string) (string, error) {
	resp, err := httpPost(baseURL+"/api/login", map[string]interface{}{
		"email": email, "password": password,
	}, "")
	if err != nil {
		return "", err
	}
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected login response: %v", resp)
	}
	token, _ := data["token"].(string)
	return token, nil
}

func httpPost(url string, payload interface{}, token string) (map[string]interface{}, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	return doRequest(req, token)
}

func httpGet(url, token string) (map[string]interface{}, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return doRequest(req, token)
}

func doRequest(req *http.Request, token string) (map[string]interface{}, error) {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("status %d, body %s", resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		return out, fmt.Errorf("status %d: %v", resp.StatusCode, out["msg"])
	}
	return out, nil
}
