// +build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// 测试配置
var baseURL = getEnv("BASE_URL", "http://localhost:8080")

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("Kiosk 购物流程测试")
	fmt.Println("==========================================")
	fmt.Printf("Base URL: %s\n", baseURL)
	fmt.Println()

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	// 测试 1: 新建会话
	fmt.Println("测试 1: 新建会话")
	fmt.Println("----------------------------------------")
	result := makeRequest(client, "POST", baseURL+"/kiosk/api/v1/sessions")
	sessionID := resultField(result, "session_id")
	if sessionID == "" {
		fmt.Println("❌ 未拿到 session_id，终止")
		os.Exit(1)
	}
	fmt.Printf("✅ session_id: %s\n\n", sessionID)

	// 测试 2: 进入购物车
	fmt.Println("测试 2: 进入购物车")
	fmt.Println("----------------------------------------")
	makeRequest(client, "POST", fmt.Sprintf("%s/kiosk/api/v1/sessions/%s/cart", baseURL, sessionID))
	fmt.Println()

	// 测试 3: 减少一件商品
	fmt.Println("测试 3: 减少一件商品 (item 2)")
	fmt.Println("----------------------------------------")
	makeRequest(client, "POST", fmt.Sprintf("%s/kiosk/api/v1/sessions/%s/items/2/decrease", baseURL, sessionID))
	fmt.Println()

	// 测试 4: 完成购买
	fmt.Println("测试 4: 完成购买")
	fmt.Println("----------------------------------------")
	makeRequest(client, "POST", fmt.Sprintf("%s/kiosk/api/v1/sessions/%s/complete", baseURL, sessionID))
	fmt.Println()

	// 测试 5: 购买明细
	fmt.Println("测试 5: 购买明细")
	fmt.Println("----------------------------------------")
	makeRequest(client, "POST", fmt.Sprintf("%s/kiosk/api/v1/sessions/%s/purchase-details", baseURL, sessionID))
	fmt.Println()

	fmt.Println("==========================================")
	fmt.Println("测试完成")
	fmt.Println("==========================================")
}

func makeRequest(client *http.Client, method, url string) map[string]any {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		fmt.Printf("❌ 创建请求失败: %v\n", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("❌ 请求失败: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	fmt.Printf("状态码: %d\n", resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("❌ 读取响应失败: %v\n", err)
		return nil
	}

	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, respBody, "", "  "); err != nil {
		fmt.Printf("响应内容（非 JSON）:\n%s\n", string(respBody))
		return nil
	}
	fmt.Printf("响应内容:\n%s\n", prettyJSON.String())

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil
	}
	if code, ok := result["code"].(float64); ok {
		if code == 2000 {
			fmt.Println("✅ 请求成功")
		} else {
			fmt.Printf("⚠️  请求返回错误码: %.0f\n", code)
			if msg, ok := result["message"].(string); ok {
				fmt.Printf("错误信息: %s\n", msg)
			}
		}
	}
	return result
}

func resultField(envelope map[string]any, key string) string {
	if envelope == nil {
		return ""
	}
	data, ok := envelope["result"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := data[key].(string)
	return v
}
