package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 这些测试需要一个运行中的服务实例（及其MySQL/Redis），
// 默认跳过，设置BOOKSHOP_INTEGRATION=1后启用

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// RequireServer 未启用集成测试环境时跳过
func RequireServer(t *testing.T) {
	t.Helper()
	if os.Getenv("BOOKSHOP_INTEGRATION") == "" {
		t.Skip("跳过集成测试：未设置BOOKSHOP_INTEGRATION")
	}
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID          uint   `json:"id"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       int64  `json:"price"`
	GenreID     uint   `json:"genre_id"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
}

// GenreData 类别响应数据
type GenreData struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CartViewData 购物车视图响应数据
type CartViewData struct {
	CartID     uint           `json:"cart_id"`
	Items      []CartItemData `json:"items"`
	TotalUnits int            `json:"total_units"`
	TotalCents int64          `json:"total_cents"`
}

// CartItemData 购物车行响应数据
type CartItemData struct {
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
	Available int    `json:"available"`
}

// StockListingData 库存管理列表项响应数据
type StockListingData struct {
	StockID  uint   `json:"stock_id"`
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// CheckoutData 结账响应数据
type CheckoutData struct {
	OrderID        uint   `json:"order_id"`
	Reference      string `json:"reference"`
	Status         int    `json:"status"`
	PaymentMethod  string `json:"payment_method"`
	Total          int64  `json:"total"`
	TotalFormatted string `json:"total_formatted"`
	ItemCount      int    `json:"item_count"`
}

// doJSON 发送请求并解析统一响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPost, url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPut, url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodGet, url, nil, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
// 时间戳保证测试重复运行时不冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestISBN 生成唯一的测试ISBN（978开头的13位）
func GenerateTestISBN() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("978%010d", timestamp%10000000000)
}

// RegisterTestUser 注册测试用户并返回Token
func RegisterTestUser(t *testing.T, name string) (email string, token string) {
	email = GenerateTestEmail(name)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"name":     name,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// LoginAdmin 管理员登录
// 管理员账号无法通过API创建（注册默认user角色），
// 需要预先在数据库中准备并通过环境变量提供凭证
func LoginAdmin(t *testing.T) (token string) {
	email := os.Getenv("BOOKSHOP_ADMIN_EMAIL")
	password := os.Getenv("BOOKSHOP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		t.Skip("跳过管理端测试：未设置BOOKSHOP_ADMIN_EMAIL/BOOKSHOP_ADMIN_PASSWORD")
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, 0, loginResp.Code, "管理员登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err)

	return loginData.AccessToken
}

// EnsureTestGenre 确保存在一个测试类别并返回ID
func EnsureTestGenre(t *testing.T, adminToken string) uint {
	name := fmt.Sprintf("集成测试类别_%d", time.Now().UnixNano())
	resp := PostJSON(t, BaseURL+"/admin/genres", map[string]string{"name": name}, adminToken)
	require.Equal(t, 0, resp.Code, "创建类别失败: %s", resp.Message)

	var genre GenreData
	err := json.Unmarshal(resp.Data, &genre)
	require.NoError(t, err)

	return genre.ID
}

// PublishTestBook 上架测试图书（带初始库存）并返回图书ID
func PublishTestBook(t *testing.T, adminToken string, title string, stock int) uint {
	genreID := EnsureTestGenre(t, adminToken)

	bookResp := PostJSON(t, BaseURL+"/admin/books", map[string]interface{}{
		"isbn":          GenerateTestISBN(),
		"title":         title,
		"author":        "测试作者",
		"price":         8900, // 89.00
		"genre_id":      genreID,
		"description":   "集成测试用图书",
		"initial_stock": stock,
	}, adminToken)
	require.Equal(t, 0, bookResp.Code, "图书上架失败: %s", bookResp.Message)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// AddToCart 加购辅助
func AddToCart(t *testing.T, token string, bookID uint, quantity int) {
	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": quantity,
	}, token)
	require.Equal(t, 0, resp.Code, "加购失败: %s", resp.Message)
}
