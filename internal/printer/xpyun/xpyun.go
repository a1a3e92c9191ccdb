package xpyun

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("xpyun config invalid")
	ErrRequestFailed   = errors.New("xpyun request failed")
	ErrResponseInvalid = errors.New("xpyun response invalid")
	ErrPrintRejected   = errors.New("xpyun print rejected")
)

const (
	defaultBaseURL = "https://open.xpyun.net/api/openapi"
	defaultTimeout = 10 * time.Second
)

// Config 芯烨云打印机配置
type Config struct {
	User     string `json:"user"`
	Password string `json:"password"`
	SN       string `json:"sn"`
	BaseURL  string `json:"base_url"`
}

func (c *Config) normalize() {
	c.User = strings.TrimSpace(c.User)
	c.Password = strings.TrimSpace(c.Password)
	c.SN = strings.TrimSpace(c.SN)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
}

// ValidateConfig 校验打印机配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.User) == "" {
		return fmt.Errorf("%w: user is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return fmt.Errorf("%w: password is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SN) == "" {
		return fmt.Errorf("%w: sn is required", ErrConfigInvalid)
	}
	return nil
}

// Client 芯烨云打印客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
	// now 便于测试固定时间戳
	now func() time.Time
}

// NewClient 创建打印客户端
func NewClient(cfg Config) (*Client, error) {
	cfg.normalize()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}, nil
}

// PrintResult 打印提交结果
type PrintResult struct {
	// ExternalID 云端打印单号，用于后续状态查询
	ExternalID string
}

// PrintReceipt 提交小票打印任务
func (c *Client) PrintReceipt(ctx context.Context, content string, copies int) (*PrintResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrConfigInvalid)
	}
	if copies <= 0 {
		copies = 1
	}
	data, err := c.post(ctx, "/xpyun/printOrders", map[string]interface{}{
		"content": content,
		"copies":  copies,
	})
	if err != nil {
		return nil, err
	}
	externalID := readString(data, "order_id")
	if externalID == "" {
		// 部分版本的接口直接在 data 上返回单号字符串
		externalID = readString(data, "orderId")
	}
	return &PrintResult{ExternalID: externalID}, nil
}

// QueryOrderState 查询云端打印任务状态，返回任务是否已打印完成
func (c *Client) QueryOrderState(ctx context.Context, externalID string) (bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return false, fmt.Errorf("%w: order_id is required", ErrConfigInvalid)
	}
	data, err := c.post(ctx, "/xpyun/queryOrderState", map[string]interface{}{
		"order_id": externalID,
	})
	if err != nil {
		return false, err
	}
	return readBool(data, "status"), nil
}

// buildAuthParams 生成签名公共参数
//
// timestampSign = md5(timestamp + password)
// sign          = md5(user + "," + timestamp + "," + timestampSign)
func (c *Client) buildAuthParams() map[string]interface{} {
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	timestampSign := md5Hex(timestamp + c.cfg.Password)
	sign := md5Hex(c.cfg.User + "," + timestamp + "," + timestampSign)
	return map[string]interface{}{
		"user":      c.cfg.User,
		"timestamp": timestamp,
		"sign":      sign,
		"sn":        c.cfg.SN,
	}
}

func (c *Client) post(ctx context.Context, endpoint string, payload map[string]interface{}) (map[string]interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	body := c.buildAuthParams()
	for key, value := range payload {
		body[key] = value
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrResponseInvalid, resp.StatusCode)
	}

	var envelope struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	if envelope.Code != 0 {
		msg := strings.TrimSpace(envelope.Msg)
		if msg == "" {
			msg = "code=" + strconv.Itoa(envelope.Code)
		}
		return nil, fmt.Errorf("%w: %s", ErrPrintRejected, msg)
	}

	data := map[string]interface{}{}
	if len(envelope.Data) > 0 {
		// data 可能是对象，也可能是裸字符串单号
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			var plain string
			if err := json.Unmarshal(envelope.Data, &plain); err == nil {
				data["order_id"] = plain
			}
		}
	}
	return data, nil
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func readString(raw map[string]interface{}, key string) string {
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value))
}

func readBool(raw map[string]interface{}, key string) bool {
	value, ok := raw[key]
	if !ok || value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}
