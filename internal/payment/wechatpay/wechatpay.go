package wechatpay

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
)

// Config 微信支付 APIv3 配置
type Config struct {
	AppID      string `json:"app_id"`
	MchID      string `json:"mch_id"`
	SerialNo   string `json:"serial_no"`
	APIV3Key   string `json:"api_v3_key"`
	PrivateKey string `json:"private_key"`
	NotifyURL  string `json:"notify_url"`
}

func (c *Config) normalize() {
	c.AppID = strings.TrimSpace(c.AppID)
	c.MchID = strings.TrimSpace(c.MchID)
	c.SerialNo = strings.TrimSpace(c.SerialNo)
	c.APIV3Key = strings.TrimSpace(c.APIV3Key)
	c.NotifyURL = strings.TrimSpace(c.NotifyURL)
	c.PrivateKey = normalizePrivateKey(c.PrivateKey)
}

// ParseConfig 解析微信支付配置
func ParseConfig(raw models.JSON) (*Config, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("序列化微信支付配置失败: %w", err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析微信支付配置失败: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// ValidateConfig 校验配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("微信支付配置为空")
	}
	if cfg.AppID == "" {
		return errors.New("微信支付配置缺少 app_id")
	}
	if cfg.MchID == "" {
		return errors.New("微信支付配置缺少 mch_id")
	}
	if cfg.SerialNo == "" {
		return errors.New("微信支付配置缺少 serial_no")
	}
	if cfg.APIV3Key == "" {
		return errors.New("微信支付配置缺少 api_v3_key")
	}
	if cfg.PrivateKey == "" {
		return errors.New("微信支付配置缺少 private_key")
	}
	if _, err := parsePrivateKey(cfg.PrivateKey); err != nil {
		return fmt.Errorf("微信支付商户私钥无效: %w", err)
	}
	return nil
}

// CreateInput 下单入参
type CreateInput struct {
	PaymentID   string
	OutTradeNo  string
	Description string
	Amount      models.Money
	// PayerOpenID 为空时走 Native 扫码下单，否则走 JSAPI 小程序下单
	PayerOpenID string
}

// CreateResult 下单结果
type CreateResult struct {
	InteractionType string `json:"interaction_type"`
	// CodeURL Native 模式返回的二维码内容
	CodeURL string `json:"code_url,omitempty"`
	// PrepayID JSAPI 模式返回的预支付单号
	PrepayID string `json:"prepay_id,omitempty"`
}

// QueryResult 订单查询结果
type QueryResult struct {
	OutTradeNo    string
	TransactionID string
	TradeState    string
	PaymentID     string
	SuccessTime   *time.Time
}

// Client 微信支付客户端
type Client struct {
	cfg    *Config
	client *core.Client
}

// NewClient 创建微信支付客户端
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	priv, err := parsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	client, err := core.NewClient(ctx,
		option.WithWechatPayAutoAuthCipher(cfg.MchID, cfg.SerialNo, priv, cfg.APIV3Key),
	)
	if err != nil {
		return nil, fmt.Errorf("初始化微信支付客户端失败: %w", err)
	}
	return &Client{cfg: cfg, client: client}, nil
}

// CreatePayment 发起下单，返回收银交互信息
func (c *Client) CreatePayment(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if input.PaymentID == "" {
		return nil, errors.New("payment_id 不能为空")
	}
	if input.OutTradeNo == "" {
		return nil, errors.New("out_trade_no 不能为空")
	}
	totalFen, err := convertAmountToFen(input.Amount)
	if err != nil {
		return nil, err
	}
	desc := input.Description
	if desc == "" {
		desc = "堂食订单"
	}

	if input.PayerOpenID != "" {
		svc := jsapi.JsapiApiService{Client: c.client}
		resp, _, err := svc.Prepay(ctx, jsapi.PrepayRequest{
			Appid:       core.String(c.cfg.AppID),
			Mchid:       core.String(c.cfg.MchID),
			Description: core.String(desc),
			OutTradeNo:  core.String(input.OutTradeNo),
			NotifyUrl:   core.String(c.cfg.NotifyURL),
			Attach:      core.String(input.PaymentID),
			Amount:      &jsapi.Amount{Total: core.Int64(totalFen)},
			Payer:       &jsapi.Payer{Openid: core.String(input.PayerOpenID)},
		})
		if err != nil {
			return nil, fmt.Errorf("微信支付 JSAPI 下单失败: %w", err)
		}
		if resp == nil || resp.PrepayId == nil || *resp.PrepayId == "" {
			return nil, errors.New("微信支付 JSAPI 下单未返回 prepay_id")
		}
		return &CreateResult{
			InteractionType: constants.PaymentInteractionWAP,
			PrepayID:        *resp.PrepayId,
		}, nil
	}

	svc := native.NativeApiService{Client: c.client}
	resp, _, err := svc.Prepay(ctx, native.PrepayRequest{
		Appid:       core.String(c.cfg.AppID),
		Mchid:       core.String(c.cfg.MchID),
		Description: core.String(desc),
		OutTradeNo:  core.String(input.OutTradeNo),
		NotifyUrl:   core.String(c.cfg.NotifyURL),
		Attach:      core.String(input.PaymentID),
		Amount:      &native.Amount{Total: core.Int64(totalFen)},
	})
	if err != nil {
		return nil, fmt.Errorf("微信支付 Native 下单失败: %w", err)
	}
	if resp == nil || resp.CodeUrl == nil || *resp.CodeUrl == "" {
		return nil, errors.New("微信支付 Native 下单未返回 code_url")
	}
	return &CreateResult{
		InteractionType: constants.PaymentInteractionQR,
		CodeURL:         *resp.CodeUrl,
	}, nil
}

// QueryOrderByOutTradeNo 按商户单号查询支付结果
func (c *Client) QueryOrderByOutTradeNo(ctx context.Context, outTradeNo string) (*QueryResult, error) {
	if outTradeNo == "" {
		return nil, errors.New("out_trade_no 不能为空")
	}
	svc := native.NativeApiService{Client: c.client}
	resp, _, err := svc.QueryOrderByOutTradeNo(ctx, native.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(outTradeNo),
		Mchid:      core.String(c.cfg.MchID),
	})
	if err != nil {
		return nil, fmt.Errorf("微信支付订单查询失败: %w", err)
	}
	return parseTransaction(resp), nil
}

// VerifyAndDecodeWebhook 验签并解密支付回调
func (c *Client) VerifyAndDecodeWebhook(ctx context.Context, req *http.Request) (*QueryResult, error) {
	priv, err := parsePrivateKey(c.cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	if err := downloader.MgrInstance().RegisterDownloaderWithPrivateKey(
		ctx, priv, c.cfg.SerialNo, c.cfg.MchID, c.cfg.APIV3Key,
	); err != nil {
		return nil, fmt.Errorf("注册微信支付平台证书下载器失败: %w", err)
	}
	verifier := verifiers.NewSHA256WithRSAVerifier(downloader.MgrInstance().GetCertificateVisitor(c.cfg.MchID))
	handler, err := notify.NewRSANotifyHandler(c.cfg.APIV3Key, verifier)
	if err != nil {
		return nil, fmt.Errorf("创建微信支付回调处理器失败: %w", err)
	}

	txn := new(payments.Transaction)
	if _, err := handler.ParseNotifyRequest(ctx, req, txn); err != nil {
		return nil, fmt.Errorf("微信支付回调验签失败: %w", err)
	}
	return parseTransaction(txn), nil
}

func parseTransaction(txn *payments.Transaction) *QueryResult {
	result := &QueryResult{}
	if txn == nil {
		return result
	}
	if txn.OutTradeNo != nil {
		result.OutTradeNo = *txn.OutTradeNo
	}
	if txn.TransactionId != nil {
		result.TransactionID = *txn.TransactionId
	}
	if txn.TradeState != nil {
		result.TradeState = *txn.TradeState
	}
	if txn.Attach != nil {
		result.PaymentID = strings.TrimSpace(*txn.Attach)
	}
	if txn.SuccessTime != nil && *txn.SuccessTime != "" {
		if t, err := time.Parse(time.RFC3339, *txn.SuccessTime); err == nil {
			result.SuccessTime = &t
		}
	}
	return result
}

// ToPaymentStatus 将微信交易状态映射为平台支付状态
func ToPaymentStatus(tradeState string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(tradeState)) {
	case "SUCCESS":
		return constants.PaymentStatusSuccess, true
	case "NOTPAY", "USERPAYING", "ACCEPT":
		return constants.PaymentStatusPending, true
	case "CLOSED", "REVOKED", "PAYERROR":
		return constants.PaymentStatusFailed, true
	case "REFUND":
		return constants.PaymentStatusRefunded, true
	default:
		return "", false
	}
}

// convertAmountToFen 金额转分，拒绝非正数与超过两位小数的金额
func convertAmountToFen(amount models.Money) (int64, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, errors.New("支付金额必须大于 0")
	}
	fen := amount.Mul(decimal.NewFromInt(100))
	if !fen.Equal(fen.Truncate(0)) {
		return 0, errors.New("支付金额最多支持两位小数")
	}
	return fen.IntPart(), nil
}

func normalizePrivateKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.ReplaceAll(key, "\\n", "\n")
	return key
}

func parsePrivateKey(raw string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(normalizePrivateKey(raw)))
	if block == nil {
		return nil, errors.New("私钥不是合法的 PEM 格式")
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("私钥类型不是 RSA")
		}
		return rsaKey, nil
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("解析 RSA 私钥失败: %w", err)
	}
	return key, nil
}
