package provider

import (
	"context"

	"github.com/paobai-next/internal/cache"
	"github.com/paobai-next/internal/config"
	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/payment/alipay"
	"github.com/paobai-next/internal/payment/wechatpay"
	"github.com/paobai-next/internal/printer/xpyun"
	"github.com/paobai-next/internal/queue"
	"github.com/paobai-next/internal/realtime"
	"github.com/paobai-next/internal/repository"
	"github.com/paobai-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Hub         *realtime.Hub

	// Repositories
	AdminRepo      repository.AdminRepository
	RestaurantRepo repository.RestaurantRepository
	TableRepo      repository.TableRepository
	CategoryRepo   repository.CategoryRepository
	MenuItemRepo   repository.MenuItemRepository
	SessionRepo    repository.SessionRepository
	OrderRepo      repository.OrderRepository
	PaymentRepo    repository.PaymentRepository
	PrintJobRepo   repository.PrintJobRepository
	StatsRepo      repository.StatsRepository

	// Services
	AuthService       *service.AuthService
	RestaurantService *service.RestaurantService
	TableService      *service.TableService
	MenuService       *service.MenuService
	SessionService    *service.SessionService
	OrderService      *service.OrderService
	SettlementService *service.SettlementService
	PaymentService    *service.PaymentService
	PrintService      *service.PrintService
	StatsService      *service.StatsService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Hub:         realtime.NewHub(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.RestaurantRepo = repository.NewRestaurantRepository(db)
	c.TableRepo = repository.NewTableRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.MenuItemRepo = repository.NewMenuItemRepository(db)
	c.SessionRepo = repository.NewSessionRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.PrintJobRepo = repository.NewPrintJobRepository(db)
	c.StatsRepo = repository.NewStatsRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.RestaurantService = service.NewRestaurantService(c.RestaurantRepo)
	c.TableService = service.NewTableService(c.TableRepo, c.SessionRepo)
	c.MenuService = service.NewMenuService(c.CategoryRepo, c.MenuItemRepo)
	c.SessionService = service.NewSessionService(c.SessionRepo, c.TableRepo, c.OrderRepo, c.PaymentRepo)
	c.SettlementService = service.NewSettlementService(c.SessionRepo, c.OrderRepo)
	c.PrintService = service.NewPrintService(c.PrintJobRepo, c.TableRepo, c.RestaurantRepo, c.newPrinterClient(), c.QueueClient, c.Config.Printer.SN)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.SessionRepo, c.MenuItemRepo, c.PaymentRepo, c.Hub, c.PrintService)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.SessionRepo, c.OrderRepo, c.SettlementService, c.newWechatPayClient(), c.newAlipayConfig(), c.Hub, c.QueueClient, c.PrintService)
	c.StatsService = service.NewStatsService(c.StatsRepo)
}

// newPrinterClient 按配置构建云打印客户端，未启用或配置缺失时返回 nil（打印任务保持待发送）。
func (c *Container) newPrinterClient() *xpyun.Client {
	if !c.Config.Printer.Enabled {
		return nil
	}
	client, err := xpyun.NewClient(xpyun.Config{
		User:     c.Config.Printer.User,
		Password: c.Config.Printer.Password,
		SN:       c.Config.Printer.SN,
		BaseURL:  c.Config.Printer.BaseURL,
	})
	if err != nil {
		logger.Warnw("provider_init_printer_failed", "error", err)
		return nil
	}
	return client
}

// newWechatPayClient 按配置构建微信支付客户端，未启用或配置缺失时返回 nil（下单降级为仅记录支付单）。
func (c *Container) newWechatPayClient() *wechatpay.Client {
	if !c.Config.WechatPay.Enabled {
		return nil
	}
	client, err := wechatpay.NewClient(context.Background(), &wechatpay.Config{
		AppID:      c.Config.WechatPay.AppID,
		MchID:      c.Config.WechatPay.MchID,
		SerialNo:   c.Config.WechatPay.SerialNo,
		APIV3Key:   c.Config.WechatPay.APIV3Key,
		PrivateKey: c.Config.WechatPay.PrivateKey,
		NotifyURL:  c.Config.WechatPay.NotifyURL,
	})
	if err != nil {
		logger.Warnw("provider_init_wechatpay_failed", "error", err)
		return nil
	}
	return client
}

func (c *Container) newAlipayConfig() *alipay.Config {
	if !c.Config.Alipay.Enabled {
		return nil
	}
	return &alipay.Config{
		AppID:           c.Config.Alipay.AppID,
		PrivateKey:      c.Config.Alipay.PrivateKey,
		AlipayPublicKey: c.Config.Alipay.AlipayPublicKey,
		GatewayURL:      c.Config.Alipay.Gateway,
		NotifyURL:       c.Config.Alipay.NotifyURL,
	}
}
