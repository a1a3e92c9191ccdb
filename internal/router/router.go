package router

import (
	"fmt"
	"strings"

	"github.com/paobai-next/internal/cache"
	"github.com/paobai-next/internal/config"
	adminhandlers "github.com/paobai-next/internal/http/handlers/admin"
	kitchenhandlers "github.com/paobai-next/internal/http/handlers/kitchen"
	publichandlers "github.com/paobai-next/internal/http/handlers/public"
	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按顾客/后厨/管理分组）
	publicHandler := publichandlers.New(c)
	kitchenHandler := kitchenhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pb"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁，请 %d 秒后重试",
	}
	wsRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:ws", redisPrefix),
		WindowSeconds: 60,
		MaxRequests:   30,
		Message:       "连接过于频繁，请 %d 秒后重试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（菜品图片）
	r.Static("/uploads", "./uploads")

	// 实时推送，顾客端与看板共用同一入口，订阅频道由连接自行声明
	r.GET("/ws", RateLimitMiddleware(redisClient, wsRule, KeyByIP), c.Hub.HandleWS)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 健康检查
		apiV1.GET("/health", publicHandler.Health)

		// 顾客端公开接口
		apiV1.GET("/restaurant/info", publicHandler.GetRestaurantInfo)
		apiV1.GET("/menu/categories", publicHandler.GetMenuCategories)
		apiV1.GET("/menu/items", publicHandler.GetMenuItems)
		apiV1.GET("/menu/items/:id", publicHandler.GetMenuItem)
		apiV1.GET("/tables/qr/:qr_code", publicHandler.GetTableByQRCode)

		// 就餐会话
		apiV1.POST("/sessions", publicHandler.CreateSession)
		apiV1.POST("/sessions/:sessionId/join", publicHandler.JoinSession)
		apiV1.GET("/sessions/:sessionId", publicHandler.GetSession)

		// 顾客点餐与结算，成员身份由会话内 openid 校验
		customer := apiV1.Group("/customer")
		{
			customer.POST("/orders", publicHandler.CreateOrder)
			customer.GET("/sessions/:sessionId/orders", publicHandler.ListSessionOrders)
			customer.PUT("/orders/:orderId/status", publicHandler.UpdateOrderStatus)
			customer.POST("/sessions/:sessionId/calculate-aa", publicHandler.CalculateAA)
			customer.POST("/payments", publicHandler.CreatePayment)
			customer.GET("/sessions/:sessionId/payments", publicHandler.ListSessionPayments)
		}

		// 支付网关回调
		apiV1.POST("/payments/callback/wechat", publicHandler.WechatPayCallback)
		apiV1.POST("/payments/callback/alipay", publicHandler.AlipayCallback)

		// 测试打印，面向店内调试，仅管理员可用
		apiV1.POST("/print/test", JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), adminHandler.TestPrint)

		// 后厨看板
		kitchen := apiV1.Group("/kitchen")
		{
			kitchen.GET("/orders", kitchenHandler.ListOrders)
			kitchen.PUT("/orders/:orderId/status", kitchenHandler.UpdateOrderStatus)
			kitchen.PUT("/order-items/:itemId/status", kitchenHandler.UpdateItemStatus)
			kitchen.GET("/stats/today", kitchenHandler.GetTodayStats)
			kitchen.GET("/dashboard/realtime", kitchenHandler.GetRealtimeDashboard)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 餐厅信息
				authorized.GET("/restaurant", adminHandler.GetRestaurant)
				authorized.PUT("/restaurant", adminHandler.UpdateRestaurant)

				// 餐桌管理
				authorized.GET("/tables", adminHandler.ListTables)
				authorized.POST("/tables", adminHandler.CreateTable)
				authorized.PUT("/tables/:id", adminHandler.UpdateTable)
				authorized.DELETE("/tables/:id", adminHandler.DeleteTable)

				// 菜单管理
				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.GET("/menu-items", adminHandler.ListMenuItems)
				authorized.POST("/menu-items", adminHandler.CreateMenuItem)
				authorized.PUT("/menu-items/:id", adminHandler.UpdateMenuItem)
				authorized.PUT("/menu-items/:id/available", adminHandler.SetMenuItemAvailable)
				authorized.DELETE("/menu-items/:id", adminHandler.DeleteMenuItem)

				// 订单与会话
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/sessions", adminHandler.ListSessions)
				authorized.GET("/sessions/:sessionId", adminHandler.GetSession)
				authorized.POST("/sessions/:sessionId/close", adminHandler.CloseSession)

				// 支付管理
				authorized.GET("/payments", adminHandler.ListPayments)
				authorized.GET("/payments/:paymentId", adminHandler.GetPayment)
				authorized.PUT("/payments/:paymentId/status", adminHandler.UpdatePaymentStatus)

				// 打印管理
				authorized.GET("/print-jobs", adminHandler.ListPrintJobs)
				authorized.POST("/print-jobs/:id/retry", adminHandler.RetryPrintJob)

				// 统计报表
				authorized.GET("/stats/overview", adminHandler.GetStatsOverview)
				authorized.GET("/stats/trends", adminHandler.GetOrderTrends)
				authorized.GET("/stats/popular-items", adminHandler.GetPopularItems)
				authorized.GET("/stats/categories", adminHandler.GetCategoryStats)
			}
		}
	}

	return r
}
