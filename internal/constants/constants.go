package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

// 订单项状态常量（与订单状态共用取值）
const (
	OrderItemStatusPending   = OrderStatusPending
	OrderItemStatusPreparing = OrderStatusPreparing
	OrderItemStatusReady     = OrderStatusReady
	OrderItemStatusServed    = OrderStatusServed
	OrderItemStatusCancelled = OrderStatusCancelled
)

// 会话状态常量
const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

// 桌台状态常量
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
	TableStatusCleaning  = "cleaning"
)

// 桌台类型常量
const (
	TableTypeNormal  = "normal"
	TableTypeVIP     = "vip"
	TableTypePrivate = "private"
)

// 支付方式常量
const (
	PaymentMethodWechat  = "wechat"
	PaymentMethodAlipay  = "alipay"
	PaymentMethodCash    = "cash"
	PaymentMethodSplitAA = "split_aa"
)

// 支付状态常量
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSuccess    = "success"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

// 打印任务状态常量
const (
	PrintJobStatusPending = "pending"
	PrintJobStatusSuccess = "success"
	PrintJobStatusFailed  = "failed"
)

// 实时事件类型常量
const (
	EventNewOrder          = "new_order"
	EventOrderStatusUpdate = "order_status_update"
	EventItemStatusUpdate  = "order_item_status_update"
	EventOrderCancelled    = "order_cancelled"
	EventPaymentUpdate     = "payment_status_update"
)

// 实时频道前缀常量
const (
	ChannelSessionPrefix    = "session_"
	ChannelRestaurantPrefix = "restaurant_"
	ChannelKitchen          = "kitchen"
	ChannelAdmin            = "admin"
)

// 支付交互方式常量
const (
	PaymentInteractionQR       = "qr"
	PaymentInteractionRedirect = "redirect"
	PaymentInteractionWAP      = "wap"
	PaymentInteractionPage     = "page"
)

// 异步任务类型常量
const (
	TaskPrintReceipt    = "print:receipt"
	TaskPaymentSync     = "payment:sync"
	TaskSessionSettle   = "session:settle"
	QueueDefault        = "default"
	QueueCritical       = "critical"
	PaymentSyncMaxRetry = 5
)

// 默认餐厅 ID（单店部署）
const DefaultRestaurantID uint = 1
