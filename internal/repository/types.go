package repository

import "time"

// MenuItemListFilter 查询菜品列表的过滤条件
type MenuItemListFilter struct {
	Page          int
	PageSize      int
	RestaurantID  uint
	CategoryID    uint
	Search        string
	OnlyAvailable bool
	WithCategory  bool
}

// TableListFilter 查询餐桌列表的过滤条件
type TableListFilter struct {
	Page         int
	PageSize     int
	RestaurantID uint
	Status       string
	TableType    string
}

// SessionListFilter 查询就餐会话列表的过滤条件
type SessionListFilter struct {
	Page         int
	PageSize     int
	RestaurantID uint
	TableID      uint
	Status       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page         int
	PageSize     int
	RestaurantID uint
	SessionID    string
	TableID      uint
	OrderNo      string
	Status       string
	Statuses     []string
	DinerOpenID  string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	WithItems    bool
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	Page         int
	PageSize     int
	RestaurantID uint
	SessionID    string
	DinerOpenID  string
	Method       string
	Status       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// PrintJobListFilter 查询打印任务列表的过滤条件
type PrintJobListFilter struct {
	Page         int
	PageSize     int
	RestaurantID uint
	OrderID      string
	Status       string
}
