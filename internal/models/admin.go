package models

// AdminStats 后台统计
type AdminStats struct {
	OrdersToday    int          `json:"orders_today"`
	OrdersMonth    int          `json:"orders_month"`
	RevenueToday   float64      `json:"revenue_today"`
	RevenueMonth   float64      `json:"revenue_month"`
	TopProductsQty []TopProduct `json:"top_products_qty"`
	SalesByDay     []SalesByDay `json:"sales_by_day"`
}

// TopProduct 销量排行
type TopProduct struct {
	Name     string `json:"name"`
	TotalQty int    `json:"total_qty"`
}

// SalesByDay 每日销售额
type SalesByDay struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}
