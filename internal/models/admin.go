package models

type RevenueStats struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Total float64 `json:"total"`
}

type OrderStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
	Cancelled  int `json:"cancelled"`
}

type CustomerStats struct {
	Total        int `json:"total"`
	NewThisMonth int `json:"newThisMonth"`
	Active       int `json:"active"`
}

type ProductStats struct {
	Total      int `json:"total"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

type DashboardStats struct {
	Revenue   RevenueStats  `json:"revenue"`
	Orders    OrderStats    `json:"orders"`
	Customers CustomerStats `json:"customers"`
	Products  ProductStats  `json:"products"`
}

type AdminCustomer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Image       *string `json:"image"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt"`
	OrdersCount int     `json:"ordersCount"`
	TotalSpent  float64 `json:"totalSpent"`
}

type AdminPagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type AdminCustomersResponse struct {
	Customers  []AdminCustomer `json:"customers"`
	Pagination AdminPagination `json:"pagination"`
}
