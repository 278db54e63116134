package dto

// DashboardCountsDTO - счётчики для главной страницы.
type DashboardCountsDTO struct {
	Letters      int64 `json:"letters"`
	Proposals    int64 `json:"proposals"`
	Procurements int64 `json:"procurements"`
	Invoices     int64 `json:"invoices"`
	Assets       int64 `json:"assets"`
}

// SessionDTO - что фронтенд знает о текущем пользователе.
type SessionDTO struct {
	UserID     string   `json:"user_id"`
	Branch     string   `json:"branch"`
	BranchName string   `json:"branch_name"`
	Actions    []string `json:"actions"`
}
