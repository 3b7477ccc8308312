package main

// User represents a registered account
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	CreatedAt string `json:"created_at"`
}

// Income represents a single income ledger entry
type Income struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
	Date   string  `json:"date"`
}

// Expense represents a single expense ledger entry
type Expense struct {
	ID       int     `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

// Saving represents a single savings ledger entry
type Saving struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// Budget represents the monthly budget row, unique per (user, month, year)
type Budget struct {
	UserID        int     `json:"user_id"`
	Month         string  `json:"month"`
	Year          int     `json:"year"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

// MetricsInput carries the per-user aggregates the dashboard summary is
// derived from
type MetricsInput struct {
	TotalIncome       float64
	TotalExpense      float64
	TotalSavings      float64
	TopCategory       string
	TopCategoryAmount float64
	HasExpenseData    bool
}

// FinancialSummary is the derived dashboard summary. Recomputed from the
// ledgers on every request, never persisted.
type FinancialSummary struct {
	TotalIncome        float64 `json:"total_income"`
	TotalExpense       float64 `json:"total_expense"`
	Balance            float64 `json:"balance"`
	BalancePercentage  float64 `json:"balance_percentage"`
	SavingStatus       string  `json:"saving_status"`
	AIMessage          string  `json:"ai_message"`
	AIColor            string  `json:"ai_color"`
	CategoryMessage    string  `json:"category_message"`
	ExpenseAlert       string  `json:"expense_alert"`
	RecommendedNeeds   float64 `json:"recommended_needs"`
	RecommendedWants   float64 `json:"recommended_wants"`
	RecommendedSavings float64 `json:"recommended_savings"`
	ActualSavings      float64 `json:"actual_savings"`
	SavingsCompareMsg  string  `json:"savings_compare_msg"`
	SavingsCompareClr  string  `json:"savings_compare_color"`
}

// ChatMessage is one side of a chat exchange
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "ai"
	Content string `json:"content"`
}

// ChatThread is an independent conversation held in the session
type ChatThread struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

// SessionState is the server-side state behind one session cookie
type SessionState struct {
	UserID       int          `json:"user_id"`
	UserName     string       `json:"user_name"`
	Chats        []ChatThread `json:"chats"`
	ActiveChatID string       `json:"active_chat_id"`
}
