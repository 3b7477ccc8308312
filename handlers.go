package main

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var textGen TextGenerator

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	if err := db.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "finance-tracker",
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// register creates a new account. A duplicate email is a user-visible
// warning, not a server error, and leaves no state behind.
func register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingID int
	err := db.QueryRow("SELECT id FROM users WHERE email = $1", req.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"warning": "User already exists with this email. Please login."})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if _, err := db.Exec(
		"INSERT INTO users (name, email, password) VALUES ($1, $2, $3)",
		req.Name, req.Email, string(hashed),
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful! Please login."})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login verifies credentials and mints a new session
func login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user User
	err := db.QueryRow(
		"SELECT id, name, password FROM users WHERE email = $1", req.Email,
	).Scan(&user.ID, &user.Name, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Email or Password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Email or Password"})
		return
	}

	token := newSessionToken()
	state := &SessionState{UserID: user.ID, UserName: user.Name}
	if err := sessions.Save(c.Request.Context(), token, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    gin.H{"id": user.ID, "name": user.Name},
	})
}

// logout destroys the session and clears the cookie
func logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		if err := sessions.Delete(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// fetchMetricsInput gathers the per-user aggregates the summary is built from
func fetchMetricsInput(userID int) (MetricsInput, error) {
	var in MetricsInput

	if err := db.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM income WHERE user_id = $1", userID,
	).Scan(&in.TotalIncome); err != nil {
		return in, err
	}

	if err := db.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM expense WHERE user_id = $1", userID,
	).Scan(&in.TotalExpense); err != nil {
		return in, err
	}

	if err := db.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM savings WHERE user_id = $1", userID,
	).Scan(&in.TotalSavings); err != nil {
		return in, err
	}

	err := db.QueryRow(`
		SELECT category, SUM(amount) AS total
		FROM expense
		WHERE user_id = $1
		GROUP BY category
		ORDER BY total DESC
		LIMIT 1
	`, userID).Scan(&in.TopCategory, &in.TopCategoryAmount)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		in.HasExpenseData = false
	case err != nil:
		return in, err
	default:
		in.HasExpenseData = true
	}

	return in, nil
}

// getDashboard returns the ledgers, the current month's budget and the
// derived summary. Everything is recomputed from the ledger state on each
// request; nothing here is cached.
func getDashboard(c *gin.Context) {
	_, state, ok := currentSession(c)
	if !ok {
		return
	}
	userID := state.UserID

	in, err := fetchMetricsInput(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// ensure empty array ([]) instead of null when no rows
	incomes := make([]Income, 0)
	rows, err := db.Query(
		"SELECT id, amount, source, income_date FROM income WHERE user_id = $1 ORDER BY income_date DESC", userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var rec Income
		if err := rows.Scan(&rec.ID, &rec.Amount, &rec.Source, &rec.Date); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		incomes = append(incomes, rec)
	}

	expenses := make([]Expense, 0)
	rows, err = db.Query(
		"SELECT id, amount, category, expense_date FROM expense WHERE user_id = $1 ORDER BY expense_date DESC", userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var rec Expense
		if err := rows.Scan(&rec.ID, &rec.Amount, &rec.Category, &rec.Date); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		expenses = append(expenses, rec)
	}

	savings := make([]Saving, 0)
	rows, err = db.Query(
		"SELECT id, amount, saving_date FROM savings WHERE user_id = $1 ORDER BY saving_date DESC", userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var rec Saving
		if err := rows.Scan(&rec.ID, &rec.Amount, &rec.Date); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		savings = append(savings, rec)
	}

	now := time.Now()
	month, year := now.Month().String(), now.Year()
	var monthlyBudget float64
	err = db.QueryRow(
		"SELECT monthly_budget FROM budget WHERE user_id = $1 AND month = $2 AND year = $3",
		userID, month, year,
	).Scan(&monthlyBudget)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summary := BuildFinancialSummary(in)

	c.JSON(http.StatusOK, gin.H{
		"name":           state.UserName,
		"monthly_budget": monthlyBudget,
		"incomes":        incomes,
		"expenses":       expenses,
		"savings":        savings,
		"summary":        summary,
	})
}

type incomeRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Source string  `json:"source" binding:"required"`
	Date   string  `json:"date" binding:"required"`
}

// addIncome records an income ledger entry
func addIncome(c *gin.Context) {
	_, state, ok := currentSession(c)
	if !ok {
		return
	}

	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := db.Exec(
		"INSERT INTO income (user_id, amount, source, income_date) VALUES ($1, $2, $3, $4)",
		state.UserID, req.Amount, req.Source, req.Date,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Income added successfully!"})
}

type expenseRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Date     string  `json:"date" binding:"required"`
}

// addExpense records an expense ledger entry
func addExpense(c *gin.Context) {
	_, state, ok := currentSession(c)
	if !ok {
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := db.Exec(
		"INSERT INTO expense (user_id, amount, category, expense_date) VALUES ($1, $2, $3, $4)",
		state.UserID, req.Amount, req.Category, req.Date,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Expense added successfully!"})
}

type savingRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// addSaving records a savings ledger entry, dated today
func addSaving(c *gin.Context) {
	_, state, ok := currentSession(c)
	if !ok {
		return
	}

	var req savingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := db.Exec(
		"INSERT INTO savings (user_id, amount, saving_date) VALUES ($1, $2, $3)",
		state.UserID, req.Amount, time.Now().Format("2006-01-02"),
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Saving added successfully!"})
}

// deleteLedgerEntry removes a single row, scoped to the owning user
func deleteLedgerEntry(table string) gin.HandlerFunc {
	query := map[string]string{
		"income":  "DELETE FROM income WHERE id = $1 AND user_id = $2",
		"expense": "DELETE FROM expense WHERE id = $1 AND user_id = $2",
		"savings": "DELETE FROM savings WHERE id = $1 AND user_id = $2",
	}[table]

	return func(c *gin.Context) {
		_, state, ok := currentSession(c)
		if !ok {
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if _, err := db.Exec(query, id, state.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
	}
}

// clearLedger removes every row of one ledger for the owning user
func clearLedger(table string) gin.HandlerFunc {
	query := map[string]string{
		"income":  "DELETE FROM income WHERE user_id = $1",
		"expense": "DELETE FROM expense WHERE user_id = $1",
		"savings": "DELETE FROM savings WHERE user_id = $1",
	}[table]

	return func(c *gin.Context) {
		_, state, ok := currentSession(c)
		if !ok {
			return
		}

		if _, err := db.Exec(query, state.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Ledger cleared"})
	}
}

type budgetRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// setBudget upserts the budget row for the current calendar month
func setBudget(c *gin.Context) {
	_, state, ok := currentSession(c)
	if !ok {
		return
	}

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	month, year := now.Month().String(), now.Year()

	var existingID int
	err := db.QueryRow(
		"SELECT id FROM budget WHERE user_id = $1 AND month = $2 AND year = $3",
		state.UserID, month, year,
	).Scan(&existingID)
	switch {
	case err == nil:
		_, err = db.Exec(
			"UPDATE budget SET monthly_budget = $1 WHERE user_id = $2 AND month = $3 AND year = $4",
			req.Amount, state.UserID, month, year,
		)
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(
			"INSERT INTO budget (user_id, monthly_budget, month, year) VALUES ($1, $2, $3, $4)",
			state.UserID, req.Amount, month, year,
		)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget saved", "month": month, "year": year})
}

// getProfile returns the account's name and email
func getProfile(c *gin.Context) {
	_, state, ok := currentSession(c)
	if !ok {
		return
	}

	var user User
	err := db.QueryRow(
		"SELECT id, name, email FROM users WHERE id = $1", state.UserID,
	).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

type profileRequest struct {
	Name string `json:"name" binding:"required"`
}

// updateProfile renames the account and refreshes the session copy
func updateProfile(c *gin.Context) {
	token, state, ok := currentSession(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := db.Exec("UPDATE users SET name = $1 WHERE id = $2", req.Name, state.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	state.UserName = req.Name
	if err := sessions.Save(c.Request.Context(), token, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// chatView returns the state's value for the chat response
func chatView(state *SessionState) gin.H {
	return gin.H{
		"chats":          state.Chats,
		"active_chat_id": state.ActiveChatID,
		"active_chat":    activeChat(state),
	}
}

// getChat lists the session's chat threads. ?new_chat=1 creates a thread,
// ?chat_id=<id> switches the active one. The active-thread invariant is
// repaired before responding, so the client always sees a usable thread.
func getChat(c *gin.Context) {
	token, state, ok := currentSession(c)
	if !ok {
		return
	}

	if c.Query("new_chat") != "" {
		newChatThread(state, "New Chat")
	} else if id := c.Query("chat_id"); id != "" {
		selectChat(state, id)
	}

	ensureActiveChat(state)

	if err := sessions.Save(c.Request.Context(), token, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatView(state))
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

// postChat sends a question to the generator and appends both sides of the
// exchange. A generator failure still yields 200: the error text lands in
// the transcript instead.
func postChat(c *gin.Context) {
	token, state, ok := currentSession(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postMessage(c.Request.Context(), state, textGen, req.Question)

	if err := sessions.Save(c.Request.Context(), token, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatView(state))
}

// deleteChatThread removes one chat thread from the session
func deleteChatThread(c *gin.Context) {
	token, state, ok := currentSession(c)
	if !ok {
		return
	}

	deleteChat(state, c.Param("id"))

	if err := sessions.Save(c.Request.Context(), token, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatView(state))
}
