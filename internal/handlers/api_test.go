package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/hariharan-1607/budget-sample/internal/auth"
	dom "github.com/hariharan-1607/budget-sample/internal/domain"
	"github.com/hariharan-1607/budget-sample/internal/handlers"
	"github.com/hariharan-1607/budget-sample/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stores mirroring the SQL semantics: ownership is part of
// every lookup, and a miss is pgx.ErrNoRows.

type memUserRepo struct {
	users  map[string]dom.User
	nextID int64
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	u, ok := m.users[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memUserRepo) Create(ctx context.Context, name, email, passwordHash string) (dom.User, error) {
	if _, ok := m.users[email]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	u := dom.User{ID: m.nextID, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	m.nextID++
	m.users[email] = u
	return u, nil
}

type memStore struct {
	budgets  map[int64]dom.Budget
	expenses map[int64]dom.Expense
	nextID   int64
	now      time.Time
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) Create(ctx context.Context, userID int64, name string, totalAmount float64) (dom.Budget, error) {
	b := dom.Budget{ID: m.nextID, UserID: userID, Name: name, TotalAmount: totalAmount, CreatedAt: m.tick(), Expenses: []dom.Expense{}}
	m.nextID++
	m.budgets[b.ID] = b
	return b, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID int64) ([]dom.Budget, error) {
	list := []dom.Budget{}
	for _, b := range m.budgets {
		if b.UserID != userID {
			continue
		}
		b.Expenses = []dom.Expense{}
		for _, e := range m.expenses {
			if e.BudgetID == b.ID {
				b.Expenses = append(b.Expenses, e)
			}
		}
		sort.Slice(b.Expenses, func(i, j int) bool { return b.Expenses[i].Date.After(b.Expenses[j].Date) })
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (m *memStore) Update(ctx context.Context, userID, id int64, name *string, totalAmount *float64) (dom.Budget, error) {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return dom.Budget{}, pgx.ErrNoRows
	}
	if name != nil {
		b.Name = *name
	}
	if totalAmount != nil {
		b.TotalAmount = *totalAmount
	}
	m.budgets[id] = b
	b.Expenses = []dom.Expense{}
	for _, e := range m.expenses {
		if e.BudgetID == id {
			b.Expenses = append(b.Expenses, e)
		}
	}
	return b, nil
}

func (m *memStore) Delete(ctx context.Context, userID, id int64) error {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.budgets, id)
	for eid, e := range m.expenses {
		if e.BudgetID == id {
			delete(m.expenses, eid)
		}
	}
	return nil
}

type memExpenseRepo struct{ *memStore }

func (m memExpenseRepo) owns(userID, budgetID int64) bool {
	b, ok := m.budgets[budgetID]
	return ok && b.UserID == userID
}

func (m memExpenseRepo) Create(ctx context.Context, userID, budgetID int64, category string, amount float64, description string) (dom.Expense, error) {
	if !m.owns(userID, budgetID) {
		return dom.Expense{}, pgx.ErrNoRows
	}
	e := dom.Expense{ID: m.nextID, BudgetID: budgetID, Category: category, Amount: amount, Description: description, Date: m.tick()}
	m.memStore.nextID++
	m.expenses[e.ID] = e
	return e, nil
}

func (m memExpenseRepo) Update(ctx context.Context, userID, budgetID, expenseID int64, category *string, amount *float64, description *string) (dom.Expense, error) {
	e, ok := m.expenses[expenseID]
	if !ok || e.BudgetID != budgetID || !m.owns(userID, budgetID) {
		return dom.Expense{}, pgx.ErrNoRows
	}
	if category != nil {
		e.Category = *category
	}
	if amount != nil {
		e.Amount = *amount
	}
	if description != nil {
		e.Description = *description
	}
	m.expenses[expenseID] = e
	return e, nil
}

func (m memExpenseRepo) Delete(ctx context.Context, userID, budgetID, expenseID int64) error {
	e, ok := m.expenses[expenseID]
	if !ok || e.BudgetID != budgetID || !m.owns(userID, budgetID) {
		return pgx.ErrNoRows
	}
	delete(m.expenses, expenseID)
	return nil
}

// newTestRouter wires the real handlers, services and middleware on top of
// the in-memory stores, mirroring the production route layout.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	userSvc := service.NewUserService(&memUserRepo{users: map[string]dom.User{}, nextID: 1})
	store := &memStore{
		budgets:  map[int64]dom.Budget{},
		expenses: map[int64]dom.Expense{},
		nextID:   1,
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	budgetSvc := service.NewBudgetService(store, memExpenseRepo{store}, nil)

	r := gin.New()
	api := r.Group("/api")
	authHandler := handlers.NewAuthHandler(tokens, userSvc)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/budgets", auth.RequireToken(tokens))
	b := handlers.NewBudgetHandler(budgetSvc)
	e := handlers.NewExpenseHandler(budgetSvc)
	protected.GET("", b.List)
	protected.POST("", b.Create)
	protected.PUT("/:id", b.Update)
	protected.DELETE("/:id", b.Delete)
	protected.POST("/:id/expenses", e.Create)
	protected.PUT("/:id/expenses/:expenseId", e.Update)
	protected.DELETE("/:id/expenses/:expenseId", e.Delete)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Route not found", "path": c.Request.URL.Path, "method": c.Request.Method})
	})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signupAndLogin(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{"name": name, "email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignupConflict(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ann", "email": "a@x.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User registered successfully")
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ann", "email": "a@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestLoginNoEnumerationLeak(t *testing.T) {
	r := newTestRouter(t)
	signupAndLogin(t, r, "Ann", "a@x.com", "pw")

	wrongPassword := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.com", "password": "wrong"})
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@x.com", "password": "pw"})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Code, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Body.String(), wrongPassword.Body.String())
}

func TestBudgetsRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/budgets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"No token, authorization denied"}`, w.Body.String())
}

func TestBudgetExpenseFlow(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "Ann", "a@x.com", "pw")

	w := doJSON(t, r, http.MethodPost, "/api/budgets", token, gin.H{"name": "Trip", "totalAmount": 1000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var budget struct {
		ID        int64   `json:"id"`
		Remaining float64 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &budget))
	assert.Equal(t, float64(1000), budget.Remaining)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/budgets/%d/expenses", budget.ID), token,
		gin.H{"category": "food", "amount": 150})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/budgets", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []struct {
		Name        string  `json:"name"`
		TotalAmount float64 `json:"totalAmount"`
		Remaining   float64 `json:"remaining"`
		Expenses    []struct {
			Category string  `json:"category"`
			Amount   float64 `json:"amount"`
		} `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Trip", list[0].Name)
	assert.Equal(t, float64(1000), list[0].TotalAmount)
	assert.Equal(t, float64(850), list[0].Remaining)
	require.Len(t, list[0].Expenses, 1)
	assert.Equal(t, "food", list[0].Expenses[0].Category)
	assert.Equal(t, float64(150), list[0].Expenses[0].Amount)
}

func TestCreateBudgetMissingFields(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "Ann", "a@x.com", "pw")

	for _, body := range []gin.H{
		{"totalAmount": 100},
		{"name": "Trip"},
		{},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/budgets", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	r := newTestRouter(t)
	token1 := signupAndLogin(t, r, "Ann", "a@x.com", "pw")
	token2 := signupAndLogin(t, r, "Bob", "b@x.com", "pw")

	w := doJSON(t, r, http.MethodPost, "/api/budgets", token2, gin.H{"name": "Bobs", "totalAmount": 500})
	require.Equal(t, http.StatusCreated, w.Code)
	var bobs struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bobs))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/budgets/%d", bobs.ID), token1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/budgets/%d", bobs.ID), token1, gin.H{"name": "Hijack"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bob's list is untouched and Ann's list never shows Bob's budget.
	w = doJSON(t, r, http.MethodGet, "/api/budgets", token2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bobs")

	w = doJSON(t, r, http.MethodGet, "/api/budgets", token1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Bobs")
}

func TestDeleteBudgetTwice(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "Ann", "a@x.com", "pw")

	w := doJSON(t, r, http.MethodPost, "/api/budgets", token, gin.H{"name": "Trip", "totalAmount": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	var budget struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &budget))

	path := fmt.Sprintf("/api/budgets/%d", budget.ID)
	w = doJSON(t, r, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Budget deleted successfully")

	w = doJSON(t, r, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExpenseUpdateAndDelete(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "Ann", "a@x.com", "pw")

	w := doJSON(t, r, http.MethodPost, "/api/budgets", token, gin.H{"name": "Trip", "totalAmount": 1000})
	require.Equal(t, http.StatusCreated, w.Code)
	var budget struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &budget))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/budgets/%d/expenses", budget.ID), token,
		gin.H{"category": "food", "amount": 150, "description": "groceries"})
	require.Equal(t, http.StatusCreated, w.Code)
	var expense struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))

	path := fmt.Sprintf("/api/budgets/%d/expenses/%d", budget.ID, expense.ID)
	w = doJSON(t, r, http.MethodPut, path, token, gin.H{"amount": 175})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"amount":175`)
	assert.Contains(t, w.Body.String(), "groceries")

	w = doJSON(t, r, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Expense deleted successfully")

	w = doJSON(t, r, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExpenseWrongParentBudget(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "Ann", "a@x.com", "pw")

	var ids []int64
	for _, name := range []string{"Trip", "Home"} {
		w := doJSON(t, r, http.MethodPost, "/api/budgets", token, gin.H{"name": name, "totalAmount": 500})
		require.Equal(t, http.StatusCreated, w.Code)
		var b struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		ids = append(ids, b.ID)
	}

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/budgets/%d/expenses", ids[0]), token,
		gin.H{"category": "food", "amount": 10})
	require.Equal(t, http.StatusCreated, w.Code)
	var e struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/budgets/%d/expenses/%d", ids[1], e.ID), token,
		gin.H{"amount": 20})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoRouteReturnsJSON(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Msg    string `json:"msg"`
		Path   string `json:"path"`
		Method string `json:"method"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/api/nope", body.Path)
	assert.Equal(t, http.MethodGet, body.Method)
	assert.NotEmpty(t, body.Msg)
}
