package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ordercore/api/health"
	"ordercore/api/order"
	"ordercore/api/user"
	orderapp "ordercore/application/order"
	userapp "ordercore/application/user"
	"ordercore/config"
	"ordercore/domain"
	"ordercore/domain/event"
	domainorder "ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/infrastructure/persistence/memory"
	"ordercore/infrastructure/persistence/scaffold"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Code       int             `json:"code"`
	RequestID  string          `json:"request_id"`
	Pagination struct {
		Page          int   `json:"page"`
		Size          int   `json:"size"`
		TotalElements int64 `json:"totalElements"`
		TotalPages    int   `json:"totalPages"`
	} `json:"pagination"`
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type brokenOrders struct {
	*memory.OrderRepository
}

func (brokenOrders) List(context.Context, int, int) (*shared.Page[*domainorder.Order], error) {
	return nil, shared.NewPersistenceError("sql", "list orders", errors.New("connection refused"))
}

func newTestRouter(t *testing.T, repos *domain.Repositories, pub event.Publisher, pinger health.Pinger) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "ordercore", Version: "test", Env: "test"},
		Database: config.DatabaseConfig{Type: config.DatabaseMemory},
	}

	orderSvc, err := orderapp.NewService(repos, pub, nil)
	require.NoError(t, err)
	userSvc, err := userapp.NewApplicationService(repos.Users)
	require.NoError(t, err)

	r := NewRouter(cfg, health.NewController(cfg, pinger), user.NewController(userSvc), order.NewController(orderSvc))
	r.SetupRoutes()
	return r.GetEngine()
}

func memoryRepos(t *testing.T) *domain.Repositories {
	t.Helper()
	repos, err := domain.NewRepositories(memory.NewOrderRepository(), memory.NewUserRepository())
	require.NoError(t, err)
	return repos
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	bus := event.NewEventBus()
	engine := newTestRouter(t, memoryRepos(t), bus, nil)

	w, env := do(t, engine, http.MethodPost, "/api/v1/orders/actions/create",
		`{"customer":{"userId":"u-1"},"totalAmount":120.5,"tags":["gift"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created orderapp.CreateOrderResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created.Order.OrderID
	assert.True(t, strings.HasPrefix(id, "order-"))
	assert.NotEmpty(t, env.RequestID)

	w, _ = do(t, engine, http.MethodGet, "/api/v1/orders/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, engine, http.MethodPost, "/api/v1/orders/"+id+"/actions/approve",
		`{"approvedByUserId":"admin","notes":["n1"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved orderapp.ApproveOrderResult
	require.NoError(t, json.Unmarshal(env.Data, &approved))
	assert.Equal(t, domainorder.StateApproved, approved.Order.CurrentState)
	assert.Equal(t, 1, approved.Transition.NoteCount)

	w, env = do(t, engine, http.MethodPost, "/api/v1/orders/"+id+"/actions/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_ORDER_STATE", env.Error)

	w, _ = do(t, engine, http.MethodPost, "/api/v1/orders/"+id+"/actions/ship", `{"carrier":"DHL"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	history := bus.History()
	require.Len(t, history, 3)
	assert.Equal(t, orderapp.EventShipOrderResult, history[2].EventType)
}

func TestOrderReadsOverHTTP(t *testing.T) {
	engine := newTestRouter(t, memoryRepos(t), nil, nil)

	for _, id := range []string{"A", "B", "C"} {
		w, _ := do(t, engine, http.MethodPut, "/api/v1/orders/"+id,
			`{"customer":{"userId":"u-1"},"totalAmount":10}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, env := do(t, engine, http.MethodGet, "/api/v1/orders?page=abc&size=2.9", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Pagination.Page)
	assert.Equal(t, 2, env.Pagination.Size)
	assert.EqualValues(t, 3, env.Pagination.TotalElements)
	assert.Equal(t, 2, env.Pagination.TotalPages)

	w, env = do(t, engine, http.MethodGet, "/api/v1/orders?size=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, shared.DefaultPageSize, env.Pagination.Size)

	w, env = do(t, engine, http.MethodPost, "/api/v1/orders/query", `{"orderId":{"in":["A","C"]}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var items []domainorder.Order
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].OrderID)
	assert.Equal(t, domainorder.StateCreated, items[0].CurrentState)

	w, _ = do(t, engine, http.MethodPost, "/api/v1/orders/query", `{"orderId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, engine, http.MethodGet, "/api/v1/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error)

	w, env = do(t, engine, http.MethodPost, "/api/v1/orders/missing/actions/ship", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error)

	w, env = do(t, engine, http.MethodPut, "/api/v1/orders/D", `{"customer":{"userId":""},"totalAmount":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
}

func TestUsersOverHTTP(t *testing.T) {
	engine := newTestRouter(t, memoryRepos(t), nil, nil)

	w, _ := do(t, engine, http.MethodPut, "/api/v1/users/u-1", `{"email":"Alice@Example.com"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := do(t, engine, http.MethodGet, "/api/v1/users/u-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "alice@example.com")

	w, _ = do(t, engine, http.MethodGet, "/api/v1/users/u-2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, engine, http.MethodPut, "/api/v1/users/u-2", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)

	w, env = do(t, engine, http.MethodPost, "/api/v1/users/query", `{"email":{"contains":"ALICE"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Pagination.TotalElements)

	w, env = do(t, engine, http.MethodGet, "/api/v1/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Pagination.TotalElements)
}

func TestBackendErrorsOverHTTP(t *testing.T) {
	t.Run("scaffold adapter", func(t *testing.T) {
		repos, err := domain.NewRepositories(scaffold.NewOrderRepository("dynamo"), scaffold.NewUserRepository("dynamo"))
		require.NoError(t, err)
		engine := newTestRouter(t, repos, nil, nil)

		w, env := do(t, engine, http.MethodGet, "/api/v1/users", "")
		assert.Equal(t, http.StatusNotImplemented, w.Code)
		assert.Equal(t, "NOT_IMPLEMENTED", env.Error)
	})

	t.Run("storage failure", func(t *testing.T) {
		repos, err := domain.NewRepositories(brokenOrders{memory.NewOrderRepository()}, memory.NewUserRepository())
		require.NoError(t, err)
		engine := newTestRouter(t, repos, nil, nil)

		w, env := do(t, engine, http.MethodGet, "/api/v1/orders", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "PERSISTENCE_FAILURE", env.Error)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestHealth(t *testing.T) {
	engine := newTestRouter(t, memoryRepos(t), nil, stubPinger{})
	w, _ := do(t, engine, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	engine = newTestRouter(t, memoryRepos(t), nil, stubPinger{err: errors.New("down")})
	w, _ = do(t, engine, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = do(t, engine, http.MethodGet, "/api/v1/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
