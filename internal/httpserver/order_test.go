package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/store_manager/internal/models"
	"github.com/Skotchmaster/store_manager/internal/service"
	"github.com/Skotchmaster/store_manager/internal/transport"
)

func createOrder(t *testing.T, env *testEnv, body string) uint {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/orders", body)
	require.NoError(t, env.O.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.OrderID)
	return resp.OrderID
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)

	id := createOrder(t, env, `{"user_id": 1, "items": [{"product_id": 1, "quantity": 2}, {"product_id": "2", "quantity": "1"}]}`)

	var order models.Order
	require.NoError(t, env.DB.First(&order, id).Error)
	assert.Equal(t, "24.5", order.TotalAmount.String())

	sold, ok := env.Mirror.Counter(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), sold)
}

func TestCreateOrder_ValidationMessage(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		body string
		msg  string
	}{
		{body: `{"user_id": 1, "items": []}`, msg: "must specify at least one user and one item per order"},
		{body: `{"user_id": 1, "items": [{"product_id": "x1", "quantity": 1}]}`, msg: "invalid article id: x1"},
		{body: `{"user_id": 1, "items": [{"product_id": 1, "quantity": 0}]}`, msg: "quantity must be greater than zero"},
		{body: `{"user_id": 1, "items": [{"product_id": 99, "quantity": 1}]}`, msg: "article id 99 not found"},
	}
	for _, tc := range cases {
		_, c := env.doJSONRequest(http.MethodPost, "/orders", tc.body)
		err := env.O.CreateOrder(c)
		require.Error(t, err, tc.body)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		assert.Equal(t, tc.msg, he.Message)
	}

	var n int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/orders", `{"user_id": 1, "items": [{"product_id": true}]}`)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, env.O.CreateOrder(c)))
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)
	id := createOrder(t, env, `{"user_id": 1, "items": [{"product_id": 1, "quantity": 3}]}`)

	rec, c := env.doJSONRequest(http.MethodGet, "/orders/"+strconv.Itoa(int(id)), nil)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(id)))
	require.NoError(t, env.O.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Equal(t, "30.00", fields["total_amount"])
	assert.Equal(t, "3", fields["item_0_quantity"])
}

func TestGetOrder_FromStore(t *testing.T) {
	env := newTestEnv(t)
	env.Mirror.FailProject = true
	id := createOrder(t, env, `{"user_id": 1, "items": [{"product_id": 2, "quantity": 2}]}`)
	path := "/orders/" + strconv.Itoa(int(id))

	assert.Equal(t, http.StatusNotFound, env.serve(http.MethodGet, path, "").Code)

	rec := env.serve(http.MethodGet, path+"?source=store", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, id, order.ID)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(9)), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint(2), order.Items[0].ProductID)

	assert.Equal(t, http.StatusNotFound, env.serve(http.MethodGet, "/orders/999?source=store", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.serve(http.MethodGet, path+"?source=disk", "").Code)
}

func TestGetOrder_NotCached(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/orders/5", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")
	assert.Equal(t, http.StatusNotFound, httpCode(t, env.O.GetOrder(c)))

	_, c = env.doJSONRequest(http.MethodGet, "/orders/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, env.O.GetOrder(c)))
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)
	first := createOrder(t, env, `{"user_id": 1, "items": [{"product_id": 1, "quantity": 1}]}`)
	second := createOrder(t, env, `{"user_id": 1, "items": [{"product_id": 2, "quantity": 2}]}`)

	rec, c := env.doJSONRequest(http.MethodGet, "/orders?source=cache&limit=1", nil)
	require.NoError(t, env.O.ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cached struct {
		Data []models.OrderSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cached))
	require.Len(t, cached.Data, 1)
	assert.Equal(t, second, cached.Data[0].ID)

	rec, c = env.doJSONRequest(http.MethodGet, "/orders", nil)
	require.NoError(t, env.O.ListOrders(c))

	var stored struct {
		Data []models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.Len(t, stored.Data, 2)
	assert.Equal(t, second, stored.Data[0].ID)
	assert.Equal(t, first, stored.Data[1].ID)

	_, c = env.doJSONRequest(http.MethodGet, "/orders?source=disk", nil)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, env.O.ListOrders(c)))
}

func TestDeleteOrder_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	id := createOrder(t, env, `{"user_id": 1, "items": [{"product_id": 1, "quantity": 1}]}`)
	path := "/orders/" + strconv.Itoa(int(id))

	assert.Equal(t, http.StatusUnauthorized, env.serve(http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusForbidden, env.serve(http.MethodDelete, path, adminToken(t, "user")).Code)
	assert.True(t, env.Mirror.Has(id))

	assert.Equal(t, http.StatusNoContent, env.serve(http.MethodDelete, path, adminToken(t, "admin")).Code)
	assert.False(t, env.Mirror.Has(id))
	_, ok := env.Mirror.Counter(1)
	assert.False(t, ok)

	assert.Equal(t, http.StatusNotFound, env.serve(http.MethodDelete, path, adminToken(t, "admin")).Code)
}

func TestSyncOrders(t *testing.T) {
	env := newTestEnv(t)
	env.Mirror.FailProject = true
	createOrder(t, env, `{"user_id": 1, "items": [{"product_id": 1, "quantity": 2}]}`)
	env.Mirror.FailProject = false

	rec := env.serve(http.MethodPost, "/orders/sync", adminToken(t, "admin"))
	require.Equal(t, http.StatusOK, rec.Code)

	var res service.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, service.SyncResult{Status: service.SyncSynced, Count: 1}, res)

	rec = env.serve(http.MethodPost, "/orders/sync", adminToken(t, "admin"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, service.SyncResult{Status: service.SyncAlreadySynced, Count: 1}, res)

	sold, _ := env.Mirror.Counter(1)
	assert.Equal(t, int64(2), sold)
}

func TestSyncOrders_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.Mirror.FailReads = true

	rec := env.serve(http.MethodPost, "/orders/sync", adminToken(t, "admin"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var res service.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, service.SyncFailed, res.Status)
	assert.Zero(t, res.Count)
}
