package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	httpapi "homecafe/order-svc/internal/api/http"
	"homecafe/order-svc/internal/domain"
	"homecafe/order-svc/internal/service"
	"homecafe/order-svc/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowSecret = "flow-secret"

// newCafe wires the real services over a CSV log in a temp dir.
func newCafe(t *testing.T) (http.Handler, *storage.CSVOrderStore) {
	t.Helper()
	dir := t.TempDir()
	orders := storage.NewCSVOrderStore(filepath.Join(dir, "orders", "orders.csv"))
	messenger := storage.LogMessenger{}
	payment := service.NewPaymentQR(filepath.Join(dir, "missing.pdf"), "", dir)

	conversation := service.NewConversationService(domain.DefaultCatalog(), storage.NewMemorySessionStore(), orders, messenger, payment, nil, -1001)
	fulfillment := service.NewFulfillmentService(orders, messenger, nil)
	staff := service.NewStaffDesk(fulfillment, messenger, -1001, 10, 10)
	handler := httpapi.NewHandler(service.NewDispatcher(conversation, staff), fulfillment, flowSecret)
	return httpapi.NewRouter(handler), orders
}

func call(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Webhook-Secret", flowSecret)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestOrderFlow_EndToEnd(t *testing.T) {
	router, orders := newCafe(t)
	customer := domain.Customer{ID: 4242, FirstName: "Kristy", Username: "kristy"}

	updates := []domain.Update{
		{Kind: domain.UpdateCommand, Text: "/start"},
		{Kind: domain.UpdateTap, Data: "type_Coffee"},
		{Kind: domain.UpdateTap, Data: "temp_Iced"},
		{Kind: domain.UpdateTap, Data: "var_Ice White"},
		{Kind: domain.UpdateTap, Data: "addon_Oat Milk"},
		{Kind: domain.UpdateTap, Data: "addon_done"},
		{Kind: domain.UpdateTap, Data: "checkout"},
		{Kind: domain.UpdateMessage, Text: "paid, thanks!"},
	}
	for i, u := range updates {
		u.Customer = customer
		u.ChatID = customer.ID
		u.MessageID = 10
		u.TapID = "tap"
		rr := call(t, router, "POST", "/api/chat/updates", u)
		require.Equal(t, http.StatusOK, rr.Code, "update %d (%s)", i, u.Data+u.Text)
	}

	var pending struct {
		Orders    []domain.OrderRecord `json:"orders"`
		Remaining int                  `json:"remaining"`
	}
	rr := call(t, router, "GET", "/api/staff/orders/pending", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending.Orders, 1)

	placed := pending.Orders[0]
	assert.True(t, strings.HasPrefix(placed.OrderID, "kristy_"))
	assert.True(t, decimal.RequireFromString("6.50").Equal(placed.Total), "total %s", placed.Total)
	assert.Equal(t, "@kristy", placed.CustomerHandle)
	assert.Contains(t, placed.ItemsSummary, "Ice White (Iced) - Add-ons: Oat Milk")

	rr = call(t, router, "POST", "/api/staff/orders/"+strings.ToUpper(placed.OrderID)+"/ready", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"notified":true`)

	rr = call(t, router, "POST", "/api/staff/orders/"+placed.OrderID+"/ready", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	stored, err := orders.ByStatus(context.Background(), domain.StatusReady)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, placed.OrderID, stored[0].OrderID)
}
