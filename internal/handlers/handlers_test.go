package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashendes/crypto-storefront/internal/checkout"
	"github.com/ashendes/crypto-storefront/internal/events"
	"github.com/ashendes/crypto-storefront/internal/middleware"
	"github.com/ashendes/crypto-storefront/internal/pricing"
	"github.com/ashendes/crypto-storefront/internal/search"
)

const validCheckoutBody = `{
	"title": "Echo Dot",
	"price": "49.99",
	"thumbnail": "https://img/echo.jpg",
	"asin": "https://www.amazon.com/dp/B08N5WRWNW",
	"email": "buyer@example.com",
	"shippingAddress": {"name": "Ada", "address1": "1 Main St", "city": "Austin", "postalCode": "78701", "country": "us", "province": "tx"},
	"walletAddress": "0xabc",
	"chain": "base-sepolia",
	"currency": "usdc"
}`

type recordingPublisher struct {
	mutex   sync.Mutex
	events  []events.OrderCreated
	err     error
	release chan struct{}
}

func (p *recordingPublisher) PublishOrderCreated(ctx context.Context, event events.OrderCreated) error {
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) recorded() []events.OrderCreated {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]events.OrderCreated(nil), p.events...)
}

func (p *recordingPublisher) Close() error { return nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func provider(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func checkoutEngine(client *checkout.Client, dispatcher *events.Dispatcher) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/checkout/crossmint", NewCheckoutHandler(client, dispatcher).CreateOrder)
	return r
}

func checkoutClient(url, key string) *checkout.Client {
	return checkout.NewClient(checkout.ClientConfig{
		BaseURL:       url,
		APIKey:        key,
		MaxConcurrent: 2,
		Service:       "handlers-test",
	})
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msg, _ := resp["error"].(string)
	return msg
}

func TestCheckoutRelaysProviderReply(t *testing.T) {
	var calls int32
	reply := `{"clientSecret":"cs_1","order":{"orderId":"ord_9","phase":"payment"}}`
	srv := provider(t, http.StatusOK, reply, &calls)
	pub := &recordingPublisher{}
	dispatcher := events.NewDispatcher(pub, time.Second)

	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), dispatcher), "/api/checkout/crossmint", validCheckoutBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, reply, w.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	dispatcher.Wait()
	published := pub.recorded()
	require.Len(t, published, 1)
	assert.Equal(t, "ord_9", published[0].ProviderOrderID)
	assert.Equal(t, "B08N5WRWNW", published[0].ASIN)
	assert.Equal(t, "base-sepolia", published[0].Chain)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), published[0].RequestID)
	assert.NotEmpty(t, published[0].EventID)
}

func TestCheckoutRespondsBeforeEventIsPublished(t *testing.T) {
	reply := `{"order":{"orderId":"ord_slow"}}`
	srv := provider(t, http.StatusOK, reply, nil)
	pub := &recordingPublisher{release: make(chan struct{})}
	dispatcher := events.NewDispatcher(pub, 10*time.Second)

	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), dispatcher), "/api/checkout/crossmint", validCheckoutBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, reply, w.Body.String())
	assert.Empty(t, pub.recorded())

	close(pub.release)
	dispatcher.Wait()
	published := pub.recorded()
	require.Len(t, published, 1)
	assert.Equal(t, "ord_slow", published[0].ProviderOrderID)
}

func TestCheckoutIgnoresPublishFailure(t *testing.T) {
	srv := provider(t, http.StatusOK, `{"order":{"orderId":"ord_1"}}`, nil)
	pub := &recordingPublisher{err: errors.New("broker down")}
	dispatcher := events.NewDispatcher(pub, time.Second)

	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), dispatcher), "/api/checkout/crossmint", validCheckoutBody)

	assert.Equal(t, http.StatusOK, w.Code)
	dispatcher.Wait()
	assert.Len(t, pub.recorded(), 1)
}

func TestCheckoutMissingParameters(t *testing.T) {
	var calls int32
	srv := provider(t, http.StatusOK, `{}`, &calls)

	body := strings.Replace(validCheckoutBody, `"walletAddress": "0xabc"`, `"walletAddress": ""`, 1)
	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), nil), "/api/checkout/crossmint", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required parameters", errorOf(t, w))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCheckoutZeroPriceIsMissing(t *testing.T) {
	srv := provider(t, http.StatusOK, `{}`, nil)

	body := strings.Replace(validCheckoutBody, `"price": "49.99"`, `"price": 0`, 1)
	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), nil), "/api/checkout/crossmint", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required parameters", errorOf(t, w))
}

func TestCheckoutInvalidASIN(t *testing.T) {
	var calls int32
	srv := provider(t, http.StatusOK, `{}`, &calls)

	body := strings.Replace(validCheckoutBody, `https://www.amazon.com/dp/B08N5WRWNW`, `not-an-asin`, 1)
	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), nil), "/api/checkout/crossmint", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ASIN", errorOf(t, w))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCheckoutMalformedBody(t *testing.T) {
	srv := provider(t, http.StatusOK, `{}`, nil)

	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), nil), "/api/checkout/crossmint", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", errorOf(t, w))
}

func TestCheckoutWithoutAPIKey(t *testing.T) {
	var calls int32
	srv := provider(t, http.StatusOK, `{}`, &calls)

	w := post(checkoutEngine(checkoutClient(srv.URL, ""), nil), "/api/checkout/crossmint", validCheckoutBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "API key not configured", errorOf(t, w))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCheckoutProviderRejection(t *testing.T) {
	srv := provider(t, http.StatusUnprocessableEntity, `{"message":"Recipient address is not supported"}`, nil)
	pub := &recordingPublisher{}
	dispatcher := events.NewDispatcher(pub, time.Second)

	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), dispatcher), "/api/checkout/crossmint", validCheckoutBody)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Recipient address is not supported", errorOf(t, w))
	dispatcher.Wait()
	assert.Empty(t, pub.recorded())
}

func TestCheckoutProviderRejectionWithoutMessage(t *testing.T) {
	srv := provider(t, http.StatusBadRequest, `{"code":"bad"}`, nil)

	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), nil), "/api/checkout/crossmint", validCheckoutBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Failed to create checkout session", errorOf(t, w))
}

func TestCheckoutUnexpectedFailure(t *testing.T) {
	srv := provider(t, http.StatusOK, `<html>oops</html>`, nil)

	w := post(checkoutEngine(checkoutClient(srv.URL, "key"), nil), "/api/checkout/crossmint", validCheckoutBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", errorOf(t, w))
}

func searchEngine(url, key string) *gin.Engine {
	client := search.NewClient(search.ClientConfig{
		URL:           url,
		APIKey:        key,
		Engine:        "amazon_product",
		MaxConcurrent: 2,
		Service:       "handlers-test",
	})
	h := NewSearchHandler(search.NewService(client, "amazon.com", pricing.Options{}))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/checkout/search", h.Search)
	r.GET("/api/products/:asin", h.GetProduct)
	return r
}

func TestSearchReturnsEligibleProducts(t *testing.T) {
	srv := provider(t, http.StatusOK, `{"organic_results":[
		{"asin":"B000000001","title":"Mug","price":{"value":12}},
		{"asin":"B000000002","title":"Kale","is_whole_foods_market":true,"price":{"value":3}}
	]}`, nil)

	w := post(searchEngine(srv.URL, "key"), "/api/checkout/search", `{"query":"mug"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Mode     string `json:"mode"`
		Products []struct {
			ASIN         string `json:"asin"`
			DisplayPrice string `json:"display_price"`
		} `json:"products"`
		Excluded int `json:"excluded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "keyword", resp.Mode)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "B000000001", resp.Products[0].ASIN)
	assert.Equal(t, "$12.00", resp.Products[0].DisplayPrice)
	assert.Equal(t, 1, resp.Excluded)
}

func TestSearchRequiresQuery(t *testing.T) {
	r := searchEngine("http://127.0.0.1:1", "key")

	for _, body := range []string{`{}`, `{"query":"   "}`} {
		w := post(r, "/api/checkout/search", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Search query is required", errorOf(t, w), body)
	}
}

func TestSearchWithoutAPIKey(t *testing.T) {
	w := post(searchEngine("http://127.0.0.1:1", ""), "/api/checkout/search", `{"query":"mug"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Search API key not configured", errorOf(t, w))
}

func TestSearchProviderFailure(t *testing.T) {
	srv := provider(t, http.StatusServiceUnavailable, `{}`, nil)

	w := post(searchEngine(srv.URL, "key"), "/api/checkout/search", `{"query":"mug"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to search products", errorOf(t, w))
}

func TestGetProduct(t *testing.T) {
	srv := provider(t, http.StatusOK, `{"product":{"asin":"B08N5WRWNW","title":"Echo Dot","price":{"value":49.99}}}`, nil)
	r := searchEngine(srv.URL, "key")

	req := httptest.NewRequest(http.MethodGet, "/api/products/b08n5wrwnw", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "B08N5WRWNW", resp["asin"])
	assert.Equal(t, "$49.99", resp["display_price"])
}

func TestGetProductErrors(t *testing.T) {
	srv := provider(t, http.StatusOK, `{"search_metadata":{}}`, nil)
	r := searchEngine(srv.URL, "key")

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"/api/products/short", http.StatusBadRequest, "Invalid ASIN"},
		{"/api/products/B08N5WRWNW", http.StatusNotFound, "Product not found"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, tt.status, w.Code, tt.path)
		assert.Equal(t, tt.msg, errorOf(t, w), tt.path)
	}
}
