package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/optionpricer/internal/pricing/application"
	"github.com/wyfcoding/optionpricer/pkg/config"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := application.NewPricingService(config.PricingConfig{
		MinPrice:             1,
		MaxPrice:             10000,
		MinMaturity:          0,
		MaxMaturity:          10,
		MinVolatility:        0.01,
		MaxVolatility:        2.0,
		MinRate:              0,
		MaxRate:              0.20,
		MaxGridSize:          100,
		DefaultGridSize:      20,
		DefaultPayoffSamples: 100,
	}, nil)

	engine := gin.New()
	NewPricingHandler(svc).RegisterRoutes(engine)
	return engine
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQuoteEndpoint(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/pricing/quote", gin.H{
		"underlying_price": 100,
		"strike_price":     100,
		"time_to_maturity": 1,
		"risk_free_rate":   0.05,
		"volatility":       0.20,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code int `json:"code"`
		Data struct {
			CallPrice string `json:"call_price"`
			PutPrice  string `json:"put_price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Data.CallPrice != "10.450584" {
		t.Errorf("call price: expected 10.450584, got %s", resp.Data.CallPrice)
	}
	if resp.Data.PutPrice != "5.573526" {
		t.Errorf("put price: expected 5.573526, got %s", resp.Data.PutPrice)
	}
}

func TestQuoteEndpointRejectsInvalidInput(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing volatility", gin.H{"underlying_price": 100, "strike_price": 100, "time_to_maturity": 1}},
		{"zero volatility", gin.H{"underlying_price": 100, "strike_price": 100, "time_to_maturity": 1, "volatility": 0}},
		{"negative volatility", gin.H{"underlying_price": 100, "strike_price": 100, "time_to_maturity": 1, "volatility": -0.2}},
		{"negative maturity", gin.H{"underlying_price": 100, "strike_price": 100, "time_to_maturity": -1, "volatility": 0.2}},
		{"rate out of range", gin.H{"underlying_price": 100, "strike_price": 100, "time_to_maturity": 1, "volatility": 0.2, "risk_free_rate": 0.9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/v1/pricing/quote", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// T=0 是合法的到期查询
func TestQuoteEndpointAtExpiry(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/pricing/quote", gin.H{
		"underlying_price": 110,
		"strike_price":     100,
		"time_to_maturity": 0,
		"volatility":       0.20,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSurfaceEndpoint(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/pricing/surface", gin.H{
		"underlying_price": 100,
		"strike_price":     100,
		"time_to_maturity": 1,
		"risk_free_rate":   0.05,
		"volatility":       0.20,
		"rows":             10,
		"cols":             12,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Prices []float64   `json:"prices"`
			Vols   []float64   `json:"vols"`
			Call   [][]float64 `json:"call"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Data.Vols) != 10 || len(resp.Data.Prices) != 12 {
		t.Errorf("expected 10x12 grid, got %dx%d", len(resp.Data.Vols), len(resp.Data.Prices))
	}
	if len(resp.Data.Call) != 10 || len(resp.Data.Call[0]) != 12 {
		t.Errorf("call matrix shape mismatch")
	}
}

func TestSurfaceEndpointRejectsOversizedGrid(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/pricing/surface", gin.H{
		"underlying_price": 100,
		"strike_price":     100,
		"time_to_maturity": 1,
		"volatility":       0.20,
		"rows":             1000,
		"cols":             1000,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPayoffEndpoint(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/pricing/payoff", gin.H{
		"underlying_price": 100,
		"strike_price":     100,
		"purchase_call":    10,
		"purchase_put":     5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Prices []float64 `json:"prices"`
			Call   []float64 `json:"call"`
			PnL    bool      `json:"pnl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Data.PnL {
		t.Error("expected PnL flag with purchase prices supplied")
	}
	if got := resp.Data.Call[len(resp.Data.Call)-1]; got != 40 {
		t.Errorf("deep ITM call P&L: expected 40, got %v", got)
	}
}
