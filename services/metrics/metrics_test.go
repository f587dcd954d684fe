package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	route := gin.New()
	route.Use(Middleware())
	route.GET("/api/tags/:id/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.CollectAndCount(HTTPRequestDuration)

	w := httptest.NewRecorder()
	route.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/7/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("Expected 418, got %d", w.Code)
	}

	if after := testutil.CollectAndCount(HTTPRequestDuration); after != before+1 {
		t.Errorf("Expected one new series, got %d -> %d", before, after)
	}
}

func TestShoppingListDownloadsCounter(t *testing.T) {
	before := testutil.ToFloat64(ShoppingListDownloads.WithLabelValues("csv"))
	ShoppingListDownloads.WithLabelValues("csv").Inc()
	if got := testutil.ToFloat64(ShoppingListDownloads.WithLabelValues("csv")); got != before+1 {
		t.Errorf("Expected %v, got %v", before+1, got)
	}
}
