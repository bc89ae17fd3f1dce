package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func servidorConLimite(limite int, ventana time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(limite, ventana))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func pedir(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_CortaAlSuperarElCupo(t *testing.T) {
	r := servidorConLimite(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, pedir(r, "10.0.0.1").Code)
	}
	w := pedir(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "detail")
}

func TestRateLimiter_VentanasPorIPIndependientes(t *testing.T) {
	r := servidorConLimite(1, time.Minute)

	assert.Equal(t, http.StatusOK, pedir(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, pedir(r, "10.0.0.1").Code)
	// Otra IP sigue dentro de cupo.
	assert.Equal(t, http.StatusOK, pedir(r, "10.0.0.2").Code)
}

func TestRateLimiter_LaVentanaSeReabre(t *testing.T) {
	r := servidorConLimite(1, 20*time.Millisecond)

	assert.Equal(t, http.StatusOK, pedir(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, pedir(r, "10.0.0.1").Code)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, http.StatusOK, pedir(r, "10.0.0.1").Code)
}

func TestLoginRateLimiter_FrenaLaFuerzaBruta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoginRateLimiter())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	ultimo := 0
	for i := 0; i < 11; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		r.ServeHTTP(w, req)
		ultimo = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, ultimo)
}

func TestErrorHandler_RespuestaNeutra(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		c.Error(errors.New("pq: connection refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error interno del servidor")
	// El detalle del error interno no llega al cliente.
	assert.NotContains(t, w.Body.String(), "connection refused")
}
