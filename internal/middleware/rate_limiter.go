package middleware

import (
	"net/http"
	"sync"
	"time"

	"movibanca/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipLimiter cuenta peticiones por IP sobre una ventana fija. Cada instancia
// mantiene su propio mapa y lo purga sola, así el limitador de login y el
// general no comparten estado.
type ipLimiter struct {
	mu       sync.Mutex
	ventanas map[string]*ventanaIP
	limite   int
	duracion time.Duration
}

type ventanaIP struct {
	peticiones int
	cierre     time.Time
}

func newIPLimiter(limite int, duracion time.Duration) *ipLimiter {
	l := &ipLimiter{
		ventanas: make(map[string]*ventanaIP),
		limite:   limite,
		duracion: duracion,
	}
	go l.purgar()
	return l
}

// permitir registra una petición de la IP y devuelve si entra en cupo,
// junto con el instante en que se reabre la ventana.
func (l *ipLimiter) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ahora := time.Now()
	v, ok := l.ventanas[ip]
	if !ok || ahora.After(v.cierre) {
		v = &ventanaIP{cierre: ahora.Add(l.duracion)}
		l.ventanas[ip] = v
	}
	v.peticiones++
	return v.peticiones <= l.limite, v.cierre
}

func (l *ipLimiter) purgar() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ahora := time.Now()
		l.mu.Lock()
		caducadas := 0
		for ip, v := range l.ventanas {
			if ahora.After(v.cierre) {
				delete(l.ventanas, ip)
				caducadas++
			}
		}
		restantes := len(l.ventanas)
		l.mu.Unlock()
		if caducadas > 0 {
			log.Debug().Int("caducadas", caducadas).Int("restantes", restantes).
				Msg("rate limiter: ventanas purgadas")
		}
	}
}

// LoginRateLimiter frena la fuerza bruta sobre /auth/login: 10 intentos por
// minuto y por IP, bastante por encima de lo que teclea un humano.
func LoginRateLimiter() gin.HandlerFunc {
	limiter := newIPLimiter(10, time.Minute)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, cierre := limiter.permitir(ip)
		if !ok {
			log.Warn().Str("ip", ip).Msg("login: demasiados intentos")
			c.Header("Retry-After", cierre.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("Demasiados intentos de acceso. Intente de nuevo en un minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter limita el tráfico global de la API por IP. El cupo se pasa por
// configuración porque un terminal de back-office lista movimientos mucho más
// deprisa que la app de un cliente.
func RateLimiter(limite int, ventana time.Duration) gin.HandlerFunc {
	limiter := newIPLimiter(limite, ventana)
	return func(c *gin.Context) {
		ok, cierre := limiter.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", cierre.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("Demasiadas solicitudes. Intente de nuevo en unos instantes."))
			return
		}
		c.Next()
	}
}
