package middleware

import (
	"net/http"
	"sync"
	"time"

	"desposte/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana tracks request counts per IP within a sliding window.
type ventana struct {
	count int
	fin   time.Time
	mu    sync.Mutex
}

// limitador is a per-IP sliding-window rate limiter. Each instance keeps its
// own map so the login limiter and the general API limiter never share
// counters.
type limitador struct {
	nombre  string
	limite  int
	periodo time.Duration
	mensaje string

	mu       sync.Mutex
	entradas map[string]*ventana
}

func nuevoLimitador(nombre string, limite int, periodo time.Duration, mensaje string) *limitador {
	l := &limitador{
		nombre:   nombre,
		limite:   limite,
		periodo:  periodo,
		mensaje:  mensaje,
		entradas: make(map[string]*ventana),
	}
	go l.purgar()
	return l
}

func (l *limitador) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		entry, exists := l.entradas[ip]
		if !exists {
			entry = &ventana{}
			l.entradas[ip] = entry
		}
		l.mu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.fin) {
			entry.count = 0
			entry.fin = now.Add(l.periodo)
		}

		entry.count++
		if entry.count > l.limite {
			c.Header("Retry-After", entry.fin.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// purgar removes expired entries so IPs that never return do not accumulate.
func (l *limitador) purgar() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		l.mu.Lock()
		purged := 0
		for ip, entry := range l.entradas {
			entry.mu.Lock()
			if now.After(entry.fin) {
				delete(l.entradas, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entradas)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Str("limiter", l.nombre).
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := nuevoLimitador("login", 20, time.Minute,
		"Demasiados intentos de login. Intente en 1 minuto.")
	return l.handler()
}

// RateLimiter returns a general-purpose sliding-window rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := nuevoLimitador("api", limit, window,
		"Demasiadas solicitudes. Intente nuevamente en un momento.")
	return l.handler()
}
