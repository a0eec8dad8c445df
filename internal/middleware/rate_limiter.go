package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// janela tracks requests per IP within a fixed window.
type janela struct {
	count     int
	windowEnd time.Time
}

// limitador is a per-IP fixed-window counter. Expired windows are purged by a
// background goroutine started on first use.
type limitador struct {
	nome   string
	limite int
	window time.Duration
	agora  func() time.Time

	mu     sync.Mutex
	janela map[string]*janela
	purge  sync.Once
}

func novoLimitador(nome string, limite int, window time.Duration) *limitador {
	return &limitador{
		nome:   nome,
		limite: limite,
		window: window,
		agora:  time.Now,
		janela: make(map[string]*janela),
	}
}

// permitir records one request from ip and reports whether it is within the
// limit, along with the end of the current window.
func (l *limitador) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.agora()
	j, ok := l.janela[ip]
	if !ok || now.After(j.windowEnd) {
		j = &janela{windowEnd: now.Add(l.window)}
		l.janela[ip] = j
	}
	j.count++
	return j.count <= l.limite, j.windowEnd
}

func (l *limitador) purgar() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.agora()
	n := 0
	for ip, j := range l.janela {
		if now.After(j.windowEnd) {
			delete(l.janela, ip)
			n++
		}
	}
	return n
}

const purgeInterval = 5 * time.Minute

func (l *limitador) iniciarPurga() {
	l.purge.Do(func() {
		go func() {
			ticker := time.NewTicker(purgeInterval)
			defer ticker.Stop()
			for range ticker.C {
				if n := l.purgar(); n > 0 {
					log.Debug().Str("limiter", l.nome).Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}()
	})
}

func (l *limitador) handler(mensagem string) gin.HandlerFunc {
	return func(c *gin.Context) {
		l.iniciarPurga()
		ok, fim := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fim.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensagem))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits sign-in and registration attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return novoLimitador("login", 20, time.Minute).
		handler("Muitas tentativas de login. Tente novamente em 1 minuto.")
}

// RateLimiter returns a general-purpose per-IP limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return novoLimitador("api", limit, window).
		handler("Muitas requisicoes. Tente novamente em instantes.")
}
