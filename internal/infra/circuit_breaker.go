package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CBState is the breaker position: Closed lets calls through, Open fails
// them fast, HalfOpen lets probes through until enough succeed.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures that open the breaker
	SuccessThreshold int           // half-open successes that close it again
	OpenTimeout      time.Duration // time spent open before probing
}

// DefaultCBConfig returns the defaults used for the SMTP breaker.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      2 * time.Minute,
	}
}

// CircuitBreaker is safe for concurrent use by the worker goroutines.
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	state    CBState
	falhas   int
	sucessos int
	abertoEm time.Time
	agora    func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	return &CircuitBreaker{cfg: cfg, agora: time.Now}
}

// State returns the current position, moving Open to HalfOpen once the
// timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.atualizar()
}

func (cb *CircuitBreaker) atualizar() CBState {
	if cb.state == CBOpen && cb.agora().Sub(cb.abertoEm) >= cb.cfg.OpenTimeout {
		cb.mudar(CBHalfOpen)
	}
	return cb.state
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.falhas++
		if cb.state == CBHalfOpen || cb.falhas >= cb.cfg.FailureThreshold {
			cb.abertoEm = cb.agora()
			cb.mudar(CBOpen)
		}
		return err
	}

	cb.falhas = 0
	if cb.state == CBHalfOpen {
		cb.sucessos++
		if cb.sucessos >= cb.cfg.SuccessThreshold {
			cb.mudar(CBClosed)
		}
	}
	return nil
}

// must hold mu
func (cb *CircuitBreaker) mudar(novo CBState) {
	if cb.state == novo {
		return
	}
	log.Warn().
		Str("breaker", cb.cfg.Name).
		Str("from", cb.state.String()).
		Str("to", novo.String()).
		Msg("circuit breaker state change")
	cb.state = novo
	cb.sucessos = 0
	if novo != CBOpen {
		cb.falhas = 0
	}
}
