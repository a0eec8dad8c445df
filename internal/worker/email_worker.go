package worker

// email_worker.go
// Processes completion summary jobs from QueueResumoEmail: renders the PDF
// and e-mails it through SMTP behind the circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/checklist"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/infra"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResumoEmailPayload is the job payload sent to QueueResumoEmail.
type ResumoEmailPayload struct {
	EmpresaID uuid.UUID `json:"empresa_id"`
	DemandaID uuid.UUID `json:"demanda_id"`
	ToEmail   string    `json:"to_email"`
}

// Enviador sends one e-mail. *infra.Mailer satisfies it.
type Enviador interface {
	Enviar(to, subject, body string, anexos ...infra.Anexo) error
}

// ResumoEmailWorker processes jobs from QueueResumoEmail.
type ResumoEmailWorker struct {
	demandas    repository.DemandaRepository
	mailer      Enviador
	cb          *infra.CircuitBreaker
	storagePath string
	tentativas  int
}

// NewResumoEmailWorker creates a worker; storagePath may be empty to skip
// keeping a copy of each rendered PDF.
func NewResumoEmailWorker(demandas repository.DemandaRepository, mailer Enviador, cb *infra.CircuitBreaker, storagePath string) *ResumoEmailWorker {
	return &ResumoEmailWorker{demandas: demandas, mailer: mailer, cb: cb, storagePath: storagePath, tentativas: 3}
}

// Process renders and sends the summary. Jobs for demands that vanished or
// are no longer complete are dropped without error.
func (w *ResumoEmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ResumoEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("resumo_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("resumo_worker: empty to_email, skipping")
		return nil
	}

	d, err := w.demandas.FindByID(ctx, payload.EmpresaID, payload.DemandaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Str("demanda_id", payload.DemandaID.String()).Msg("resumo_worker: demand not found, dropping job")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load demand: %w", err)
	}
	if !checklist.Completo(d.Itens) {
		log.Warn().Str("demanda_id", d.ID.String()).Msg("resumo_worker: checklist incomplete, dropping job")
		return nil
	}

	pdf, err := infra.GerarResumoPDF(infra.NovoResumo(d))
	if err != nil {
		return err
	}
	nome := fmt.Sprintf("resumo_%s.pdf", d.ID)
	if w.storagePath != "" {
		if path, err := infra.SalvarArquivo(w.storagePath, nome, pdf); err != nil {
			log.Warn().Err(err).Msg("resumo_worker: could not keep PDF copy")
		} else {
			log.Debug().Str("path", path).Msg("resumo_worker: PDF stored")
		}
	}

	subject := "Materiais disponíveis: " + d.Titulo
	body := fmt.Sprintf("Olá,\n\nOs materiais da obra %s (%s) estão separados e disponíveis para retirada.\n\nSegue o resumo em anexo.\n", d.Projeto, d.Cliente)
	anexo := infra.Anexo{Nome: nome, ContentType: "application/pdf", Conteudo: pdf}

	err = withRetry(ctx, w.tentativas, func(attempt int) error {
		return w.cb.Execute(func() error {
			if err := w.mailer.Enviar(payload.ToEmail, subject, body, anexo); err != nil {
				log.Warn().
					Err(err).
					Int("attempt", attempt+1).
					Str("demanda_id", d.ID.String()).
					Msg("resumo_worker: send attempt failed")
				return err
			}
			return nil
		})
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("resumo_worker: failed after all retries")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("demanda_id", d.ID.String()).Msg("resumo_worker: summary sent")
	return nil
}

// backoffBase is the first retry delay; tests shorten it.
var backoffBase = time.Second

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = base, 3 = 2×base.
// An open circuit stops retrying at once.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * backoffBase
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			if errors.Is(err, infra.ErrCircuitOpen) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}
