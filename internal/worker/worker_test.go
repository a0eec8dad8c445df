package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/infra"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

// ── stubs ────────────────────────────────────────────────────────────────────

type stubDemandaRepo struct {
	demandas map[uuid.UUID]*model.DemandaComercial
}

func (r *stubDemandaRepo) Create(_ context.Context, d *model.DemandaComercial) error {
	r.demandas[d.ID] = d
	return nil
}
func (r *stubDemandaRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.DemandaComercial, error) {
	d, ok := r.demandas[id]
	if !ok || d.EmpresaID != empresaID {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}
func (r *stubDemandaRepo) ListByEmpresa(context.Context, uuid.UUID) ([]model.DemandaComercial, error) {
	return nil, nil
}
func (r *stubDemandaRepo) ListByPeriodo(context.Context, uuid.UUID, datas.Data, datas.Data) ([]model.DemandaComercial, error) {
	return nil, nil
}
func (r *stubDemandaRepo) Update(context.Context, *model.DemandaComercial) error { return nil }
func (r *stubDemandaRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error    { return nil }

type fakeMailer struct {
	err    error
	envios []string
	anexos []infra.Anexo
}

func (m *fakeMailer) Enviar(to, _, _ string, anexos ...infra.Anexo) error {
	if m.err != nil {
		return m.err
	}
	m.envios = append(m.envios, to)
	m.anexos = append(m.anexos, anexos...)
	return nil
}

type handlerFunc func(ctx context.Context, raw json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

// ── dispatcher / pool ────────────────────────────────────────────────────────

func TestDispatcher_EnqueueResumoEmail(t *testing.T) {
	mr, rdb := setupRedis(t)
	d := NewDispatcher(rdb)

	p := ResumoEmailPayload{EmpresaID: uuid.New(), DemandaID: uuid.New(), ToEmail: "a@b.com"}
	require.NoError(t, d.EnqueueResumoEmail(context.Background(), p))

	items, err := mr.List(QueueResumoEmail)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(items[0]), &job))
	assert.Equal(t, JobResumoEmail, job.Type)
	assert.Zero(t, job.Attempts)

	var got ResumoEmailPayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, p, got)
}

func TestProcessJob_FailureGoesToDLQ(t *testing.T) {
	_, rdb := setupRedis(t)
	ctx := context.Background()

	handlers := map[string]Handler{
		JobResumoEmail: handlerFunc(func(context.Context, json.RawMessage) error { return errors.New("smtp down") }),
	}
	raw, _ := json.Marshal(Job{Type: JobResumoEmail, Payload: json.RawMessage(`{}`), Attempts: 2})
	processJob(ctx, rdb, handlers, QueueResumoEmail, string(raw))

	entries, err := ListDLQ(ctx, rdb, QueueResumoEmail, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, "smtp down", entries[0].Reason)
}

func TestProcessJob_SuccessLeavesDLQEmpty(t *testing.T) {
	_, rdb := setupRedis(t)
	ctx := context.Background()
	chamado := false
	handlers := map[string]Handler{
		JobResumoEmail: handlerFunc(func(context.Context, json.RawMessage) error { chamado = true; return nil }),
	}
	raw, _ := json.Marshal(Job{Type: JobResumoEmail, Payload: json.RawMessage(`{}`)})
	processJob(ctx, rdb, handlers, QueueResumoEmail, string(raw))

	assert.True(t, chamado)
	n, err := DLQLength(ctx, rdb, QueueResumoEmail)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRequeue_RespectsMaxAttempts(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()

	SendToDLQ(ctx, rdb, QueueResumoEmail, JobResumoEmail, json.RawMessage(`{"n":1}`), "x", 1)
	SendToDLQ(ctx, rdb, QueueResumoEmail, JobResumoEmail, json.RawMessage(`{"n":2}`), "x", 5)

	n, err := Requeue(ctx, rdb, QueueResumoEmail, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	fila, _ := mr.List(QueueResumoEmail)
	require.Len(t, fila, 1)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(fila[0]), &job))
	assert.Equal(t, 1, job.Attempts)

	parked, _ := mr.List(DLQExhaustedPrefix + QueueResumoEmail)
	assert.Len(t, parked, 1)

	restante, err := DLQLength(ctx, rdb, QueueResumoEmail)
	require.NoError(t, err)
	assert.Zero(t, restante)
}

func TestProcessRetries_SkipsWhenBreakerOpen(t *testing.T) {
	_, rdb := setupRedis(t)
	ctx := context.Background()
	SendToDLQ(ctx, rdb, QueueResumoEmail, JobResumoEmail, json.RawMessage(`{}`), "x", 1)

	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})
	_ = cb.Execute(func() error { return errors.New("boom") })
	require.Equal(t, infra.CBOpen, cb.State())

	processRetries(ctx, RetryCronConfig{RDB: rdb, CB: cb, MaxAttempts: 5})
	n, _ := DLQLength(ctx, rdb, QueueResumoEmail)
	assert.Equal(t, int64(1), n)
}

// ── resumo e-mail worker ─────────────────────────────────────────────────────

func novaDemanda(itens string) *model.DemandaComercial {
	return &model.DemandaComercial{
		ID:        uuid.New(),
		EmpresaID: uuid.New(),
		Titulo:    "Obra Centro",
		Cliente:   "Alfa",
		Prazo:     "2024-01-20",
		Itens:     itens,
		Status:    model.DemandaConcluida,
	}
}

func payloadPara(d *model.DemandaComercial) json.RawMessage {
	raw, _ := json.Marshal(ResumoEmailPayload{EmpresaID: d.EmpresaID, DemandaID: d.ID, ToEmail: "obra@cliente.com"})
	return raw
}

func TestResumoEmailWorker_SendsPDF(t *testing.T) {
	d := novaDemanda("[x] A\n[x] B")
	repo := &stubDemandaRepo{demandas: map[uuid.UUID]*model.DemandaComercial{d.ID: d}}
	mailer := &fakeMailer{}
	w := NewResumoEmailWorker(repo, mailer, infra.NewCircuitBreaker(infra.DefaultCBConfig()), t.TempDir())

	require.NoError(t, w.Process(context.Background(), payloadPara(d)))
	assert.Equal(t, []string{"obra@cliente.com"}, mailer.envios)
	require.Len(t, mailer.anexos, 1)
	assert.Equal(t, "application/pdf", mailer.anexos[0].ContentType)
	assert.Equal(t, "%PDF", string(mailer.anexos[0].Conteudo[:4]))
}

func TestResumoEmailWorker_IncompleteIsDropped(t *testing.T) {
	d := novaDemanda("[x] A\nB")
	repo := &stubDemandaRepo{demandas: map[uuid.UUID]*model.DemandaComercial{d.ID: d}}
	mailer := &fakeMailer{}
	w := NewResumoEmailWorker(repo, mailer, infra.NewCircuitBreaker(infra.DefaultCBConfig()), "")

	require.NoError(t, w.Process(context.Background(), payloadPara(d)))
	assert.Empty(t, mailer.envios)
}

func TestResumoEmailWorker_MailerFailureReturnsError(t *testing.T) {
	d := novaDemanda("[x] A")
	repo := &stubDemandaRepo{demandas: map[uuid.UUID]*model.DemandaComercial{d.ID: d}}
	mailer := &fakeMailer{err: errors.New("connection refused")}
	w := NewResumoEmailWorker(repo, mailer, infra.NewCircuitBreaker(infra.DefaultCBConfig()), "")
	w.tentativas = 1

	assert.Error(t, w.Process(context.Background(), payloadPara(d)))
}

func TestWithRetry_StopsOnOpenCircuit(t *testing.T) {
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = time.Second })

	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		return infra.ErrCircuitOpen
	})
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.Equal(t, 1, calls)

	calls = 0
	err = withRetry(context.Background(), 3, func(attempt int) error {
		calls++
		if attempt < 2 {
			return errors.New("temporary")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}
