package service

import (
	"context"
	"strings"
	"sync"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/config"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

// tabela is a tenant-scoped in-memory table. falha, when set, is returned by
// every write.
type tabela[T any] struct {
	mu    sync.Mutex
	rows  []T
	chave func(*T) (empresa, id *uuid.UUID)
	falha func(*T) error
}

func (t *tabela[T]) create(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.falha != nil {
		if err := t.falha(row); err != nil {
			return err
		}
	}
	if _, id := t.chave(row); *id == uuid.Nil {
		*id = uuid.New()
	}
	t.rows = append(t.rows, *row)
	return nil
}

func (t *tabela[T]) find(empresaID, id uuid.UUID) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		e, rid := t.chave(&t.rows[i])
		if *e == empresaID && *rid == id {
			cp := t.rows[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (t *tabela[T]) list(empresaID uuid.UUID, aceita func(*T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0)
	for i := range t.rows {
		if e, _ := t.chave(&t.rows[i]); *e == empresaID && (aceita == nil || aceita(&t.rows[i])) {
			out = append(out, t.rows[i])
		}
	}
	return out
}

func (t *tabela[T]) update(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.falha != nil {
		if err := t.falha(row); err != nil {
			return err
		}
	}
	_, id := t.chave(row)
	for i := range t.rows {
		if _, rid := t.chave(&t.rows[i]); *rid == *id {
			t.rows[i] = *row
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (t *tabela[T]) delete(empresaID, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if e, rid := t.chave(&t.rows[i]); *e == empresaID && *rid == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (t *tabela[T]) replace(empresaID uuid.UUID, rows []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.rows[:0:0]
	for i := range t.rows {
		if e, _ := t.chave(&t.rows[i]); *e != empresaID {
			kept = append(kept, t.rows[i])
		}
	}
	t.rows = append(kept, rows...)
}

func noPeriodo(d, inicio, fim datas.Data) bool {
	return (inicio.Vazia() || d >= inicio) && (fim.Vazia() || d <= fim)
}

type stubEntregaRepo struct{ tabela[model.Entrega] }

func newStubEntregaRepo(rows ...model.Entrega) *stubEntregaRepo {
	r := &stubEntregaRepo{}
	r.chave = func(e *model.Entrega) (*uuid.UUID, *uuid.UUID) { return &e.EmpresaID, &e.ID }
	r.rows = rows
	return r
}

func (r *stubEntregaRepo) Create(_ context.Context, e *model.Entrega) error { return r.create(e) }
func (r *stubEntregaRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.Entrega, error) {
	return r.find(empresaID, id)
}
func (r *stubEntregaRepo) ListByEmpresa(_ context.Context, empresaID uuid.UUID) ([]model.Entrega, error) {
	return r.list(empresaID, nil), nil
}
func (r *stubEntregaRepo) ListByPeriodo(_ context.Context, empresaID uuid.UUID, inicio, fim datas.Data) ([]model.Entrega, error) {
	return r.list(empresaID, func(e *model.Entrega) bool { return noPeriodo(e.DataEmissao, inicio, fim) }), nil
}
func (r *stubEntregaRepo) Update(_ context.Context, e *model.Entrega) error { return r.update(e) }
func (r *stubEntregaRepo) Delete(_ context.Context, empresaID, id uuid.UUID) error {
	return r.delete(empresaID, id)
}
type stubPendenciaRepo struct{ tabela[model.Pendencia] }

func newStubPendenciaRepo(rows ...model.Pendencia) *stubPendenciaRepo {
	r := &stubPendenciaRepo{}
	r.chave = func(p *model.Pendencia) (*uuid.UUID, *uuid.UUID) { return &p.EmpresaID, &p.ID }
	r.rows = rows
	return r
}

func (r *stubPendenciaRepo) Create(_ context.Context, p *model.Pendencia) error { return r.create(p) }
func (r *stubPendenciaRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.Pendencia, error) {
	return r.find(empresaID, id)
}
func (r *stubPendenciaRepo) ListByEmpresa(_ context.Context, empresaID uuid.UUID) ([]model.Pendencia, error) {
	return r.list(empresaID, nil), nil
}
func (r *stubPendenciaRepo) Update(_ context.Context, p *model.Pendencia) error { return r.update(p) }
func (r *stubPendenciaRepo) Delete(_ context.Context, empresaID, id uuid.UUID) error {
	return r.delete(empresaID, id)
}
type stubDemandaRepo struct{ tabela[model.DemandaComercial] }

func newStubDemandaRepo(rows ...model.DemandaComercial) *stubDemandaRepo {
	r := &stubDemandaRepo{}
	r.chave = func(d *model.DemandaComercial) (*uuid.UUID, *uuid.UUID) { return &d.EmpresaID, &d.ID }
	r.rows = rows
	return r
}

func (r *stubDemandaRepo) Create(_ context.Context, d *model.DemandaComercial) error {
	return r.create(d)
}
func (r *stubDemandaRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.DemandaComercial, error) {
	return r.find(empresaID, id)
}
func (r *stubDemandaRepo) ListByEmpresa(_ context.Context, empresaID uuid.UUID) ([]model.DemandaComercial, error) {
	return r.list(empresaID, nil), nil
}
func (r *stubDemandaRepo) ListByPeriodo(_ context.Context, empresaID uuid.UUID, inicio, fim datas.Data) ([]model.DemandaComercial, error) {
	return r.list(empresaID, func(d *model.DemandaComercial) bool { return noPeriodo(d.DataPedido, inicio, fim) }), nil
}
func (r *stubDemandaRepo) Update(_ context.Context, d *model.DemandaComercial) error {
	return r.update(d)
}
func (r *stubDemandaRepo) Delete(_ context.Context, empresaID, id uuid.UUID) error {
	return r.delete(empresaID, id)
}
type stubTecnicoRepo struct{ tabela[model.Tecnico] }

func newStubTecnicoRepo(rows ...model.Tecnico) *stubTecnicoRepo {
	r := &stubTecnicoRepo{}
	r.chave = func(t *model.Tecnico) (*uuid.UUID, *uuid.UUID) { return &t.EmpresaID, &t.ID }
	r.rows = rows
	return r
}

func (r *stubTecnicoRepo) Create(_ context.Context, t *model.Tecnico) error { return r.create(t) }
func (r *stubTecnicoRepo) ListByEmpresa(_ context.Context, empresaID uuid.UUID) ([]model.Tecnico, error) {
	return r.list(empresaID, nil), nil
}
func (r *stubTecnicoRepo) Delete(_ context.Context, empresaID, id uuid.UUID) error {
	return r.delete(empresaID, id)
}
// stubBackupRepo applies a restore to the table stubs all at once, or not at
// all when falha is set.
type stubBackupRepo struct {
	entregas   *stubEntregaRepo
	pendencias *stubPendenciaRepo
	demandas   *stubDemandaRepo
	tecnicos   *stubTecnicoRepo
	falha      error
}

func (r *stubBackupRepo) Restaurar(_ context.Context, empresaID uuid.UUID, rest repository.Restauracao) error {
	if r.falha != nil {
		return r.falha
	}
	if rest.Entregas != nil {
		r.entregas.replace(empresaID, *rest.Entregas)
	}
	if rest.Pendencias != nil {
		r.pendencias.replace(empresaID, *rest.Pendencias)
	}
	if rest.Demandas != nil {
		r.demandas.replace(empresaID, *rest.Demandas)
	}
	if rest.Tecnicos != nil {
		r.tecnicos.replace(empresaID, *rest.Tecnicos)
	}
	return nil
}

type stubUsuarioRepo struct{ tabela[model.Usuario] }

func newStubUsuarioRepo() *stubUsuarioRepo {
	r := &stubUsuarioRepo{}
	r.chave = func(u *model.Usuario) (*uuid.UUID, *uuid.UUID) { return &u.EmpresaID, &u.ID }
	return r
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error { return r.create(u) }

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	return r.achar(func(u *model.Usuario) bool { return u.Username == username })
}

func (r *stubUsuarioRepo) FindByLogin(_ context.Context, login string) (*model.Usuario, error) {
	return r.achar(func(u *model.Usuario) bool {
		return u.Username == login || (u.Email != nil && strings.EqualFold(*u.Email, login))
	})
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	return r.achar(func(u *model.Usuario) bool { return u.ID == id })
}

func (r *stubUsuarioRepo) ListByEmpresa(_ context.Context, empresaID uuid.UUID) ([]model.Usuario, error) {
	return r.list(empresaID, nil), nil
}
func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error { return r.update(u) }
func (r *stubUsuarioRepo) Delete(_ context.Context, empresaID, id uuid.UUID) error {
	return r.delete(empresaID, id)
}

func (r *stubUsuarioRepo) achar(ok func(*model.Usuario) bool) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if ok(&r.rows[i]) {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubEmpresaRepo struct {
	empresas []*model.Empresa
}

func (r *stubEmpresaRepo) Create(_ context.Context, e *model.Empresa) error {
	e.ID = uuid.New()
	r.empresas = append(r.empresas, e)
	return nil
}

func (r *stubEmpresaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empresa, error) {
	for _, e := range r.empresas {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEmpresaRepo) FindByNome(_ context.Context, nome string) (*model.Empresa, error) {
	for _, e := range r.empresas {
		if strings.EqualFold(e.Nome, strings.TrimSpace(nome)) {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubPreferenciaRepo struct {
	limites map[uuid.UUID]int
}

func (r *stubPreferenciaRepo) LimiteCritico(_ context.Context, empresaID uuid.UUID) (int, bool, error) {
	d, ok := r.limites[empresaID]
	return d, ok, nil
}

func (r *stubPreferenciaRepo) SalvarLimiteCritico(_ context.Context, empresaID uuid.UUID, dias int) error {
	if r.limites == nil {
		r.limites = map[uuid.UUID]int{}
	}
	r.limites[empresaID] = dias
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

var (
	empresaA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	empresaB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func atorCom(papel model.Papel) Ator {
	return Ator{UsuarioID: uuid.New(), EmpresaID: empresaA, Papel: papel}
}

func entregaAberta(nf string) model.Entrega {
	return model.Entrega{
		ID:          uuid.New(),
		EmpresaID:   empresaA,
		NumeroNF:    nf,
		DataEmissao: "2024-01-10",
		Status:      model.EntregaPendente,
		StatusAdmin: model.AdminAberto,
	}
}
