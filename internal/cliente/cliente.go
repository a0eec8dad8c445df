// Package cliente is the HTTP client of the warehouse API. It satisfies
// painel.Remote so a CLI session can run against a live server.
package cliente

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/filtro"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/painel"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

var _ painel.Remote = (*Cliente)(nil)

// ErroAPI is a non-2xx answer. Campos is set for validation failures.
type ErroAPI struct {
	Status  int
	Detalhe string
	Campos  map[string]string
}

func (e *ErroAPI) Error() string {
	if len(e.Campos) > 0 {
		return fmt.Sprintf("%d: %s %v", e.Status, e.Detalhe, e.Campos)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Detalhe)
}

type Cliente struct {
	http *resty.Client
}

// New builds a client for baseURL. Reads are retried on network errors and
// 5xx answers; writes are never retried.
func New(baseURL string) *Cliente {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Cliente{http: c}
}

// SetToken sets the bearer token sent with every request.
func (c *Cliente) SetToken(token string) *Cliente {
	c.http.SetAuthToken(token)
	return c
}

func (c *Cliente) req(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&apierror.ValidationError{})
}

// verificar turns transport failures and error envelopes into errors.
func verificar(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	e := &ErroAPI{Status: resp.StatusCode(), Detalhe: http.StatusText(resp.StatusCode())}
	if ve, ok := resp.Error().(*apierror.ValidationError); ok && ve.Detail != "" {
		e.Detalhe = ve.Detail
		e.Campos = ve.Fields
	}
	return e
}

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login signs in and keeps the access token for subsequent calls.
func (c *Cliente) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	resp, err := c.req(ctx).SetBody(req).SetResult(&out).Post("/v1/auth/login")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// ── Entregas ──────────────────────────────────────────────────────────────────

func (c *Cliente) ListarEntregas(ctx context.Context, f filtro.Filtro, pagina int) (*filtro.Pagina[model.Entrega], error) {
	var out filtro.Pagina[model.Entrega]
	r := c.req(ctx).SetResult(&out).SetQueryParam("pagina", strconv.Itoa(pagina))
	for k, v := range map[string]string{
		"numero_nf":    f.NumeroNF,
		"status":       string(f.Status),
		"status_admin": string(f.StatusAdmin),
		"data_inicio":  string(f.DataInicio),
		"data_fim":     string(f.DataFim),
	} {
		if v != "" {
			r.SetQueryParam(k, v)
		}
	}
	resp, err := r.Get("/v1/entregas")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Entregas walks every page of the unfiltered listing.
func (c *Cliente) Entregas(ctx context.Context) ([]model.Entrega, error) {
	var todas []model.Entrega
	for pagina := 1; ; pagina++ {
		p, err := c.ListarEntregas(ctx, filtro.Filtro{}, pagina)
		if err != nil {
			return nil, err
		}
		todas = append(todas, p.Itens...)
		if pagina >= p.TotalPaginas {
			return todas, nil
		}
	}
}

func (c *Cliente) AtualizarEntrega(ctx context.Context, id uuid.UUID, req dto.AtualizarEntregaRequest) (*model.Entrega, error) {
	var out model.Entrega
	resp, err := c.req(ctx).SetBody(req).SetResult(&out).Patch("/v1/entregas/" + id.String())
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Cliente) AtualizarStatusLote(ctx context.Context, ids []uuid.UUID, status model.StatusEntrega) (*dto.LoteStatusResponse, error) {
	body := dto.LoteStatusRequest{Status: string(status), IDs: make([]string, len(ids))}
	for i, id := range ids {
		body.IDs[i] = id.String()
	}
	var out dto.LoteStatusResponse
	resp, err := c.req(ctx).SetBody(body).SetResult(&out).Post("/v1/entregas/lote/status")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Pendencias / Demandas / Dashboard ─────────────────────────────────────────

func (c *Cliente) Pendencias(ctx context.Context) ([]model.Pendencia, error) {
	var out []model.Pendencia
	resp, err := c.req(ctx).SetResult(&out).Get("/v1/pendencias")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cliente) ResolverPendencia(ctx context.Context, id uuid.UUID) (*model.Pendencia, error) {
	var out model.Pendencia
	resp, err := c.req(ctx).SetResult(&out).Post("/v1/pendencias/" + id.String() + "/resolver")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Cliente) Demandas(ctx context.Context) ([]dto.DemandaResponse, error) {
	var out []dto.DemandaResponse
	resp, err := c.req(ctx).SetResult(&out).Get("/v1/demandas")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cliente) AlternarItem(ctx context.Context, id uuid.UUID, indice int) (*dto.DemandaResponse, error) {
	var out dto.DemandaResponse
	resp, err := c.req(ctx).SetResult(&out).
		Post(fmt.Sprintf("/v1/demandas/%s/itens/%d/alternar", id, indice))
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Cliente) LimiteCritico(ctx context.Context) (int, error) {
	var out dto.LimiteCriticoResponse
	resp, err := c.req(ctx).SetResult(&out).Get("/v1/dashboard/limite-critico")
	if err := verificar(resp, err); err != nil {
		return 0, err
	}
	return out.Dias, nil
}

// ── Importacao / Backup / Relatorios ──────────────────────────────────────────

func (c *Cliente) ImportarPlanilha(ctx context.Context, nome string, arquivo io.Reader) (*dto.ImportacaoResponse, error) {
	var out dto.ImportacaoResponse
	resp, err := c.req(ctx).SetFileReader("arquivo", nome, arquivo).SetResult(&out).Post("/v1/importacao/planilha")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Cliente) ImportarTexto(ctx context.Context, texto string) (*dto.ImportacaoResponse, error) {
	var out dto.ImportacaoResponse
	resp, err := c.req(ctx).SetBody(dto.ImportarTextoRequest{Texto: texto}).SetResult(&out).Post("/v1/importacao/texto")
	if err := verificar(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportarBackup returns the server-suggested file name and the JSON document.
func (c *Cliente) ExportarBackup(ctx context.Context) (string, []byte, error) {
	return c.baixar(c.req(ctx), "/v1/backup", "backup.json")
}

// RelatorioMensal downloads the closing workbook for [inicio, fim].
func (c *Cliente) RelatorioMensal(ctx context.Context, inicio, fim string) (string, []byte, error) {
	r := c.req(ctx).SetQueryParams(map[string]string{"inicio": inicio, "fim": fim})
	return c.baixar(r, "/v1/relatorios/mensal", "relatorio.xlsx")
}

func (c *Cliente) baixar(r *resty.Request, path, padrao string) (string, []byte, error) {
	resp, err := r.Get(path)
	if err := verificar(resp, err); err != nil {
		return "", nil, err
	}
	nome := padrao
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		nome = params["filename"]
	}
	return nome, resp.Body(), nil
}
