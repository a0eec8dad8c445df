package cliente

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/filtro"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func escreverJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_StoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana", req.Username)
		escreverJSON(w, http.StatusOK, dto.LoginResponse{AccessToken: "tok-123"})
	})
	mux.HandleFunc("GET /v1/dashboard/limite-critico", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		escreverJSON(w, http.StatusOK, dto.LimiteCriticoResponse{Dias: 7})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "segredo123"})
	require.NoError(t, err)

	dias, err := c.LimiteCritico(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, dias)
}

func TestEntregas_WalksAllPages(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamadas.Add(1)
		pagina := r.URL.Query().Get("pagina")
		item := model.Entrega{ID: uuid.New(), NumeroNF: "NF-" + pagina}
		escreverJSON(w, http.StatusOK, filtro.Pagina[model.Entrega]{
			Itens: []model.Entrega{item}, TotalPaginas: 3, Total: 3,
		})
	}))
	defer srv.Close()

	todas, err := New(srv.URL).Entregas(context.Background())
	require.NoError(t, err)
	assert.Len(t, todas, 3)
	assert.Equal(t, "NF-3", todas[2].NumeroNF)
	assert.EqualValues(t, 3, chamadas.Load())
}

func TestListarEntregas_SendsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "12", q.Get("numero_nf"))
		assert.Equal(t, "Pendente", q.Get("status"))
		assert.Equal(t, "2", q.Get("pagina"))
		assert.False(t, q.Has("data_fim"))
		escreverJSON(w, http.StatusOK, filtro.Pagina[model.Entrega]{Pagina: 2})
	}))
	defer srv.Close()

	p, err := New(srv.URL).ListarEntregas(context.Background(), filtro.Filtro{NumeroNF: "12", Status: model.EntregaPendente}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Pagina)
}

func TestErrors_CarryEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			escreverJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": "Erro de validacao", "fields": map[string]string{"retirante": "obrigatorio"},
			})
			return
		}
		escreverJSON(w, http.StatusForbidden, map[string]string{"detail": "registro bloqueado para edicao"})
	}))
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.AtualizarEntrega(context.Background(), uuid.New(), dto.AtualizarEntregaRequest{})
	var e *ErroAPI
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, e.Status)
	assert.Equal(t, "obrigatorio", e.Campos["retirante"])

	_, err = c.ResolverPendencia(context.Background(), uuid.New())
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusForbidden, e.Status)
	assert.Equal(t, "registro bloqueado para edicao", e.Detalhe)
}

func TestWrites_AreNotRetried(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamadas.Add(1)
		escreverJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Erro interno do servidor"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).AtualizarStatusLote(context.Background(), []uuid.UUID{uuid.New()}, model.EntregaEntregue)
	require.Error(t, err)
	assert.EqualValues(t, 1, chamadas.Load())
}

func TestReads_RetryServerErrors(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chamadas.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		escreverJSON(w, http.StatusOK, []model.Pendencia{{Item: "Cabo"}})
	}))
	defer srv.Close()

	p, err := New(srv.URL).Pendencias(context.Background())
	require.NoError(t, err)
	assert.Len(t, p, 1)
	assert.EqualValues(t, 2, chamadas.Load())
}

func TestImportarPlanilha_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, fh, err := r.FormFile("arquivo")
		require.NoError(t, err)
		defer f.Close()
		conteudo, _ := io.ReadAll(f)
		assert.Equal(t, "notas.xlsx", fh.Filename)
		assert.Equal(t, "PK", string(conteudo))
		escreverJSON(w, http.StatusOK, dto.ImportacaoResponse{TotalLinhas: 1, Criadas: 1})
	}))
	defer srv.Close()

	resp, err := New(srv.URL).ImportarPlanilha(context.Background(), "notas.xlsx", strings.NewReader("PK"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Criadas)
}

func TestRelatorioMensal_FileName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("inicio"))
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, "Fechamento_2024-01-01_ate_2024-01-31.xlsx"))
		_, _ = w.Write([]byte("PK"))
	}))
	defer srv.Close()

	nome, data, err := New(srv.URL).RelatorioMensal(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "Fechamento_2024-01-01_ate_2024-01-31.xlsx", nome)
	assert.Equal(t, []byte("PK"), data)
}
