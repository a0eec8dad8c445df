package handler

import (
	"net/http"
	"strconv"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/filtro"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EntregasHandler struct{ svc service.EntregaService }

func NewEntregasHandler(svc service.EntregaService) *EntregasHandler {
	return &EntregasHandler{svc: svc}
}

// Listar godoc
// @Summary Lista entregas filtradas e paginadas (50 por pagina)
// @Tags entregas
// @Produce json
// @Security BearerAuth
// @Param numero_nf query string false "Trecho do numero da NF"
// @Param status query string false "Status da entrega"
// @Param status_admin query string false "Status administrativo"
// @Param data_inicio query string false "Emissao a partir de"
// @Param data_fim query string false "Emissao ate"
// @Param pagina query int false "Pagina (1..)"
// @Success 200 {object} filtro.Pagina[model.Entrega]
// @Router /v1/entregas [get]
func (h *EntregasHandler) Listar(c *gin.Context) {
	f := filtro.Filtro{
		NumeroNF:    c.Query("numero_nf"),
		Status:      model.StatusEntrega(c.Query("status")),
		StatusAdmin: model.StatusAdmin(c.Query("status_admin")),
	}
	campos := map[string]string{}
	var err error
	if f.DataInicio, err = datas.Parse(c.Query("data_inicio")); err != nil {
		campos["data_inicio"] = "data invalida"
	}
	if f.DataFim, err = datas.Parse(c.Query("data_fim")); err != nil {
		campos["data_fim"] = "data invalida"
	}
	pagina, err := strconv.Atoi(c.DefaultQuery("pagina", "1"))
	if err != nil {
		campos["pagina"] = "pagina invalida"
	}
	if len(campos) > 0 {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(campos))
		return
	}

	resp, err := h.svc.Listar(c.Request.Context(), atorDe(c), f, pagina)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EntregasHandler) Obter(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), atorDe(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Criar godoc
// @Summary Cadastra uma entrega
// @Tags entregas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarEntregaRequest true "Dados da entrega"
// @Success 201 {object} model.Entrega
// @Failure 403 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/entregas [post]
func (h *EntregasHandler) Criar(c *gin.Context) {
	var req dto.CriarEntregaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), atorDe(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EntregasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarEntregaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), atorDe(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EntregasHandler) Excluir(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), atorDe(c), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AtualizarStatusLote godoc
// @Summary Aplica um status a varias entregas
// @Description Cada registro e validado e gravado individualmente; a resposta traz o resultado de cada um.
// @Tags entregas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.LoteStatusRequest true "IDs e novo status"
// @Success 200 {object} dto.LoteStatusResponse
// @Router /v1/entregas/lote/status [post]
func (h *EntregasHandler) AtualizarStatusLote(c *gin.Context) {
	var req dto.LoteStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ids := make([]uuid.UUID, len(req.IDs))
	for i, s := range req.IDs {
		ids[i] = uuid.MustParse(s) // validated by the dive,uuid tag
	}
	resp, err := h.svc.AtualizarStatusLote(c.Request.Context(), atorDe(c), ids, model.StatusEntrega(req.Status))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
