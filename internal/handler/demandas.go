package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
)

type DemandasHandler struct{ svc service.DemandaService }

func NewDemandasHandler(svc service.DemandaService) *DemandasHandler {
	return &DemandasHandler{svc: svc}
}

func (h *DemandasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), atorDe(c), c.Query("busca"))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agrupadas godoc
// @Summary Quadro de demandas por prioridade
// @Tags demandas
// @Produce json
// @Security BearerAuth
// @Param busca query string false "Busca em titulo, cliente e itens"
// @Success 200 {object} estatisticas.Quadro
// @Router /v1/demandas/agrupadas [get]
func (h *DemandasHandler) Agrupadas(c *gin.Context) {
	resp, err := h.svc.Agrupadas(c.Request.Context(), atorDe(c), c.Query("busca"))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DemandasHandler) Obter(c *gin.Context) {
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

func (h *DemandasHandler) Criar(c *gin.Context) {
	var req dto.CriarDemandaRequest
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

func (h *DemandasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarDemandaRequest
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

// AlternarItem godoc
// @Summary Marca ou desmarca o item de indice informado
// @Tags demandas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da demanda"
// @Param indice path int true "Indice do item (linhas nao vazias, a partir de 0)"
// @Success 200 {object} dto.DemandaResponse
// @Router /v1/demandas/{id}/itens/{indice}/alternar [post]
func (h *DemandasHandler) AlternarItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	indice, err := strconv.Atoi(c.Param("indice"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("indice invalido"))
		return
	}
	resp, err := h.svc.AlternarItem(c.Request.Context(), atorDe(c), id, indice)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DemandasHandler) Concluir(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ConcluirDemandaRequest
	// the body is optional
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Concluir(c.Request.Context(), atorDe(c), id, req.DataConclusao)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DemandasHandler) AlterarStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AlterarStatusDemandaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AlterarStatus(c.Request.Context(), atorDe(c), id, model.StatusDemanda(req.Status))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DemandasHandler) Excluir(c *gin.Context) {
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

// ResumoPNG godoc
// @Summary Imagem de conclusao da separacao
// @Tags demandas
// @Produce png
// @Security BearerAuth
// @Param id path string true "ID da demanda"
// @Success 200 {file} binary
// @Failure 409 {object} apierror.APIError "checklist incompleto"
// @Router /v1/demandas/{id}/resumo.png [get]
func (h *DemandasHandler) ResumoPNG(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	data, err := h.svc.ResumoPNG(c.Request.Context(), atorDe(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="resumo_%s.png"`, id))
	c.Data(http.StatusOK, "image/png", data)
}

func (h *DemandasHandler) ResumoPDF(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	data, err := h.svc.ResumoPDF(c.Request.Context(), atorDe(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="resumo_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)
}

// EnviarResumo godoc
// @Summary Enfileira o envio do resumo em PDF por e-mail
// @Tags demandas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da demanda"
// @Param body body dto.EnviarResumoRequest true "Destinatario"
// @Success 202 {object} dto.EnvioResumoResponse
// @Router /v1/demandas/{id}/resumo/enviar [post]
func (h *DemandasHandler) EnviarResumo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.EnviarResumoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarResumo(c.Request.Context(), atorDe(c), id, req.Email); err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.EnvioResumoResponse{Mensagem: "Envio agendado", Email: req.Email})
}
