package handler

import (
	"net/http"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
)

type PendenciasHandler struct{ svc service.PendenciaService }

func NewPendenciasHandler(svc service.PendenciaService) *PendenciasHandler {
	return &PendenciasHandler{svc: svc}
}

func (h *PendenciasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), atorDe(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PendenciasHandler) Criar(c *gin.Context) {
	var req dto.CriarPendenciaRequest
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

func (h *PendenciasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarPendenciaRequest
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

// Resolver godoc
// @Summary Marca a pendencia como resolvida (irreversivel)
// @Tags pendencias
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da pendencia"
// @Success 200 {object} model.Pendencia
// @Failure 409 {object} apierror.APIError
// @Router /v1/pendencias/{id}/resolver [post]
func (h *PendenciasHandler) Resolver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resolver(c.Request.Context(), atorDe(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PendenciasHandler) Excluir(c *gin.Context) {
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
