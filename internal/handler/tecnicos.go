package handler

import (
	"net/http"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
)

type TecnicosHandler struct{ svc service.TecnicoService }

func NewTecnicosHandler(svc service.TecnicoService) *TecnicosHandler {
	return &TecnicosHandler{svc: svc}
}

func (h *TecnicosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), atorDe(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TecnicosHandler) Criar(c *gin.Context) {
	var req dto.CriarTecnicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), atorDe(c), req.Nome)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TecnicosHandler) Excluir(c *gin.Context) {
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
