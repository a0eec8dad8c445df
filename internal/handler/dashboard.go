package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc service.DashboardService
	loc *time.Location
}

func NewDashboardHandler(svc service.DashboardService, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{svc: svc, loc: loc}
}

// referencia reads ?referencia=, answering 422 when it is malformed.
func referencia(c *gin.Context) (datas.Data, bool) {
	ref, err := datas.Parse(c.Query("referencia"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.Campo("referencia", "data invalida"))
		return "", false
	}
	return ref, true
}

// Painel godoc
// @Summary Indicadores do painel
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param referencia query string false "Data de referencia (hoje por padrao)"
// @Success 200 {object} estatisticas.Painel
// @Router /v1/dashboard [get]
func (h *DashboardHandler) Painel(c *gin.Context) {
	ref, ok := referencia(c)
	if !ok {
		return
	}
	resp, err := h.svc.Painel(c.Request.Context(), atorDe(c), ref)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) Analise(c *gin.Context) {
	ref, ok := referencia(c)
	if !ok {
		return
	}
	resp, err := h.svc.Analise(c.Request.Context(), atorDe(c), ref)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) LimiteCritico(c *gin.Context) {
	resp, err := h.svc.LimiteCritico(c.Request.Context(), atorDe(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) DefinirLimiteCritico(c *gin.Context) {
	var req dto.LimiteCriticoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DefinirLimiteCritico(c.Request.Context(), atorDe(c), *req.Dias)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Calendario godoc
// @Summary Prazos de demandas e previsoes de pendencias do mes
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param ano query int false "Ano (atual por padrao)"
// @Param mes query int false "Mes 1-12 (atual por padrao)"
// @Success 200 {array} estatisticas.Evento
// @Router /v1/calendario [get]
func (h *DashboardHandler) Calendario(c *gin.Context) {
	agora := time.Now().In(h.loc)
	ano, errAno := strconv.Atoi(c.DefaultQuery("ano", strconv.Itoa(agora.Year())))
	mes, errMes := strconv.Atoi(c.DefaultQuery("mes", strconv.Itoa(int(agora.Month()))))
	if errAno != nil || errMes != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ano e mes devem ser numericos"))
		return
	}
	resp, err := h.svc.Calendario(c.Request.Context(), atorDe(c), ano, mes)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
