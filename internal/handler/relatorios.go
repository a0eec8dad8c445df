package handler

import (
	"fmt"
	"net/http"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RelatoriosHandler struct{ svc service.RelatorioService }

func NewRelatoriosHandler(svc service.RelatorioService) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc}
}

// Mensal godoc
// @Summary Fechamento do periodo em xlsx (abas operacional e comercial)
// @Tags relatorios
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param inicio query string true "Data inicial"
// @Param fim query string true "Data final"
// @Success 200 {file} binary
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/relatorios/mensal [get]
func (h *RelatoriosHandler) Mensal(c *gin.Context) {
	inicio, errInicio := datas.Parse(c.Query("inicio"))
	fim, errFim := datas.Parse(c.Query("fim"))
	if errInicio != nil || errFim != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.Campo("periodo", "datas invalidas"))
		return
	}
	nome, data, err := h.svc.Mensal(c.Request.Context(), atorDe(c), inicio, fim)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nome))
	c.Data(http.StatusOK, contentTypeXLSX, data)
}
