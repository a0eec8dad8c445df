package handler

import (
	"net/http"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
)

// maxPlanilha caps uploaded workbooks.
const maxPlanilha = 10 << 20

type ImportacaoHandler struct{ svc service.ImportacaoService }

func NewImportacaoHandler(svc service.ImportacaoService) *ImportacaoHandler {
	return &ImportacaoHandler{svc: svc}
}

// Planilha godoc
// @Summary Importa entregas de uma planilha xlsx
// @Tags importacao
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param arquivo formData file true "Planilha .xlsx"
// @Success 200 {object} dto.ImportacaoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/importacao/planilha [post]
func (h *ImportacaoHandler) Planilha(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPlanilha)
	fh, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arquivo obrigatorio no campo 'arquivo'"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("nao foi possivel ler o arquivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.ImportarPlanilha(c.Request.Context(), atorDe(c), f)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportacaoHandler) Texto(c *gin.Context) {
	var req dto.ImportarTextoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ImportarTexto(c.Request.Context(), atorDe(c), req.Texto)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
