package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct{ svc service.BackupService }

func NewBackupHandler(svc service.BackupService) *BackupHandler { return &BackupHandler{svc: svc} }

// Exportar godoc
// @Summary Exporta todos os dados da empresa em JSON
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Backup
// @Router /v1/backup [get]
func (h *BackupHandler) Exportar(c *gin.Context) {
	resp, err := h.svc.Exportar(c.Request.Context(), atorDe(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	nome := fmt.Sprintf("backup_almoxarifado_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nome))
	c.JSON(http.StatusOK, resp)
}

// Importar godoc
// @Summary Restaura as colecoes presentes no backup
// @Tags backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.Backup true "Backup exportado"
// @Success 200 {object} dto.BackupImportResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/backup [post]
func (h *BackupHandler) Importar(c *gin.Context) {
	var req dto.Backup
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arquivo de backup invalido: "+err.Error()))
		return
	}
	resp, err := h.svc.Importar(c.Request.Context(), atorDe(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
