package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/apierror"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/middleware"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func init() {
	// Report fields by their JSON name so clients can map errors to inputs.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		nome := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if nome == "-" || nome == "" {
			return f.Name
		}
		return nome
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// atorDe builds the service caller identity from the validated JWT claims.
func atorDe(c *gin.Context) service.Ator {
	claims := middleware.GetClaims(c)
	uid, _ := uuid.Parse(claims.UserID)
	eid, _ := uuid.Parse(claims.EmpresaID)
	return service.Ator{UsuarioID: uid, EmpresaID: eid, Papel: claims.Papel()}
}

// paramID parses the :id path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// responderErro maps service errors onto HTTP statuses. Unknown errors are
// attached to the context so ErrorHandler logs them and answers 500.
func responderErro(c *gin.Context, err error) {
	var ve *service.ErroValidacao
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(ve.Campos))
	case errors.Is(err, service.ErrNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSemPermissao),
		errors.Is(err, service.ErrBloqueado),
		errors.Is(err, permissao.ErrCampoImutavel):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflito),
		errors.Is(err, service.ErrChecklistIncompleto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrEntradaInvalida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredenciais),
		errors.Is(err, service.ErrEmpresaDiferente):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUsuarioPendente),
		errors.Is(err, service.ErrUsuarioBloqueado):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
