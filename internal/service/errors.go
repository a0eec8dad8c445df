package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNaoEncontrado = errors.New("registro nao encontrado")
	ErrConflito      = errors.New("operacao conflita com o estado do registro")
	ErrSemPermissao  = permissao.ErrSemPermissao
	ErrBloqueado     = permissao.ErrBloqueado

	ErrCredenciais      = errors.New("credenciais invalidas")
	ErrUsuarioPendente  = errors.New("cadastro aguardando aprovacao do administrador")
	ErrUsuarioBloqueado = errors.New("usuario bloqueado")
	ErrEmpresaDiferente = errors.New("usuario nao pertence a empresa informada")
)

// Ator is the authenticated caller on whose behalf a service acts.
type Ator struct {
	UsuarioID uuid.UUID
	EmpresaID uuid.UUID
	Papel     model.Papel
}

// ErroValidacao carries field → message pairs for a rejected input.
type ErroValidacao struct {
	Campos map[string]string
}

func (e *ErroValidacao) Error() string {
	campos := make([]string, 0, len(e.Campos))
	for k := range e.Campos {
		campos = append(campos, k)
	}
	sort.Strings(campos)
	return "validacao: " + strings.Join(campos, ", ")
}

// validacao accumulates field errors before a write.
type validacao map[string]string

func (v validacao) add(campo, msg string) { v[campo] = msg }

func (v validacao) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ErroValidacao{Campos: v}
}

// traduzir maps persistence errors onto service sentinels.
func traduzir(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNaoEncontrado
	}
	return err
}
