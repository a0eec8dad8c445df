// Package permissao decides what a role may do with a record in a given
// state. Every mutation path in the service layer consults it.
//
// Deliveries: Administrador and Editor edit. A delivery whose admin status is
// not Aberto is locked; only Administrador edits a locked delivery, and only
// Administrador changes the admin status or deletes. NumeroNF and DataEmissao
// are writable on creation only, for every role including Administrador.
//
// Pendencies: Administrador and Editor edit, resolve, and delete. A resolved
// pendency is read-only but may still be deleted.
//
// Commercial demands: Comercial may create and edit demands and toggle their
// items, like the managing roles, but only Administrador, Gerente and Editor
// complete or delete. A completed demand is locked.
package permissao

import (
	"errors"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
)

var (
	ErrSemPermissao  = errors.New("permissao insuficiente")
	ErrBloqueado     = errors.New("registro bloqueado para edicao")
	ErrCampoImutavel = errors.New("campo nao pode ser alterado apos o cadastro")
)

// Conjunto is the capability set for one (role, record state) pair.
type Conjunto struct {
	Ler               bool `json:"ler"`
	Criar             bool `json:"criar"`
	EditarCampos      bool `json:"editar_campos"`
	EditarBase        bool `json:"editar_base"`
	EditarStatusAdmin bool `json:"editar_status_admin"`
	Excluir           bool `json:"excluir"`
	Resolver          bool `json:"resolver"`
	Concluir          bool `json:"concluir"`
	AlternarItens     bool `json:"alternar_itens"`
	EnviarResumo      bool `json:"enviar_resumo"`
}

// Bloqueado reports whether a delivery with this admin status is locked.
func Bloqueado(s model.StatusAdmin) bool { return s != "" && s != model.AdminAberto }

// RegistroEntrega is the state of a delivery relevant to gating. A record
// that was never persisted is never locked.
type RegistroEntrega struct {
	Persistido  bool
	StatusAdmin model.StatusAdmin
}

func ParaEntrega(papel model.Papel, r RegistroEntrega) Conjunto {
	editor := papel == model.PapelAdmin || papel == model.PapelEditor
	bloqueado := r.Persistido && Bloqueado(r.StatusAdmin)
	return Conjunto{
		Ler:               true,
		Criar:             editor,
		EditarCampos:      editor && (!bloqueado || papel == model.PapelAdmin),
		EditarBase:        editor && !r.Persistido,
		EditarStatusAdmin: papel == model.PapelAdmin,
		Excluir:           papel == model.PapelAdmin && r.Persistido,
	}
}

func ParaPendencia(papel model.Papel, persistido, resolvida bool) Conjunto {
	editor := papel == model.PapelAdmin || papel == model.PapelEditor
	return Conjunto{
		Ler:          true,
		Criar:        editor,
		EditarCampos: editor && !resolvida,
		EditarBase:   editor && !resolvida,
		Resolver:     editor && persistido && !resolvida,
		Excluir:      editor && persistido,
	}
}

func ParaDemanda(papel model.Papel, persistido, concluida bool) Conjunto {
	gestor := papel == model.PapelAdmin || papel == model.PapelGerente || papel == model.PapelEditor
	autor := gestor || papel == model.PapelComercial
	return Conjunto{
		Ler:           true,
		Criar:         autor,
		EditarCampos:  autor && !concluida,
		EditarBase:    autor && !concluida,
		AlternarItens: autor && !concluida,
		Concluir:      gestor && persistido && !concluida,
		EnviarResumo:  autor && persistido,
		Excluir:       gestor && persistido,
	}
}

// ParaAdministracao covers user approval and the technician registry.
func ParaAdministracao(papel model.Papel) Conjunto {
	admin := papel == model.PapelAdmin
	return Conjunto{
		Ler:          true,
		Criar:        admin,
		EditarCampos: admin,
		Excluir:      admin,
	}
}

// PodeEntrar reports whether a user in status s may sign in.
func PodeEntrar(s model.StatusUsuario) bool { return s == model.UsuarioAtivo }

// VerificarAlteracaoEntrega validates turning antes into depois on behalf of
// papel. antes is nil for a creation.
func VerificarAlteracaoEntrega(papel model.Papel, antes *model.Entrega, depois *model.Entrega) error {
	if antes == nil {
		c := ParaEntrega(papel, RegistroEntrega{})
		if !c.Criar {
			return ErrSemPermissao
		}
		if depois.StatusAdmin != "" && depois.StatusAdmin != model.AdminAberto && !c.EditarStatusAdmin {
			return ErrSemPermissao
		}
		return nil
	}

	c := ParaEntrega(papel, RegistroEntrega{Persistido: true, StatusAdmin: antes.StatusAdmin})
	if !c.Criar {
		return ErrSemPermissao
	}
	if !c.EditarCampos {
		return ErrBloqueado
	}
	if depois.NumeroNF != antes.NumeroNF || depois.DataEmissao != antes.DataEmissao {
		return ErrCampoImutavel
	}
	if depois.StatusAdmin != antes.StatusAdmin && !c.EditarStatusAdmin {
		return ErrSemPermissao
	}
	return nil
}
