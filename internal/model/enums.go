package model

// StatusEntrega is the physical lifecycle of a delivery.
type StatusEntrega string

const (
	EntregaPendente              StatusEntrega = "Pendente"
	EntregaEntregue              StatusEntrega = "Entregue"
	EntregaNaoRetirado           StatusEntrega = "Não Retirado"
	EntregaDevolvidaParcialmente StatusEntrega = "Devolvido Parcialmente"
	EntregaDevolvidaTotalmente   StatusEntrega = "Devolvido Totalmente"
)

var StatusEntregaValidos = []StatusEntrega{
	EntregaPendente, EntregaEntregue, EntregaNaoRetirado,
	EntregaDevolvidaParcialmente, EntregaDevolvidaTotalmente,
}

func (s StatusEntrega) Valido() bool {
	for _, v := range StatusEntregaValidos {
		if s == v {
			return true
		}
	}
	return false
}

// StatusAdmin is the administrative closure state. Anything other than
// AdminAberto locks the record for non-administrators.
type StatusAdmin string

const (
	AdminAberto      StatusAdmin = "Aberto"
	AdminAtendida    StatusAdmin = "Atendida"
	AdminNaoAtendida StatusAdmin = "Não Atendida"
	AdminCancelada   StatusAdmin = "Cancelada"
)

var StatusAdminValidos = []StatusAdmin{AdminAberto, AdminAtendida, AdminNaoAtendida, AdminCancelada}

func (s StatusAdmin) Valido() bool {
	for _, v := range StatusAdminValidos {
		if s == v {
			return true
		}
	}
	return false
}

type Prioridade string

const (
	PrioridadeBaixa   Prioridade = "Baixa"
	PrioridadeMedia   Prioridade = "Média"
	PrioridadeAlta    Prioridade = "Alta"
	PrioridadeUrgente Prioridade = "Urgente"
)

func (p Prioridade) Valido() bool {
	switch p {
	case PrioridadeBaixa, PrioridadeMedia, PrioridadeAlta, PrioridadeUrgente:
		return true
	}
	return false
}

type StatusDemanda string

const (
	DemandaPendente    StatusDemanda = "Pendente"
	DemandaEmAndamento StatusDemanda = "Em Andamento"
	DemandaConcluida   StatusDemanda = "Concluído"
)

func (s StatusDemanda) Valido() bool {
	switch s {
	case DemandaPendente, DemandaEmAndamento, DemandaConcluida:
		return true
	}
	return false
}

// Papel is the role a user plays inside a company.
type Papel string

const (
	PapelAdmin        Papel = "Administrador"
	PapelGerente      Papel = "Gerente"
	PapelEditor       Papel = "Editor"
	PapelVisualizador Papel = "Visualizador"
	PapelComercial    Papel = "Comercial"
)

func (p Papel) Valido() bool {
	switch p {
	case PapelAdmin, PapelGerente, PapelEditor, PapelVisualizador, PapelComercial:
		return true
	}
	return false
}

type StatusUsuario string

const (
	UsuarioPendente  StatusUsuario = "Pendente"
	UsuarioAtivo     StatusUsuario = "Ativo"
	UsuarioBloqueado StatusUsuario = "Bloqueado"
)

func (s StatusUsuario) Valido() bool {
	switch s {
	case UsuarioPendente, UsuarioAtivo, UsuarioBloqueado:
		return true
	}
	return false
}
