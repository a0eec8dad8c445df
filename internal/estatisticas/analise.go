package estatisticas

import (
	"sort"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
)

const (
	diasTendencia    = 30
	tamanhoRanking   = 5
	tamanhoAtrasadas = 10
)

// PontoTendencia counts invoices issued on a date and how many of them were
// delivered that same day.
type PontoTendencia struct {
	Data              datas.Data `json:"data"`
	Emitidas          int        `json:"emitidas"`
	EntreguesMesmoDia int        `json:"entregues_mesmo_dia"`
}

// Tendencia groups deliveries by issue date, keeping the last 30 dates with movement.
func Tendencia(entregas []model.Entrega) []PontoTendencia {
	porData := make(map[datas.Data]*PontoTendencia)
	for i := range entregas {
		e := &entregas[i]
		if e.DataEmissao.Vazia() {
			continue
		}
		p, ok := porData[e.DataEmissao]
		if !ok {
			p = &PontoTendencia{Data: e.DataEmissao}
			porData[e.DataEmissao] = p
		}
		p.Emitidas++
		if e.Status == model.EntregaEntregue && e.DataEntrega == e.DataEmissao {
			p.EntreguesMesmoDia++
		}
	}
	pontos := make([]PontoTendencia, 0, len(porData))
	for _, p := range porData {
		pontos = append(pontos, *p)
	}
	sort.Slice(pontos, func(i, j int) bool { return pontos[i].Data < pontos[j].Data })
	if len(pontos) > diasTendencia {
		pontos = pontos[len(pontos)-diasTendencia:]
	}
	return pontos
}

type PosicaoTecnico struct {
	Nome     string `json:"nome"`
	Entregas int    `json:"entregas"`
}

// RankingTecnicos returns the top receivers by number of deliveries.
func RankingTecnicos(entregas []model.Entrega) []PosicaoTecnico {
	contagem := make(map[string]int)
	for i := range entregas {
		if nome := strings.TrimSpace(entregas[i].Retirante); nome != "" {
			contagem[nome]++
		}
	}
	ranking := make([]PosicaoTecnico, 0, len(contagem))
	for nome, n := range contagem {
		ranking = append(ranking, PosicaoTecnico{Nome: nome, Entregas: n})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Entregas != ranking[j].Entregas {
			return ranking[i].Entregas > ranking[j].Entregas
		}
		return ranking[i].Nome < ranking[j].Nome
	})
	if len(ranking) > tamanhoRanking {
		ranking = ranking[:tamanhoRanking]
	}
	return ranking
}

type EntregaAtrasada struct {
	ID          string     `json:"id"`
	NumeroNF    string     `json:"numero_nf"`
	DataEmissao datas.Data `json:"data_emissao"`
	DiasAberta  int        `json:"dias_aberta"`
}

// Atrasadas lists the oldest deliveries that are neither delivered nor fully returned.
func Atrasadas(entregas []model.Entrega, referencia datas.Data) []EntregaAtrasada {
	abertas := make([]model.Entrega, 0)
	for i := range entregas {
		st := entregas[i].Status
		if st == model.EntregaEntregue || st == model.EntregaDevolvidaTotalmente || entregas[i].DataEmissao.Vazia() {
			continue
		}
		abertas = append(abertas, entregas[i])
	}
	sort.SliceStable(abertas, func(i, j int) bool { return abertas[i].DataEmissao < abertas[j].DataEmissao })
	if len(abertas) > tamanhoAtrasadas {
		abertas = abertas[:tamanhoAtrasadas]
	}
	out := make([]EntregaAtrasada, len(abertas))
	for i, e := range abertas {
		out[i] = EntregaAtrasada{
			ID:          e.ID.String(),
			NumeroNF:    e.NumeroNF,
			DataEmissao: e.DataEmissao,
			DiasAberta:  datas.DiasEntre(e.DataEmissao, referencia),
		}
	}
	return out
}

// Analise bundles the analytics view.
type Analise struct {
	Tendencia []PontoTendencia            `json:"tendencia"`
	Ranking   []PosicaoTecnico            `json:"ranking_tecnicos"`
	PorStatus map[model.StatusEntrega]int `json:"por_status"`
	Atrasadas []EntregaAtrasada           `json:"atrasadas"`
}

func Analisar(entregas []model.Entrega, referencia datas.Data) Analise {
	porStatus := make(map[model.StatusEntrega]int)
	for i := range entregas {
		porStatus[entregas[i].Status]++
	}
	return Analise{
		Tendencia: Tendencia(entregas),
		Ranking:   RankingTecnicos(entregas),
		PorStatus: porStatus,
		Atrasadas: Atrasadas(entregas, referencia),
	}
}

// Quadro splits demands into the three priority columns. Média and Baixa
// share the normal column.
type Quadro struct {
	Urgentes []model.DemandaComercial `json:"urgentes"`
	Altas    []model.DemandaComercial `json:"altas"`
	Normais  []model.DemandaComercial `json:"normais"`
}

// AgruparPorPrioridade buckets the demands matching busca (see Corresponde).
func AgruparPorPrioridade(demandas []model.DemandaComercial, busca string) Quadro {
	q := Quadro{
		Urgentes: []model.DemandaComercial{},
		Altas:    []model.DemandaComercial{},
		Normais:  []model.DemandaComercial{},
	}
	for _, d := range demandas {
		if !Corresponde(&d, busca) {
			continue
		}
		switch d.Prioridade {
		case model.PrioridadeUrgente:
			q.Urgentes = append(q.Urgentes, d)
		case model.PrioridadeAlta:
			q.Altas = append(q.Altas, d)
		default:
			q.Normais = append(q.Normais, d)
		}
	}
	return q
}

// Corresponde reports whether busca occurs in the demand's title, client or
// items, ignoring case. An empty busca matches everything.
func Corresponde(d *model.DemandaComercial, busca string) bool {
	termo := strings.ToLower(strings.TrimSpace(busca))
	if termo == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Titulo), termo) ||
		strings.Contains(strings.ToLower(d.Cliente), termo) ||
		strings.Contains(strings.ToLower(d.Itens), termo)
}

// Evento is one calendar entry.
type Evento struct {
	ID         string           `json:"id"`
	Data       datas.Data       `json:"data"`
	Titulo     string           `json:"titulo"`
	Tipo       string           `json:"tipo"`
	Prioridade model.Prioridade `json:"prioridade,omitempty"`
}

const (
	EventoComercial = "comercial"
	EventoPendencia = "pendencia"
)

// Calendario lists open demand deadlines and unresolved pendency resolution
// forecasts falling in the given month, ordered by date.
func Calendario(demandas []model.DemandaComercial, pendencias []model.Pendencia, ano, mes int) []Evento {
	eventos := make([]Evento, 0)
	noMes := func(d datas.Data) bool {
		if d.Vazia() {
			return false
		}
		t := d.Time()
		return t.Year() == ano && int(t.Month()) == mes
	}
	for _, d := range demandas {
		if d.Concluida() || !noMes(d.Prazo) {
			continue
		}
		eventos = append(eventos, Evento{
			ID: d.ID.String(), Data: d.Prazo, Titulo: d.Titulo,
			Tipo: EventoComercial, Prioridade: d.Prioridade,
		})
	}
	for _, p := range pendencias {
		if p.Resolvida || !noMes(p.PrevisaoResolucao) {
			continue
		}
		eventos = append(eventos, Evento{
			ID: p.ID.String(), Data: p.PrevisaoResolucao, Titulo: "Pend: " + p.Prestador,
			Tipo: EventoPendencia,
		})
	}
	sort.SliceStable(eventos, func(i, j int) bool { return eventos[i].Data < eventos[j].Data })
	return eventos
}
