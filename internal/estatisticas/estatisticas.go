// Package estatisticas derives dashboard figures from full, unfiltered record
// sets. Every percentage guards its zero denominator and reports 0.
package estatisticas

import (
	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/shopspring/decimal"
)

// LimiteCriticoPadrao is the default number of days after which a pending
// delivery counts as stagnant.
const LimiteCriticoPadrao = 4

var cem = decimal.NewFromInt(100)

// Composicao is the count and share of one delivery status.
type Composicao struct {
	Quantidade int             `json:"quantidade"`
	Percentual decimal.Decimal `json:"percentual"`
}

// Painel is the dashboard summary.
type Painel struct {
	TotalEntregas      int                                `json:"total_entregas"`
	TempoMedioEntrega  decimal.Decimal                    `json:"tempo_medio_entrega"`
	Estagnadas         int                                `json:"estagnadas"`
	LimiteCritico      int                                `json:"limite_critico"`
	Composicao         map[model.StatusEntrega]Composicao `json:"composicao"`
	TotalDemandas      int                                `json:"total_demandas"`
	DemandasConcluidas int                                `json:"demandas_concluidas"`
	ConformidadeSLA    int                                `json:"conformidade_sla"`
	TotalPendencias    int                                `json:"total_pendencias"`
	PendenciasAtivas   int                                `json:"pendencias_ativas"`
	TaxaResolucao      decimal.Decimal                    `json:"taxa_resolucao"`
}

// Percentual returns 100*parte/total rounded to one decimal, or 0 when total is 0.
func Percentual(parte, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(parte)).Mul(cem).Div(decimal.NewFromInt(int64(total))).Round(1)
}

// PercentualInteiro is Percentual rounded to a whole number.
func PercentualInteiro(parte, total int) int {
	if total == 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(parte)).Mul(cem).Div(decimal.NewFromInt(int64(total))).Round(0).IntPart())
}

// TempoMedioEntrega averages the absolute day difference between issue and
// delivery over records that have both dates.
func TempoMedioEntrega(entregas []model.Entrega) decimal.Decimal {
	soma, n := 0, 0
	for i := range entregas {
		e := &entregas[i]
		if e.DataEmissao.Vazia() || e.DataEntrega.Vazia() {
			continue
		}
		d := datas.DiasEntre(e.DataEmissao, e.DataEntrega)
		if d < 0 {
			d = -d
		}
		soma += d
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(soma)).Div(decimal.NewFromInt(int64(n))).Round(1)
}

// NormalizarLimite enforces the minimum threshold of one day.
func NormalizarLimite(dias int) int { return max(1, dias) }

// Estagnada reports whether e is still pending more than limite days after issue.
func Estagnada(e *model.Entrega, referencia datas.Data, limite int) bool {
	if e.Status != model.EntregaPendente || e.DataEmissao.Vazia() {
		return false
	}
	return datas.DiasEntre(e.DataEmissao, referencia) > limite
}

func ContarEstagnadas(entregas []model.Entrega, referencia datas.Data, limite int) int {
	n := 0
	for i := range entregas {
		if Estagnada(&entregas[i], referencia, limite) {
			n++
		}
	}
	return n
}

// ConformidadeSLA is the whole-number share of completed demands with a
// completion date that finished on or before their deadline.
func ConformidadeSLA(demandas []model.DemandaComercial) (concluidas, percentual int) {
	noPrazo := 0
	for i := range demandas {
		d := &demandas[i]
		if !d.Concluida() || d.DataConclusao.Vazia() {
			continue
		}
		concluidas++
		if d.DataConclusao <= d.Prazo {
			noPrazo++
		}
	}
	return concluidas, PercentualInteiro(noPrazo, concluidas)
}

// Calcular builds the full dashboard summary.
func Calcular(entregas []model.Entrega, demandas []model.DemandaComercial, pendencias []model.Pendencia, referencia datas.Data, limite int) Painel {
	limite = NormalizarLimite(limite)
	p := Painel{
		TotalEntregas:     len(entregas),
		TempoMedioEntrega: TempoMedioEntrega(entregas),
		Estagnadas:        ContarEstagnadas(entregas, referencia, limite),
		LimiteCritico:     limite,
		Composicao:        make(map[model.StatusEntrega]Composicao, 3),
		TotalDemandas:     len(demandas),
		TotalPendencias:   len(pendencias),
	}

	contagem := make(map[model.StatusEntrega]int)
	for i := range entregas {
		contagem[entregas[i].Status]++
	}
	for _, st := range []model.StatusEntrega{model.EntregaEntregue, model.EntregaDevolvidaTotalmente, model.EntregaDevolvidaParcialmente} {
		p.Composicao[st] = Composicao{Quantidade: contagem[st], Percentual: Percentual(contagem[st], len(entregas))}
	}

	p.DemandasConcluidas, p.ConformidadeSLA = ConformidadeSLA(demandas)

	resolvidas := 0
	for i := range pendencias {
		if pendencias[i].Resolvida {
			resolvidas++
		}
	}
	p.PendenciasAtivas = len(pendencias) - resolvidas
	p.TaxaResolucao = Percentual(resolvidas, len(pendencias))
	return p
}
