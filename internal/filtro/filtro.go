// Package filtro narrows, orders, and paginates delivery lists.
package filtro

import (
	"sort"
	"strings"
	"unicode"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
)

// TamanhoPagina is the default number of rows per page.
const TamanhoPagina = 50

// Filtro holds the active predicates. Zero values mean "no restriction".
type Filtro struct {
	NumeroNF    string
	Status      model.StatusEntrega
	StatusAdmin model.StatusAdmin
	DataInicio  datas.Data
	DataFim     datas.Data
}

func (f Filtro) Vazio() bool { return f == Filtro{} }

// Aceita reports whether e satisfies every active predicate.
func (f Filtro) Aceita(e *model.Entrega) bool {
	if f.NumeroNF != "" && !strings.Contains(strings.ToLower(e.NumeroNF), strings.ToLower(f.NumeroNF)) {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.StatusAdmin != "" && e.StatusAdmin != f.StatusAdmin {
		return false
	}
	// ISO dates compare correctly as strings
	if f.DataInicio != "" && e.DataEmissao < f.DataInicio {
		return false
	}
	if f.DataFim != "" && e.DataEmissao > f.DataFim {
		return false
	}
	return true
}

// Aplicar returns the entries accepted by f, preserving input order.
func Aplicar(entregas []model.Entrega, f Filtro) []model.Entrega {
	out := make([]model.Entrega, 0, len(entregas))
	for i := range entregas {
		if f.Aceita(&entregas[i]) {
			out = append(out, entregas[i])
		}
	}
	return out
}

// Ordenar sorts in place by issue date descending, then invoice number
// descending using natural (digit-aware) comparison.
func Ordenar(entregas []model.Entrega) {
	sort.SliceStable(entregas, func(i, j int) bool {
		a, b := entregas[i], entregas[j]
		if a.DataEmissao != b.DataEmissao {
			return a.DataEmissao > b.DataEmissao
		}
		return CompararNatural(a.NumeroNF, b.NumeroNF) > 0
	})
}

// Pagina is one slice of an ordered result set.
type Pagina[T any] struct {
	Itens        []T `json:"itens"`
	Pagina       int `json:"pagina"`
	TotalPaginas int `json:"total_paginas"`
	Total        int `json:"total"`
}

// Paginar returns the 1-based page of items. Pages below 1 are treated as 1;
// pages past the end are empty.
func Paginar[T any](itens []T, pagina, tamanho int) Pagina[T] {
	if tamanho <= 0 {
		tamanho = TamanhoPagina
	}
	if pagina < 1 {
		pagina = 1
	}
	total := len(itens)
	totalPaginas := (total + tamanho - 1) / tamanho
	if pagina > totalPaginas {
		return Pagina[T]{Itens: []T{}, Pagina: pagina, TotalPaginas: totalPaginas, Total: total}
	}
	inicio := (pagina - 1) * tamanho
	fim := min(inicio+tamanho, total)
	return Pagina[T]{Itens: itens[inicio:fim], Pagina: pagina, TotalPaginas: totalPaginas, Total: total}
}

// CompararNatural compares strings treating digit runs as numbers, so that
// "NF-10" sorts after "NF-9". Letters compare case-insensitively.
func CompararNatural(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			si := i
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			sj := j
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na := strings.TrimLeft(string(ra[si:i]), "0")
			nb := strings.TrimLeft(string(rb[sj:j]), "0")
			if len(na) != len(nb) {
				return cmpInt(len(na), len(nb))
			}
			if na != nb {
				return strings.Compare(na, nb)
			}
			continue
		}
		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			return cmpInt(int(la), int(lb))
		}
		i++
		j++
	}
	return cmpInt(len(ra)-i, len(rb)-j)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
