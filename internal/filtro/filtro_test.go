package filtro

import (
	"fmt"
	"math"
	"testing"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entrega(nf, emissao string, st model.StatusEntrega, adm model.StatusAdmin) model.Entrega {
	return model.Entrega{NumeroNF: nf, DataEmissao: datas.Data(emissao), Status: st, StatusAdmin: adm}
}

func TestAplicar_CombinesPredicates(t *testing.T) {
	base := []model.Entrega{
		entrega("NF-1001", "2024-01-10", model.EntregaPendente, model.AdminAberto),
		entrega("nf-1002", "2024-01-15", model.EntregaEntregue, model.AdminAberto),
		entrega("NF-2001", "2024-02-01", model.EntregaEntregue, model.AdminAtendida),
	}

	got := Aplicar(base, Filtro{NumeroNF: "NF-100"})
	assert.Len(t, got, 2, "substring match is case-insensitive")

	got = Aplicar(base, Filtro{Status: model.EntregaEntregue, StatusAdmin: model.AdminAberto})
	require.Len(t, got, 1)
	assert.Equal(t, "nf-1002", got[0].NumeroNF)

	got = Aplicar(base, Filtro{DataInicio: "2024-01-15", DataFim: "2024-01-31"})
	require.Len(t, got, 1)
	assert.Equal(t, "nf-1002", got[0].NumeroNF)

	assert.Len(t, Aplicar(base, Filtro{}), 3)
}

func TestAplicar_InclusiveBounds(t *testing.T) {
	base := []model.Entrega{entrega("1", "2024-01-10", model.EntregaPendente, model.AdminAberto)}
	assert.Len(t, Aplicar(base, Filtro{DataInicio: "2024-01-10", DataFim: "2024-01-10"}), 1)
}

func TestOrdenar_DateThenNaturalNF(t *testing.T) {
	items := []model.Entrega{
		entrega("NF-9", "2024-01-10", model.EntregaPendente, model.AdminAberto),
		entrega("NF-10", "2024-01-10", model.EntregaPendente, model.AdminAberto),
		entrega("NF-1", "2024-02-01", model.EntregaPendente, model.AdminAberto),
	}
	Ordenar(items)
	assert.Equal(t, []string{"NF-1", "NF-10", "NF-9"}, []string{items[0].NumeroNF, items[1].NumeroNF, items[2].NumeroNF})
}

func TestCompararNatural(t *testing.T) {
	assert.Equal(t, 1, CompararNatural("10", "9"))
	assert.Equal(t, -1, CompararNatural("a2", "a10"))
	assert.Equal(t, 0, CompararNatural("NF-007", "nf-7"))
	assert.Equal(t, -1, CompararNatural("abc", "abcd"))
}

func TestPaginar(t *testing.T) {
	itens := make([]int, 120)
	for i := range itens {
		itens[i] = i
	}

	p := Paginar(itens, 1, TamanhoPagina)
	assert.Len(t, p.Itens, 50)
	assert.Equal(t, 3, p.TotalPaginas)
	assert.Equal(t, 120, p.Total)

	p = Paginar(itens, 3, TamanhoPagina)
	assert.Len(t, p.Itens, 20)
	assert.Equal(t, 100, p.Itens[0])

	p = Paginar(itens, 4, TamanhoPagina)
	assert.Empty(t, p.Itens)

	p = Paginar(itens, 0, TamanhoPagina)
	assert.Equal(t, 1, p.Pagina)
	assert.Equal(t, 0, p.Itens[0])

	p = Paginar([]int{}, 1, TamanhoPagina)
	assert.Equal(t, 0, p.TotalPaginas)
	assert.Empty(t, p.Itens)
}

func TestPaginar_HugePageIsEmpty(t *testing.T) {
	itens := make([]int, 10)
	for _, pagina := range []int{math.MaxInt, math.MaxInt / 25, 2} {
		var p Pagina[int]
		require.NotPanics(t, func() { p = Paginar(itens, pagina, TamanhoPagina) })
		assert.Empty(t, p.Itens)
		assert.Equal(t, 1, p.TotalPaginas)
		assert.Equal(t, 10, p.Total)
	}
}

func TestPaginar_ConcatenationCoversFilteredList(t *testing.T) {
	base := make([]model.Entrega, 0, 130)
	for i := 0; i < 130; i++ {
		st := model.EntregaPendente
		if i%3 == 0 {
			st = model.EntregaEntregue
		}
		base = append(base, entrega(fmt.Sprintf("NF-%d", i), "2024-01-01", st, model.AdminAberto))
	}
	filtradas := Aplicar(base, Filtro{Status: model.EntregaPendente})
	Ordenar(filtradas)

	var todas []model.Entrega
	primeira := Paginar(filtradas, 1, TamanhoPagina)
	for p := 1; p <= primeira.TotalPaginas; p++ {
		todas = append(todas, Paginar(filtradas, p, TamanhoPagina).Itens...)
	}
	assert.Equal(t, filtradas, todas)
}
