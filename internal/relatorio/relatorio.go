// Package relatorio writes the period-closing workbook: one sheet of
// deliveries and one of commercial demands, dates in DD/MM/YYYY.
package relatorio

import (
	"bytes"
	"fmt"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	AbaOperacional = "Relatório Operacional"
	AbaComercial   = "Relatório Comercial"
)

var CabecalhoOperacional = []string{
	"Nota Fiscal", "Emissão", "Data Entrega", "Data Retorno",
	"Status Atual", "Técnico", "Status Admin", "Observações",
}

var CabecalhoComercial = []string{
	"Título", "Cliente", "Projeto", "Data Solicitação", "Prazo",
	"Data Conclusão", "Status", "Prioridade", "Itens",
}

// NomeArquivo is the download name for a report covering [inicio, fim].
func NomeArquivo(inicio, fim datas.Data) string {
	return fmt.Sprintf("Fechamento_%s_ate_%s.xlsx", inicio, fim)
}

func LinhaOperacional(e model.Entrega) []any {
	return []any{
		e.NumeroNF,
		e.DataEmissao.FormatBR(),
		ouPadrao(e.DataEntrega.FormatBR(), "Pendente"),
		ouPadrao(e.DataDevolucao.FormatBR(), "N/A"),
		string(e.Status),
		ouPadrao(e.Retirante, "Não atribuído"),
		string(e.StatusAdmin),
		e.Observacoes,
	}
}

func LinhaComercial(d model.DemandaComercial) []any {
	return []any{
		d.Titulo,
		d.Cliente,
		d.Projeto,
		d.DataPedido.FormatBR(),
		d.Prazo.FormatBR(),
		ouPadrao(d.DataConclusao.FormatBR(), "Em andamento"),
		string(d.Status),
		string(d.Prioridade),
		d.Itens,
	}
}

// Gerar builds the workbook and returns its bytes.
func Gerar(entregas []model.Entrega, demandas []model.DemandaComercial) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AbaOperacional); err != nil {
		return nil, fmt.Errorf("relatorio: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AbaComercial); err != nil {
		return nil, fmt.Errorf("relatorio: create sheet: %w", err)
	}

	estilo, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("relatorio: header style: %w", err)
	}

	operacional := make([][]any, len(entregas))
	for i, e := range entregas {
		operacional[i] = LinhaOperacional(e)
	}
	if err := escreverAba(f, AbaOperacional, CabecalhoOperacional, operacional, estilo); err != nil {
		return nil, err
	}

	comercial := make([][]any, len(demandas))
	for i, d := range demandas {
		comercial[i] = LinhaComercial(d)
	}
	if err := escreverAba(f, AbaComercial, CabecalhoComercial, comercial, estilo); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("relatorio: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func escreverAba(f *excelize.File, aba string, cabecalho []string, linhas [][]any, estilo int) error {
	for col, titulo := range cabecalho {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("relatorio: header cell: %w", err)
		}
		if err := f.SetCellValue(aba, cell, titulo); err != nil {
			return fmt.Errorf("relatorio: set header %s: %w", cell, err)
		}
	}
	ultima, _ := excelize.CoordinatesToCellName(len(cabecalho), 1)
	if err := f.SetCellStyle(aba, "A1", ultima, estilo); err != nil {
		return fmt.Errorf("relatorio: header style: %w", err)
	}

	for r, linha := range linhas {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(aba, cell, &linha); err != nil {
			return fmt.Errorf("relatorio: row %d: %w", r+2, err)
		}
	}

	ultimaCol, _ := excelize.ColumnNumberToName(len(cabecalho))
	if err := f.SetColWidth(aba, "A", ultimaCol, 20); err != nil {
		return fmt.Errorf("relatorio: column width: %w", err)
	}
	return nil
}

func ouPadrao(v, padrao string) string {
	if v == "" {
		return padrao
	}
	return v
}
