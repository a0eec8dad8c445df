// Package importacao turns spreadsheets and pasted text into new deliveries.
// Parsing is all-or-nothing: the caller receives either every valid row or
// an error, never a partial result.
package importacao

import (
	"io"
	"strconv"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var ErrSemDados = errors.New("nenhum dado valido encontrado")

var (
	sinonimosNF   = []string{"Nota Fiscal", "NF", "Nota", "Invoice"}
	sinonimosData = []string{"Data de Emissão", "Data", "Emissão", "Issue Date"}
	descartados   = map[string]bool{"": true, "UNKNOWN": true, "undefined": true}
)

// Linha is one parsed row.
type Linha struct {
	NumeroNF    string     `json:"numero_nf"`
	DataEmissao datas.Data `json:"data_emissao"`
}

// LerPlanilha reads the first sheet of an xlsx workbook. The first row is the
// header; columns are located by synonym, falling back to the first and
// second columns. Missing or unreadable dates become hoje.
func LerPlanilha(r io.Reader, hoje datas.Data) ([]Linha, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(err, "abrir planilha")
	}
	defer f.Close()

	folhas := f.GetSheetList()
	if len(folhas) == 0 {
		return nil, ErrSemDados
	}
	rows, err := f.GetRows(folhas[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "ler aba %q", folhas[0])
	}
	if len(rows) < 2 {
		return nil, ErrSemDados
	}

	colNF := localizar(rows[0], sinonimosNF, 0)
	colData := localizar(rows[0], sinonimosData, 1)

	linhas := make([]Linha, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if l, ok := montar(celula(row, colNF), celula(row, colData), hoje); ok {
			linhas = append(linhas, l)
		}
	}
	if len(linhas) == 0 {
		return nil, ErrSemDados
	}
	return linhas, nil
}

// LerTexto parses pasted text, one "NF,date" or "NF<TAB>date" pair per line.
func LerTexto(texto string, hoje datas.Data) ([]Linha, error) {
	linhas := make([]Linha, 0)
	for _, raw := range strings.Split(strings.TrimSpace(texto), "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		sep := ","
		if strings.Contains(raw, "\t") {
			sep = "\t"
		}
		partes := strings.Split(raw, sep)
		data := ""
		if len(partes) > 1 {
			data = partes[1]
		}
		if l, ok := montar(partes[0], data, hoje); ok {
			linhas = append(linhas, l)
		}
	}
	if len(linhas) == 0 {
		return nil, ErrSemDados
	}
	return linhas, nil
}

// Entregas builds pending, open deliveries for the parsed rows.
func Entregas(linhas []Linha, empresaID uuid.UUID) []model.Entrega {
	out := make([]model.Entrega, len(linhas))
	for i, l := range linhas {
		out[i] = model.Entrega{
			ID:          model.NovoID(),
			EmpresaID:   empresaID,
			NumeroNF:    l.NumeroNF,
			DataEmissao: l.DataEmissao,
			Status:      model.EntregaPendente,
			StatusAdmin: model.AdminAberto,
		}
	}
	return out
}

func montar(nf, data string, hoje datas.Data) (Linha, bool) {
	nf = strings.TrimSpace(nf)
	if descartados[nf] {
		return Linha{}, false
	}
	return Linha{NumeroNF: nf, DataEmissao: converterData(data, hoje)}, true
}

// converterData accepts spreadsheet serials, D/M/Y with slashes, and ISO text.
func converterData(s string, hoje datas.Data) datas.Data {
	s = strings.TrimSpace(s)
	if s == "" {
		return hoje
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return datas.DeSerialPlanilha(serial)
	}
	if strings.Contains(s, "/") {
		p := strings.Split(s, "/")
		if len(p) != 3 {
			return hoje
		}
		d, err := datas.Parse(pad(p[0]) + "/" + pad(p[1]) + "/" + p[2])
		if err != nil {
			return hoje
		}
		return d
	}
	d, err := datas.Parse(s)
	if err != nil {
		return hoje
	}
	return d
}

func pad(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func localizar(cabecalho []string, sinonimos []string, padrao int) int {
	for _, nome := range sinonimos {
		for i, c := range cabecalho {
			if strings.EqualFold(strings.TrimSpace(c), nome) {
				return i
			}
		}
	}
	return padrao
}

func celula(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
