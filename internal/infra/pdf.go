package infra

// pdf.go renders the completion summary of a commercial demand using
// go-pdf/fpdf. The layout mirrors the PNG variant in imagem.go: a header
// band, the client block, then every checklist line.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/checklist"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/go-pdf/fpdf"
)

// ResumoDemanda is the data printed on a completion summary.
type ResumoDemanda struct {
	Titulo  string
	Cliente string
	Projeto string
	Prazo   string // DD/MM/YYYY
	Itens   []string
}

// NovoResumo collects the printable fields of a demand. Only checked items
// are listed.
func NovoResumo(d *model.DemandaComercial) ResumoDemanda {
	r := ResumoDemanda{
		Titulo:  d.Titulo,
		Cliente: d.Cliente,
		Projeto: d.Projeto,
		Prazo:   d.Prazo.FormatBR(),
	}
	for _, it := range checklist.Parse(d.Itens) {
		if it.Marcado {
			r.Itens = append(r.Itens, it.Texto)
		}
	}
	return r
}

// ItemResumo splits "CODE - name" into its parts. Lines without the
// separator have an empty code.
func ItemResumo(linha string) (codigo, nome string) {
	partes := strings.Split(linha, " - ")
	if len(partes) > 1 {
		return partes[0], strings.Join(partes[1:], " - ")
	}
	return "", linha
}

// GerarResumoPDF renders the summary as an A4 PDF and returns its bytes.
func GerarResumoPDF(r ResumoDemanda) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFillColor(22, 163, 74)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 12, tr("Materiais Disponíveis!"), "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 7, tr("A separação para esta obra foi concluída com sucesso."), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	// ── Demand data ──────────────────────────────────────────────────────────
	pdf.SetTextColor(15, 23, 42)
	half := contentW / 2
	campo := func(rotulo, valor string, ln int) {
		x, y := pdf.GetX(), pdf.GetY()
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(half, 4, tr(strings.ToUpper(rotulo)), "", 2, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(half, 6, tr(valor), "", 0, "L", false, 0, "")
		if ln == 1 {
			pdf.Ln(8)
			return
		}
		pdf.SetXY(x+half, y)
	}
	campo("Cliente", r.Cliente, 0)
	campo("Obra/Projeto", r.Projeto, 1)
	campo("Prazo Original", r.Prazo, 0)
	campo("Status", "CONCLUÍDO (100%)", 1)
	pdf.Ln(2)

	// ── Checklist ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, tr("Lista de Materiais Conferidos"), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
	for _, linha := range r.Itens {
		codigo, nome := ItemResumo(linha)
		pdf.SetFont("Courier", "B", 9)
		pdf.CellFormat(8, 6, "[x]", "", 0, "L", false, 0, "")
		if codigo != "" {
			pdf.CellFormat(pdf.GetStringWidth(codigo)+3, 6, tr(codigo), "", 0, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(nome), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// SalvarArquivo writes data under storagePath, creating the directory if
// needed, and returns the full path.
func SalvarArquivo(storagePath, nome string, data []byte) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	path := filepath.Join(storagePath, nome)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", nome, err)
	}
	return path, nil
}
