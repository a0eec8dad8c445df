package infra

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	larguraResumo   = 600
	margemResumo    = 24
	alturaCabecalho = 72
	alturaLinha     = 22
)

var (
	corCabecalho = color.RGBA{22, 163, 74, 255}
	corFundo     = color.RGBA{255, 255, 255, 255}
	corPainel    = color.RGBA{248, 250, 252, 255}
	corItem      = color.RGBA{240, 253, 244, 255}
	corTexto     = color.RGBA{15, 23, 42, 255}
	corRotulo    = color.RGBA{148, 163, 184, 255}
	corBranco    = color.RGBA{255, 255, 255, 255}
	corMarca     = color.RGBA{22, 163, 74, 255}
)

// GerarResumoPNG renders the completion summary as a fixed-width PNG.
func GerarResumoPNG(r ResumoDemanda) ([]byte, error) {
	face := basicfont.Face7x13
	maxChars := (larguraResumo - 2*margemResumo - 28) / face.Advance

	linhasItens := make([][]string, len(r.Itens))
	totalLinhas := 0
	for i, item := range r.Itens {
		codigo, nome := ItemResumo(item)
		texto := nome
		if codigo != "" {
			texto = codigo + "  " + nome
		}
		linhasItens[i] = quebrar(texto, maxChars)
		totalLinhas += len(linhasItens[i])
	}

	altura := alturaCabecalho + 24 + 2*46 + 40 + totalLinhas*alturaLinha + len(r.Itens)*6 + margemResumo
	img := image.NewRGBA(image.Rect(0, 0, larguraResumo, altura))
	draw.Draw(img, img.Bounds(), &image.Uniform{corFundo}, image.Point{}, draw.Src)

	// header band
	preencher(img, image.Rect(0, 0, larguraResumo, alturaCabecalho), corCabecalho)
	escrever(img, margemResumo, 32, "MATERIAIS DISPONÍVEIS!", corBranco)
	escrever(img, margemResumo, 54, "A separação para esta obra foi concluída com sucesso.", corBranco)

	// data panel, two columns
	y := alturaCabecalho + 24
	preencher(img, image.Rect(margemResumo, y-8, larguraResumo-margemResumo, y+2*46-8), corPainel)
	metade := larguraResumo / 2
	campos := []struct {
		rotulo, valor string
		x, y          int
	}{
		{"CLIENTE", r.Cliente, margemResumo + 12, y + 8},
		{"OBRA/PROJETO", r.Projeto, metade + 12, y + 8},
		{"PRAZO ORIGINAL", r.Prazo, margemResumo + 12, y + 54},
		{"STATUS", "CONCLUÍDO (100%)", metade + 12, y + 54},
	}
	for _, c := range campos {
		escrever(img, c.x, c.y, c.rotulo, corRotulo)
		escrever(img, c.x, c.y+16, truncar(c.valor, (metade-36)/face.Advance), corTexto)
	}

	// checklist
	y += 2*46 + 16
	escrever(img, margemResumo, y, "Lista de Materiais Conferidos", corTexto)
	preencher(img, image.Rect(margemResumo, y+6, larguraResumo-margemResumo, y+7), corRotulo)
	y += 24
	for _, linhas := range linhasItens {
		alt := len(linhas)*alturaLinha - 4
		preencher(img, image.Rect(margemResumo, y-15, larguraResumo-margemResumo, y-15+alt), corItem)
		escrever(img, margemResumo+6, y, "[x]", corMarca)
		for _, l := range linhas {
			escrever(img, margemResumo+34, y, l, corTexto)
			y += alturaLinha
		}
		y += 6
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func preencher(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

func escrever(img *image.RGBA, x, y int, texto string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(texto)
}

// quebrar wraps texto on spaces so no line exceeds max runes.
func quebrar(texto string, max int) []string {
	palavras := strings.Fields(texto)
	if len(palavras) == 0 {
		return []string{""}
	}
	var linhas []string
	atual := ""
	for _, p := range palavras {
		candidato := p
		if atual != "" {
			candidato = atual + " " + p
		}
		if len([]rune(candidato)) <= max || atual == "" {
			atual = truncar(candidato, max)
			continue
		}
		linhas = append(linhas, atual)
		atual = truncar(p, max)
	}
	return append(linhas, atual)
}

func truncar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "~"
}
