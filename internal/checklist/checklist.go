// Package checklist parses, serializes, and toggles the free-text item lists
// attached to commercial demands. One item per line; a line starting with
// "[x]" (case-insensitive) is checked.
package checklist

import (
	"errors"
	"math"
	"strings"
)

const marcador = "[x]"

var (
	ErrIndiceInvalido = errors.New("indice de item invalido")
	// ErrItemVazio is returned when unchecking a line that holds only the
	// marker; removing it would leave a blank line and renumber the list.
	ErrItemVazio = errors.New("item sem texto nao pode ser desmarcado")
)

type Item struct {
	Texto   string `json:"texto"`
	Marcado bool   `json:"marcado"`
}

// Parse splits text into items, dropping blank lines.
func Parse(texto string) []Item {
	itens := make([]Item, 0)
	for _, linha := range strings.Split(texto, "\n") {
		l := strings.TrimSpace(linha)
		if l == "" {
			continue
		}
		if temMarcador(l) {
			itens = append(itens, Item{Texto: strings.TrimSpace(l[len(marcador):]), Marcado: true})
			continue
		}
		itens = append(itens, Item{Texto: l})
	}
	return itens
}

// Serializar renders items back to text, one per line.
func Serializar(itens []Item) string {
	linhas := make([]string, len(itens))
	for i, it := range itens {
		if it.Marcado {
			linhas[i] = marcador + " " + it.Texto
		} else {
			linhas[i] = it.Texto
		}
	}
	return strings.Join(linhas, "\n")
}

// Progresso is the rounded percentage of checked items; 0 for an empty list.
func Progresso(itens []Item) int {
	if len(itens) == 0 {
		return 0
	}
	marcados := 0
	for _, it := range itens {
		if it.Marcado {
			marcados++
		}
	}
	return int(math.Round(float64(marcados) * 100 / float64(len(itens))))
}

func ProgressoTexto(texto string) int { return Progresso(Parse(texto)) }

// Completo reports whether every item is checked and the list is non-empty.
func Completo(texto string) bool { return ProgressoTexto(texto) == 100 }

// Alternar flips the i-th non-blank line of texto. Blank lines and the
// indentation of the toggled line are preserved.
func Alternar(texto string, indice int) (string, error) {
	if indice < 0 {
		return "", ErrIndiceInvalido
	}
	linhas := strings.Split(texto, "\n")
	visto := -1
	for pos, linha := range linhas {
		if strings.TrimSpace(linha) == "" {
			continue
		}
		visto++
		if visto != indice {
			continue
		}
		corpo := strings.TrimLeft(linha, " \t")
		recuo := linha[:len(linha)-len(corpo)]
		if temMarcador(corpo) {
			resto := corpo[len(marcador):]
			resto = strings.TrimPrefix(resto, " ")
			if strings.TrimSpace(resto) == "" {
				return "", ErrItemVazio
			}
			linhas[pos] = recuo + resto
		} else {
			linhas[pos] = recuo + marcador + " " + corpo
		}
		return strings.Join(linhas, "\n"), nil
	}
	return "", ErrIndiceInvalido
}

func temMarcador(l string) bool {
	return len(l) >= len(marcador) && strings.EqualFold(l[:len(marcador)], marcador)
}
