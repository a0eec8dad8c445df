package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarPendenciaRequest struct {
	Prestador         string `json:"prestador"          validate:"required,max=120"`
	Referencia        string `json:"referencia"         validate:"required,max=120"`
	Item              string `json:"item"               validate:"required"`
	Quantidade        int    `json:"quantidade"         validate:"required,gt=0"`
	Motivo            string `json:"motivo"`
	Data              string `json:"data"`
	PrevisaoResolucao string `json:"previsao_resolucao"`
}

type AtualizarPendenciaRequest struct {
	Prestador         *string `json:"prestador"          validate:"omitempty,min=1,max=120"`
	Referencia        *string `json:"referencia"         validate:"omitempty,min=1,max=120"`
	Item              *string `json:"item"               validate:"omitempty,min=1"`
	Quantidade        *int    `json:"quantidade"         validate:"omitempty,gt=0"`
	Motivo            *string `json:"motivo"`
	Data              *string `json:"data"`
	PrevisaoResolucao *string `json:"previsao_resolucao"`
}
