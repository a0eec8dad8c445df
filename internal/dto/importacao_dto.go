package dto

type ImportarTextoRequest struct {
	Texto string `json:"texto" validate:"required"`
}

type ErroImportacao struct {
	Linha    int    `json:"linha"`
	NumeroNF string `json:"numero_nf"`
	Motivo   string `json:"motivo"`
}

type ImportacaoResponse struct {
	TotalLinhas int              `json:"total_linhas"`
	Criadas     int              `json:"criadas"`
	Erros       int              `json:"erros"`
	Detalhes    []ErroImportacao `json:"detalhes"`
}
