package dto

type CriarTecnicoRequest struct {
	Nome string `json:"nome" validate:"required,min=2,max=120"`
}
