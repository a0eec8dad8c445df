package dto

type LimiteCriticoRequest struct {
	Dias *int `json:"dias" validate:"required"`
}

type LimiteCriticoResponse struct {
	Dias   int  `json:"dias"`
	Padrao bool `json:"padrao"` // true when no value was stored for the company
}
