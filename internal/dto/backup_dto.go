package dto

import "github.com/felipedarroz/Almoxarifado-Pro/internal/model"

// Backup is the JSON snapshot of a company. Collections are pointers so an
// import can tell an absent collection (left untouched) from an empty one
// (cleared).
type Backup struct {
	Deliveries        *[]model.Entrega          `json:"deliveries,omitempty"`
	Pendencies        *[]model.Pendencia        `json:"pendencies,omitempty"`
	CommercialDemands *[]model.DemandaComercial `json:"commercialDemands,omitempty"`
	Users             *[]UsuarioResponse        `json:"users,omitempty"`
	Technicians       *[]model.Tecnico          `json:"technicians,omitempty"`
}

type BackupImportResponse struct {
	Restaurados map[string]int `json:"restaurados"`
	Ignorados   []string       `json:"ignorados"`
}
