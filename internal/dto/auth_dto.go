package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistroRequest struct {
	Empresa  string `json:"empresa"  validate:"required,min=2,max=120"`
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest accepts a username or an e-mail in Username. Empresa is
// optional; when present it must match the user's company.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
	Empresa  string `json:"empresa"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AtualizarUsuarioRequest struct {
	Papel  string `json:"papel"  validate:"omitempty,oneof=Administrador Gerente Editor Visualizador Comercial"`
	Status string `json:"status" validate:"omitempty,oneof=Pendente Ativo Bloqueado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	Papel     string  `json:"papel"`
	Status    string  `json:"status"`
	EmpresaID string  `json:"empresa_id"`
	Empresa   string  `json:"empresa,omitempty"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

type RegistroResponse struct {
	Usuario  UsuarioResponse `json:"usuario"`
	Criado   bool            `json:"criado"` // false when the identical account already existed
	Mensagem string          `json:"mensagem"`
}
