package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/config"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	// Registrar resolves or creates the company and the user. Repeating an
	// identical registration returns the existing account.
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.RegistroResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	ListarUsuarios(ctx context.Context, ator Ator) ([]dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ExcluirUsuario(ctx context.Context, ator Ator, id uuid.UUID) error
}

type authService struct {
	repo     repository.UsuarioRepository
	empresas repository.EmpresaRepository
	cfg      *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, empresas repository.EmpresaRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, empresas: empresas, cfg: cfg}
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.RegistroResponse, error) {
	nomeEmpresa := strings.TrimSpace(req.Empresa)
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	empresa, err := s.empresas.FindByNome(ctx, nomeEmpresa)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		empresa = &model.Empresa{Nome: nomeEmpresa}
		if err := s.empresas.Create(ctx, empresa); err != nil {
			return nil, err
		}
		log.Info().Str("empresa", nomeEmpresa).Msg("auth: company created on registration")
	} else if err != nil {
		return nil, err
	}

	existente, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		mesmoEmail := existente.Email != nil && strings.EqualFold(*existente.Email, email)
		if existente.EmpresaID != empresa.ID || !mesmoEmail {
			return nil, ErrConflito
		}
		if bcrypt.CompareHashAndPassword([]byte(existente.PasswordHash), []byte(req.Password)) != nil {
			return nil, ErrConflito
		}
		existente.Empresa = empresa
		return &dto.RegistroResponse{
			Usuario:  usuarioResponse(existente),
			Criado:   false,
			Mensagem: mensagemStatus(existente.Status),
		}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if outro, err := s.repo.FindByLogin(ctx, email); err == nil && outro != nil {
		return nil, ErrConflito
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		EmpresaID:    empresa.ID,
		Username:     username,
		Email:        &email,
		PasswordHash: string(hash),
		Papel:        model.PapelVisualizador,
		Status:       model.UsuarioPendente,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	user.Empresa = empresa
	log.Info().Str("username", username).Str("empresa_id", empresa.ID.String()).Msg("auth: user registered")
	return &dto.RegistroResponse{
		Usuario:  usuarioResponse(user),
		Criado:   true,
		Mensagem: mensagemStatus(user.Status),
	}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, ErrCredenciais
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciais
	}

	if req.Empresa != "" {
		if user.Empresa == nil || !strings.EqualFold(strings.TrimSpace(req.Empresa), user.Empresa.Nome) {
			return nil, ErrEmpresaDiferente
		}
	}
	if err := statusErr(user.Status); err != nil {
		return nil, err
	}
	return s.tokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido ou expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, ErrCredenciais
	}
	if err := statusErr(user.Status); err != nil {
		return nil, err
	}
	return s.tokens(user)
}

func (s *authService) ListarUsuarios(ctx context.Context, ator Ator) ([]dto.UsuarioResponse, error) {
	if !permissao.ParaAdministracao(ator.Papel).EditarCampos {
		return nil, ErrSemPermissao
	}
	users, err := s.repo.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) AtualizarUsuario(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if !permissao.ParaAdministracao(ator.Papel).EditarCampos {
		return nil, ErrSemPermissao
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil || user.EmpresaID != ator.EmpresaID {
		return nil, ErrNaoEncontrado
	}

	v := validacao{}
	if req.Papel != "" {
		if p := model.Papel(req.Papel); p.Valido() {
			user.Papel = p
		} else {
			v.add("papel", "papel invalido")
		}
	}
	if req.Status != "" {
		if st := model.StatusUsuario(req.Status); st.Valido() {
			user.Status = st
		} else {
			v.add("status", "status invalido")
		}
	}
	// an administrator cannot lock themselves out
	if user.ID == ator.UsuarioID && (user.Papel != model.PapelAdmin || user.Status != model.UsuarioAtivo) {
		v.add("status", "o administrador nao pode rebaixar ou bloquear a propria conta")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	log.Info().
		Str("usuario_id", user.ID.String()).
		Str("papel", string(user.Papel)).
		Str("status", string(user.Status)).
		Msg("auth: user updated")
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) ExcluirUsuario(ctx context.Context, ator Ator, id uuid.UUID) error {
	if !permissao.ParaAdministracao(ator.Papel).Excluir {
		return ErrSemPermissao
	}
	if id == ator.UsuarioID {
		return ErrConflito
	}
	return traduzir(s.repo.Delete(ctx, ator.EmpresaID, id))
}

func (s *authService) tokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"username":   user.Username,
		"rol":        string(user.Papel),
		"empresa_id": user.EmpresaID.String(),
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func statusErr(st model.StatusUsuario) error {
	if permissao.PodeEntrar(st) {
		return nil
	}
	if st == model.UsuarioBloqueado {
		return ErrUsuarioBloqueado
	}
	return ErrUsuarioPendente
}

func mensagemStatus(st model.StatusUsuario) string {
	switch st {
	case model.UsuarioAtivo:
		return "Cadastro ativo"
	case model.UsuarioBloqueado:
		return "Usuario bloqueado"
	default:
		return "Cadastro realizado, aguardando aprovacao do administrador"
	}
}

func usuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	r := dto.UsuarioResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Papel:     string(u.Papel),
		Status:    string(u.Status),
		EmpresaID: u.EmpresaID.String(),
	}
	if u.Empresa != nil {
		r.Empresa = u.Empresa.Nome
	}
	return r
}
