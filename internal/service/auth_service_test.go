package service

import (
	"context"
	"testing"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, repo *stubUsuarioRepo, empresa *model.Empresa, username, password string, papel model.Papel, status model.StatusUsuario) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	require.NoError(t, err)
	email := username + "@example.com"
	u := &model.Usuario{
		ID:           uuid.New(),
		EmpresaID:    empresa.ID,
		Username:     username,
		Email:        &email,
		PasswordHash: string(hash),
		Papel:        papel,
		Status:       status,
		Empresa:      empresa,
	}
	repo.rows = append(repo.rows, *u)
	return u
}

func newAuthFixture() (AuthService, *stubUsuarioRepo, *stubEmpresaRepo, *model.Empresa) {
	empresa := &model.Empresa{ID: empresaA, Nome: "Acme"}
	empresas := &stubEmpresaRepo{empresas: []*model.Empresa{empresa}}
	users := newStubUsuarioRepo()
	return NewAuthService(users, empresas, newTestCfg()), users, empresas, empresa
}

func TestRegistrar_CreatesCompanyAndPendingUser(t *testing.T) {
	svc, users, empresas, _ := newAuthFixture()

	resp, err := svc.Registrar(context.Background(), dto.RegistroRequest{
		Empresa: " Nova Ltda ", Username: "maria", Email: "Maria@Example.com", Password: "segredo123",
	})
	require.NoError(t, err)
	assert.True(t, resp.Criado)
	assert.Equal(t, string(model.PapelVisualizador), resp.Usuario.Papel)
	assert.Equal(t, string(model.UsuarioPendente), resp.Usuario.Status)
	assert.Equal(t, "Nova Ltda", resp.Usuario.Empresa)
	require.Len(t, empresas.empresas, 2)
	require.Len(t, users.rows, 1)
	assert.Equal(t, "maria@example.com", *users.rows[0].Email)
}

func TestRegistrar_RepeatIsIdempotent(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	req := dto.RegistroRequest{Empresa: "acme", Username: "joao", Email: "joao@example.com", Password: "segredo123"}

	first, err := svc.Registrar(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Registrar(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, second.Criado)
	assert.Equal(t, first.Usuario.ID, second.Usuario.ID)
	assert.Len(t, users.rows, 1)
	assert.Equal(t, empresaA.String(), second.Usuario.EmpresaID, "company matched case-insensitively")
}

func TestRegistrar_SameUsernameDifferentPasswordConflicts(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	req := dto.RegistroRequest{Empresa: "Acme", Username: "joao", Email: "joao@example.com", Password: "segredo123"}
	_, err := svc.Registrar(context.Background(), req)
	require.NoError(t, err)

	req.Password = "outrasenha"
	_, err = svc.Registrar(context.Background(), req)
	assert.ErrorIs(t, err, ErrConflito)
}

func TestLogin_Success(t *testing.T) {
	svc, users, _, empresa := newAuthFixture()
	u := seedUser(t, users, empresa, "admin", "admin1234", model.PapelAdmin, model.UsuarioAtivo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin1234", Empresa: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)

	tok, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, u.ID.String(), claims["user_id"])
	assert.Equal(t, empresaA.String(), claims["empresa_id"])
	assert.Equal(t, string(model.PapelAdmin), claims["rol"])
}

func TestLogin_ByEmail(t *testing.T) {
	svc, users, _, empresa := newAuthFixture()
	seedUser(t, users, empresa, "editor", "editor123", model.PapelEditor, model.UsuarioAtivo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "EDITOR@example.com", Password: "editor123"})
	assert.NoError(t, err)
}

func TestLogin_Rejections(t *testing.T) {
	svc, users, _, empresa := newAuthFixture()
	seedUser(t, users, empresa, "ativo", "senha1234", model.PapelEditor, model.UsuarioAtivo)
	seedUser(t, users, empresa, "pendente", "senha1234", model.PapelVisualizador, model.UsuarioPendente)
	seedUser(t, users, empresa, "bloqueado", "senha1234", model.PapelEditor, model.UsuarioBloqueado)

	cases := []struct {
		name string
		req  dto.LoginRequest
		want error
	}{
		{"wrong password", dto.LoginRequest{Username: "ativo", Password: "errada"}, ErrCredenciais},
		{"unknown user", dto.LoginRequest{Username: "ninguem", Password: "senha1234"}, ErrCredenciais},
		{"other company", dto.LoginRequest{Username: "ativo", Password: "senha1234", Empresa: "Outra"}, ErrEmpresaDiferente},
		{"pending", dto.LoginRequest{Username: "pendente", Password: "senha1234"}, ErrUsuarioPendente},
		{"blocked", dto.LoginRequest{Username: "bloqueado", Password: "senha1234"}, ErrUsuarioBloqueado},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	svc, users, _, empresa := newAuthFixture()
	seedUser(t, users, empresa, "admin", "admin1234", model.PapelAdmin, model.UsuarioAtivo)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin1234"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Refresh(context.Background(), "lixo")
	assert.Error(t, err)
}

func TestAtualizarUsuario_ApprovesAndGuardsSelf(t *testing.T) {
	svc, users, _, empresa := newAuthFixture()
	admin := seedUser(t, users, empresa, "admin", "admin1234", model.PapelAdmin, model.UsuarioAtivo)
	novo := seedUser(t, users, empresa, "novo", "senha1234", model.PapelVisualizador, model.UsuarioPendente)
	a := Ator{UsuarioID: admin.ID, EmpresaID: empresa.ID, Papel: model.PapelAdmin}

	resp, err := svc.AtualizarUsuario(context.Background(), a, novo.ID, dto.AtualizarUsuarioRequest{
		Papel: string(model.PapelEditor), Status: string(model.UsuarioAtivo),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.PapelEditor), resp.Papel)
	assert.Equal(t, string(model.UsuarioAtivo), resp.Status)

	_, err = svc.AtualizarUsuario(context.Background(), a, admin.ID, dto.AtualizarUsuarioRequest{Status: string(model.UsuarioBloqueado)})
	var ve *ErroValidacao
	assert.ErrorAs(t, err, &ve)

	assert.ErrorIs(t, svc.ExcluirUsuario(context.Background(), a, admin.ID), ErrConflito)
	assert.NoError(t, svc.ExcluirUsuario(context.Background(), a, novo.ID))
}

func TestUsuarios_AdminOnlyAndTenantScoped(t *testing.T) {
	svc, users, _, empresa := newAuthFixture()
	estranho := seedUser(t, users, &model.Empresa{ID: empresaB, Nome: "Outra"}, "estranho", "senha1234", model.PapelEditor, model.UsuarioAtivo)
	seedUser(t, users, empresa, "local", "senha1234", model.PapelEditor, model.UsuarioAtivo)

	_, err := svc.ListarUsuarios(context.Background(), atorCom(model.PapelEditor))
	assert.ErrorIs(t, err, ErrSemPermissao)

	lista, err := svc.ListarUsuarios(context.Background(), atorCom(model.PapelAdmin))
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "local", lista[0].Username)

	_, err = svc.AtualizarUsuario(context.Background(), atorCom(model.PapelAdmin), estranho.ID, dto.AtualizarUsuarioRequest{Status: "Ativo"})
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}
