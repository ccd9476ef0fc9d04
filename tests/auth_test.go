package tests

import (
	"context"
	"testing"

	"meipdv/internal/config"
	"meipdv/internal/dto"
	"meipdv/internal/model"
	"meipdv/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func novoAuthService(t *testing.T) (service.AuthService, *fakeUsuarioRepo, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          "test-secret-do-not-use-in-prod",
		JWTExpirationHours: 8,
		JWTRefreshHours:    72,
	}
	repo := newFakeUsuarioRepo()
	return service.NewAuthService(repo, cfg), repo, cfg
}

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, username, password, perfil string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		Username:     username,
		Nome:         "Usuário de Teste",
		PasswordHash: string(hash),
		Perfil:       perfil,
		Ativo:        true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin_Sucesso(t *testing.T) {
	svc, repo, cfg := novoAuthService(t)
	seedUsuario(t, repo, "admin", "admin1234", "administrador")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin1234"})
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, "administrador", resp.User.Perfil)
	assert.NotEmpty(t, resp.RefreshToken)

	// The access token must carry the identity claims, HS256-signed.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, "administrador", claims["perfil"])
}

func TestLogin_SenhaErrada(t *testing.T) {
	svc, repo, _ := novoAuthService(t)
	seedUsuario(t, repo, "admin", "admin1234", "administrador")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "errada"})
	assert.EqualError(t, err, "credenciais inválidas")
}

func TestLogin_UsuarioInexistenteOuInativo(t *testing.T) {
	svc, repo, _ := novoAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "ninguem", Password: "qualquer"})
	assert.EqualError(t, err, "credenciais inválidas")

	u := seedUsuario(t, repo, "desativado", "senha1234", "operador")
	require.NoError(t, repo.SoftDelete(ctx, u.ID))
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "desativado", Password: "senha1234"})
	assert.EqualError(t, err, "credenciais inválidas")
}

func TestRefresh_EmiteNovoPar(t *testing.T) {
	svc, repo, _ := novoAuthService(t)
	seedUsuario(t, repo, "operadora", "senha1234", "operador")
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "operadora", Password: "senha1234"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "operadora", renovado.User.Username)
	assert.NotEmpty(t, renovado.AccessToken)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _, _ := novoAuthService(t)

	_, err := svc.Refresh(context.Background(), "nem-de-longe-um-jwt")
	assert.Error(t, err)
}

func TestRefresh_UsuarioDesativadoDepoisDoLogin(t *testing.T) {
	svc, repo, _ := novoAuthService(t)
	u := seedUsuario(t, repo, "operadora", "senha1234", "operador")
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "operadora", Password: "senha1234"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, u.ID))
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Error(t, err)
}

func TestCriarUsuario_HashEPerfil(t *testing.T) {
	svc, repo, _ := novoAuthService(t)
	ctx := context.Background()

	resp, err := svc.CriarUsuario(ctx, dto.CriarUsuarioRequest{
		Username: "caixa01",
		Nome:     "Operadora de Caixa",
		Password: "senha-segura",
		Perfil:   "operador",
	})
	require.NoError(t, err)
	assert.Equal(t, "operador", resp.Perfil)
	assert.True(t, resp.Ativo)

	// The stored hash must verify against the original password only.
	criado, err := repo.FindByUsername(ctx, "caixa01")
	require.NoError(t, err)
	assert.NotEqual(t, "senha-segura", criado.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(criado.PasswordHash), []byte("senha-segura")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(criado.PasswordHash), []byte("outra")))
}

func TestAtualizarUsuario_TrocaDeSenha(t *testing.T) {
	svc, repo, _ := novoAuthService(t)
	u := seedUsuario(t, repo, "caixa01", "antiga1234", "operador")
	ctx := context.Background()

	_, err := svc.AtualizarUsuario(ctx, u.ID, dto.AtualizarUsuarioRequest{Password: "nova-senha-123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "caixa01", Password: "antiga1234"})
	assert.Error(t, err)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "caixa01", Password: "nova-senha-123"})
	assert.NoError(t, err)
}
