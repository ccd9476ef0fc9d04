//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - Full sale cycle: login → abrir caixa → carrinho → venda em dinheiro → recentes
//   - Reconciliation: suprimento + sangria + cash sale → resumo → fechar
//   - Public price check via barcode (cached)

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"meipdv/internal/config"
	"meipdv/internal/infra"
	"meipdv/internal/model"
	"meipdv/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("meipdv_test"),
		tcPostgres.WithUsername("meipdv"),
		tcPostgres.WithPassword("meipdv"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		NomeEmpresa:        "MEI PDV Teste",
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin",
		Nome:         "Admin E2E",
		PasswordHash: string(hash),
		Perfil:       "administrador",
		Ativo:        true,
	}).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "admin1234"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, db: db}
}

func (env *testEnv) criarProduto(t *testing.T, nome, sku, barcode, preco string) string {
	t.Helper()
	body := map[string]any{"nome": nome, "sku": sku, "tipo": "produto", "preco": preco}
	if barcode != "" {
		body["codigo_barras"] = barcode
	}
	resp := do(t, env.server, "POST", "/v1/produtos", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Refrigerante 500ml", "REFRI-500", "7890001000001", "10.00")

	// Open the till with saldo inicial 100
	abrirResp := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"saldo_inicial": "100.00"}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	var status struct {
		Aberto     bool `json:"aberto"`
		Movimentos []struct {
			Categoria string `json:"categoria"`
			Valor     string `json:"valor"`
			Descricao string `json:"descricao"`
		} `json:"movimentos"`
	}
	decodeJSON(t, abrirResp, &status)
	require.True(t, status.Aberto)
	require.Len(t, status.Movimentos, 1)
	assert.Equal(t, "saldo_inicial", status.Movimentos[0].Categoria)
	assert.Equal(t, "Saldo Inicial", status.Movimentos[0].Descricao)

	// Cart: 2 × 10.00
	for i := 0; i < 2; i++ {
		resp := do(t, env.server, "POST", "/v1/carrinho/itens",
			jsonBody(t, map[string]any{"produto_id": prodID}), env.token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Finalize with cash 30 → troco 10
	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{"metodo_pagamento": "dinheiro", "valor_pago": "30.00"}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	var venda struct {
		NumeroTicket int    `json:"numero_ticket"`
		Total        string `json:"total"`
		Troco        string `json:"troco"`
	}
	decodeJSON(t, vendaResp, &venda)
	assert.Equal(t, 1, venda.NumeroTicket)
	assert.Equal(t, "20", venda.Total)
	assert.Equal(t, "10", venda.Troco)

	// Cart is empty after the sale
	carResp := do(t, env.server, "GET", "/v1/carrinho", nil, env.token)
	require.Equal(t, http.StatusOK, carResp.StatusCode)
	var car struct {
		Itens []any  `json:"itens"`
		Total string `json:"total"`
	}
	decodeJSON(t, carResp, &car)
	assert.Empty(t, car.Itens)

	// The sale shows up in recentes
	recResp := do(t, env.server, "GET", "/v1/vendas/recentes", nil, env.token)
	require.Equal(t, http.StatusOK, recResp.StatusCode)
	var rec struct {
		Data []struct {
			NumeroTicket int `json:"numero_ticket"`
		} `json:"data"`
	}
	decodeJSON(t, recResp, &rec)
	require.Len(t, rec.Data, 1)
	assert.Equal(t, 1, rec.Data[0].NumeroTicket)
}

func TestE2E_Reconciliation(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Café 500g", "CAFE-500", "", "30.00")

	abrirResp := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"saldo_inicial": "50.00"}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	abrirResp.Body.Close()

	// Cash sale of 30
	addResp := do(t, env.server, "POST", "/v1/carrinho/itens",
		jsonBody(t, map[string]any{"produto_id": prodID}), env.token)
	require.Equal(t, http.StatusOK, addResp.StatusCode)
	addResp.Body.Close()
	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{"metodo_pagamento": "dinheiro", "valor_pago": "30.00"}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	vendaResp.Body.Close()

	// Sangria of 10
	sangriaResp := do(t, env.server, "POST", "/v1/caixa/movimento",
		jsonBody(t, map[string]any{"tipo": "sangria", "valor": "10.00", "descricao": "Depósito bancário"}), env.token)
	require.Equal(t, http.StatusNoContent, sangriaResp.StatusCode)

	// Resumo: 50 + 30 − 10 = 70
	resumoResp := do(t, env.server, "GET", "/v1/caixa/resumo", nil, env.token)
	require.Equal(t, http.StatusOK, resumoResp.StatusCode)
	var resumo struct {
		SaldoEsperado  string `json:"saldo_esperado"`
		VendasDinheiro string `json:"vendas_dinheiro"`
		Sangrias       string `json:"sangrias"`
	}
	decodeJSON(t, resumoResp, &resumo)
	assert.Equal(t, "70", resumo.SaldoEsperado)
	assert.Equal(t, "30", resumo.VendasDinheiro)
	assert.Equal(t, "10", resumo.Sangrias)

	// Close declaring a counted balance of 69 → divergence −1
	fecharResp := do(t, env.server, "POST", "/v1/caixa/fechar",
		jsonBody(t, map[string]any{"saldo_contado": "69.00"}), env.token)
	require.Equal(t, http.StatusOK, fecharResp.StatusCode)
	var fechamento struct {
		Divergencia string `json:"divergencia"`
	}
	decodeJSON(t, fecharResp, &fechamento)
	assert.Equal(t, "-1", fechamento.Divergencia)

	// Till is closed from here on
	statusResp := do(t, env.server, "GET", "/v1/caixa/status", nil, env.token)
	require.Equal(t, http.StatusOK, statusResp.StatusCode)
	var status struct {
		Aberto bool `json:"aberto"`
	}
	decodeJSON(t, statusResp, &status)
	assert.False(t, status.Aberto)

	// Sale attempts are rejected now
	rejected := do(t, env.server, "POST", "/v1/carrinho/itens",
		jsonBody(t, map[string]any{"produto_id": prodID}), env.token)
	assert.Equal(t, http.StatusConflict, rejected.StatusCode)
	rejected.Body.Close()
}

func TestE2E_ConsultaPrecoPublica(t *testing.T) {
	env := setupTestEnv(t)

	env.criarProduto(t, "Água Mineral 500ml", "AGUA-500", "7894900011517", "2.50")

	// No auth token on purpose
	resp := do(t, env.server, "GET", "/v1/preco/7894900011517", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preco struct {
		Nome  string `json:"nome"`
		Preco string `json:"preco"`
	}
	decodeJSON(t, resp, &preco)
	assert.Equal(t, "Água Mineral 500ml", preco.Nome)
	assert.Equal(t, "2.5", preco.Preco)

	// Second hit comes from the cache and must return the same payload
	resp2 := do(t, env.server, "GET", "/v1/preco/7894900011517", nil, "")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	var preco2 struct {
		Preco string `json:"preco"`
	}
	decodeJSON(t, resp2, &preco2)
	assert.Equal(t, preco.Preco, preco2.Preco)
}
