package tests

import (
	"context"
	"errors"
	"testing"

	"meipdv/internal/carrinho"
	"meipdv/internal/dto"
	"meipdv/internal/model"
	"meipdv/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func novoCaixaService() (service.CaixaService, *fakeCaixaRepo, *carrinho.Store, *fakeMirror) {
	repo := newFakeCaixaRepo()
	carrinhos := carrinho.NewStore()
	mirror := &fakeMirror{}
	return service.NewCaixaService(repo, carrinhos, mirror), repo, carrinhos, mirror
}

func TestAbrirCaixa_RegistraSaldoInicialNoLedger(t *testing.T) {
	svc, repo, _, mirror := novoCaixaService()

	status, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("100")})
	require.NoError(t, err)

	assert.True(t, status.Aberto)
	require.NotNil(t, status.SaldoInicial)
	assert.True(t, status.SaldoInicial.Equal(dec("100")))

	// The opening balance must appear as the first ledger entry.
	require.Len(t, repo.movimentos, 1)
	mov := repo.movimentos[0]
	assert.Equal(t, model.MovimentoEntrada, mov.Tipo)
	assert.Equal(t, model.CategoriaSaldoInicial, mov.Categoria)
	assert.True(t, mov.Valor.Equal(dec("100")))
	assert.Equal(t, "Saldo Inicial", mov.Descricao)

	assert.Equal(t, []bool{true}, mirror.published)
}

func TestAbrirCaixa_SaldoNegativoRejeitado(t *testing.T) {
	svc, repo, _, _ := novoCaixaService()

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("-1")})
	assert.ErrorIs(t, err, service.ErrSaldoInicialInvalido)
	assert.Empty(t, repo.sessoes)
	assert.Empty(t, repo.movimentos)
}

func TestAbrirCaixa_SaldoZeroPermitido(t *testing.T) {
	svc, _, _, _ := novoCaixaService()

	status, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: decimal.Zero})
	require.NoError(t, err)
	assert.True(t, status.Aberto)
}

func TestAbrirCaixa_SegundaAberturaRejeitada(t *testing.T) {
	svc, _, _, _ := novoCaixaService()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("50")})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("80")})
	assert.ErrorIs(t, err, service.ErrCaixaJaAberto)
}

// Opening is all-or-nothing: a failing opening-movement insert must not
// leave a session without its Saldo Inicial ledger entry behind.
func TestAbrirCaixa_FalhaNoMovimentoNaoDeixaSessao(t *testing.T) {
	svc, repo, _, mirror := novoCaixaService()
	ctx := context.Background()
	repo.failMovimento = true

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("100")})
	require.Error(t, err)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Aberto)
	assert.Empty(t, repo.movimentos)
	assert.Empty(t, mirror.published)

	// A retry after the storage recovers opens normally.
	repo.failMovimento = false
	aberto, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("100")})
	require.NoError(t, err)
	assert.True(t, aberto.Aberto)
	require.Len(t, repo.movimentos, 1)
	assert.Equal(t, model.CategoriaSaldoInicial, repo.movimentos[0].Categoria)
}

func TestRegistrarMovimento_CaixaFechado(t *testing.T) {
	svc, repo, _, _ := novoCaixaService()

	err := svc.RegistrarMovimento(context.Background(), dto.MovimentoManualRequest{
		Tipo: "suprimento", Valor: dec("10"), Descricao: "troco extra",
	})
	assert.ErrorIs(t, err, service.ErrCaixaFechado)
	assert.Empty(t, repo.movimentos)
}

func TestRegistrarMovimento_ValorNaoPositivo(t *testing.T) {
	svc, _, _, _ := novoCaixaService()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("50")})
	require.NoError(t, err)

	err = svc.RegistrarMovimento(ctx, dto.MovimentoManualRequest{
		Tipo: "sangria", Valor: decimal.Zero, Descricao: "retirada",
	})
	assert.ErrorIs(t, err, service.ErrMovimentoInvalido)
}

func TestRegistrarMovimento_SuprimentoESangria(t *testing.T) {
	svc, repo, _, _ := novoCaixaService()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("50")})
	require.NoError(t, err)

	require.NoError(t, svc.RegistrarMovimento(ctx, dto.MovimentoManualRequest{
		Tipo: "suprimento", Valor: dec("20"), Descricao: "reforço de troco",
	}))
	require.NoError(t, svc.RegistrarMovimento(ctx, dto.MovimentoManualRequest{
		Tipo: "sangria", Valor: dec("15"), Descricao: "depósito no cofre",
	}))

	// saldo inicial + suprimento + sangria
	require.Len(t, repo.movimentos, 3)

	suprimento := repo.movimentos[1]
	assert.Equal(t, model.MovimentoEntrada, suprimento.Tipo)
	assert.Equal(t, model.CategoriaSuprimento, suprimento.Categoria)
	assert.True(t, suprimento.Valor.Equal(dec("20")))

	sangria := repo.movimentos[2]
	assert.Equal(t, model.MovimentoSaida, sangria.Tipo)
	assert.Equal(t, model.CategoriaSangria, sangria.Categoria)
	assert.True(t, sangria.Valor.Equal(dec("15")))
}

// Reconciliation: saldo esperado = saldo inicial + vendas em dinheiro +
// suprimentos + outras entradas − sangrias. Card and PIX sales stay out of
// the drawer.
func TestResumo_SaldoEsperado(t *testing.T) {
	svc, repo, _, _ := novoCaixaService()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("50")})
	require.NoError(t, err)
	sessao, err := svc.SessaoAberta(ctx)
	require.NoError(t, err)

	vendaMov := func(metodo, valor string) {
		m := metodo
		require.NoError(t, repo.CreateMovimento(ctx, &model.MovimentoCaixa{
			SessaoCaixaID:   sessao.ID,
			Tipo:            model.MovimentoEntrada,
			Categoria:       model.CategoriaVenda,
			MetodoPagamento: &m,
			Valor:           dec(valor),
			Descricao:       "Venda #1 (" + metodo + ")",
		}))
	}
	vendaMov(model.MetodoDinheiro, "30")
	vendaMov(model.MetodoDebito, "45.50")
	vendaMov(model.MetodoPix, "12")

	require.NoError(t, svc.RegistrarMovimento(ctx, dto.MovimentoManualRequest{
		Tipo: "sangria", Valor: dec("10"), Descricao: "depósito no cofre",
	}))

	resumo, err := svc.Resumo(ctx)
	require.NoError(t, err)

	assert.True(t, resumo.VendasDinheiro.Equal(dec("30")))
	assert.True(t, resumo.VendasDebito.Equal(dec("45.50")))
	assert.True(t, resumo.VendasCartao.Equal(dec("45.50")))
	assert.True(t, resumo.VendasPix.Equal(dec("12")))
	assert.True(t, resumo.Sangrias.Equal(dec("10")))
	// 50 + 30 − 10; débito e PIX não entram na gaveta
	assert.True(t, resumo.SaldoEsperado.Equal(dec("70")), "saldo esperado = %s", resumo.SaldoEsperado)

	// Pure aggregation: a second call yields the same result.
	segundo, err := svc.Resumo(ctx)
	require.NoError(t, err)
	assert.True(t, resumo.SaldoEsperado.Equal(segundo.SaldoEsperado))
}

func TestFecharCaixa_ComDivergencia(t *testing.T) {
	svc, _, carrinhos, mirror := novoCaixaService()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("100")})
	require.NoError(t, err)
	sessao, err := svc.SessaoAberta(ctx)
	require.NoError(t, err)

	// A pending cart must not survive the close.
	carrinhos.Obter(sessao.ID).Adicionar(uuid.New(), "Café", dec("5"))

	contado := dec("98.50")
	fechamento, err := svc.Fechar(ctx, dto.FecharCaixaRequest{SaldoContado: &contado})
	require.NoError(t, err)

	assert.True(t, fechamento.Resumo.SaldoEsperado.Equal(dec("100")))
	require.NotNil(t, fechamento.Divergencia)
	assert.True(t, fechamento.Divergencia.Equal(dec("-1.50")))

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Aberto)

	assert.Equal(t, []bool{true, false}, mirror.published)

	// A fresh cart after close must be empty.
	assert.True(t, carrinhos.Obter(sessao.ID).Vazio())

	// The till is closed: no further movements.
	err = svc.RegistrarMovimento(ctx, dto.MovimentoManualRequest{
		Tipo: "suprimento", Valor: dec("5"), Descricao: "tarde demais",
	})
	assert.ErrorIs(t, err, service.ErrCaixaFechado)
}

func TestFecharCaixa_SemSaldoContado(t *testing.T) {
	svc, _, _, _ := novoCaixaService()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{SaldoInicial: dec("40")})
	require.NoError(t, err)

	fechamento, err := svc.Fechar(ctx, dto.FecharCaixaRequest{})
	require.NoError(t, err)
	assert.Nil(t, fechamento.SaldoContado)
	assert.Nil(t, fechamento.Divergencia)
}

func TestStatus_CaixaFechado(t *testing.T) {
	svc, _, _, _ := novoCaixaService()

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Aberto)
	assert.Nil(t, status.SessaoID)
}

// A storage outage is not a closed till: Status must surface the error
// instead of answering {aberto: false}.
func TestStatus_ErroDeArmazenamentoNaoViraFechado(t *testing.T) {
	svc, repo, _, _ := novoCaixaService()
	repo.findErr = errors.New("connection refused")

	_, err := svc.Status(context.Background())
	require.Error(t, err)

	_, err = svc.SessaoAberta(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrCaixaFechado)
}
