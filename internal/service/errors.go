package service

import "errors"

// Operator-recoverable validation failures of the PDV workflow. Handlers map
// them to 4xx responses; none leaves partial state behind.
var (
	// ErrCaixaFechado rejects any cart or sale mutation while no till
	// session is open.
	ErrCaixaFechado = errors.New("não há caixa aberto")

	// ErrCaixaJaAberto rejects a second open() while a session is active.
	ErrCaixaJaAberto = errors.New("já existe um caixa aberto")

	// ErrSaldoInicialInvalido rejects opening the till with a negative balance.
	ErrSaldoInicialInvalido = errors.New("saldo inicial não pode ser negativo")

	// ErrMovimentoInvalido rejects manual movements with valor ≤ 0.
	ErrMovimentoInvalido = errors.New("valor do movimento deve ser maior que zero")

	// ErrVendaInvalida rejects finalizing an empty or zero-value cart.
	ErrVendaInvalida = errors.New("venda sem itens ou com total zerado")

	// ErrPagamentoInsuficiente rejects cash payments below the sale total.
	ErrPagamentoInsuficiente = errors.New("valor pago é menor que o total da venda")
)
