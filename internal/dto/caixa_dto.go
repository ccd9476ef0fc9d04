package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
}

type MovimentoManualRequest struct {
	// Tipo: suprimento deposits cash into the till, sangria withdraws from it.
	Tipo      string          `json:"tipo"      validate:"required,oneof=suprimento sangria"`
	Valor     decimal.Decimal `json:"valor"     validate:"required,gt=0"`
	Descricao string          `json:"descricao" validate:"required,min=3"`
}

type FecharCaixaRequest struct {
	// SaldoContado is the cash physically counted by the operator; optional.
	// When present, the close response reports the divergence against the
	// expected balance.
	SaldoContado *decimal.Decimal `json:"saldo_contado" validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentoResponse struct {
	ID              string          `json:"id"`
	Tipo            string          `json:"tipo"`
	Categoria       string          `json:"categoria"`
	MetodoPagamento *string         `json:"metodo_pagamento,omitempty"`
	Valor           decimal.Decimal `json:"valor"`
	Descricao       string          `json:"descricao"`
	CreatedAt       string          `json:"created_at"`
}

type StatusCaixaResponse struct {
	Aberto       bool                `json:"aberto"`
	SessaoID     *string             `json:"sessao_id,omitempty"`
	SaldoInicial *decimal.Decimal    `json:"saldo_inicial,omitempty"`
	AbertaEm     *string             `json:"aberta_em,omitempty"`
	Movimentos   []MovimentoResponse `json:"movimentos,omitempty"`
}

// ResumoCaixaResponse is the reconciliation summary over the session ledger.
// Pure aggregation — computing it twice without intervening movements yields
// identical results.
type ResumoCaixaResponse struct {
	SessaoID       string          `json:"sessao_id"`
	SaldoInicial   decimal.Decimal `json:"saldo_inicial"`
	VendasDinheiro decimal.Decimal `json:"vendas_dinheiro"`
	VendasDebito   decimal.Decimal `json:"vendas_debito"`
	VendasCredito  decimal.Decimal `json:"vendas_credito"`
	VendasCartao   decimal.Decimal `json:"vendas_cartao"`
	VendasPix      decimal.Decimal `json:"vendas_pix"`
	Suprimentos    decimal.Decimal `json:"suprimentos"`
	Sangrias       decimal.Decimal `json:"sangrias"`
	OutrasEntradas decimal.Decimal `json:"outras_entradas"`
	// SaldoEsperado = saldo inicial + vendas em dinheiro + suprimentos +
	// outras entradas − sangrias. Card and PIX sales never touch the drawer.
	SaldoEsperado decimal.Decimal `json:"saldo_esperado"`
}

type FechamentoResponse struct {
	Resumo       ResumoCaixaResponse `json:"resumo"`
	SaldoContado *decimal.Decimal    `json:"saldo_contado,omitempty"`
	// Divergencia = saldo contado − saldo esperado (present only when the
	// operator declared a counted amount).
	Divergencia *decimal.Decimal `json:"divergencia,omitempty"`
	FechadaEm   string           `json:"fechada_em"`
}

type SessaoCaixaListItem struct {
	ID            string           `json:"id"`
	SaldoInicial  decimal.Decimal  `json:"saldo_inicial"`
	SaldoEsperado *decimal.Decimal `json:"saldo_esperado"`
	SaldoContado  *decimal.Decimal `json:"saldo_contado"`
	Divergencia   *decimal.Decimal `json:"divergencia"`
	Estado        string           `json:"estado"`
	AbertaEm      string           `json:"aberta_em"`
	FechadaEm     *string          `json:"fechada_em"`
}
