package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AdicionarItemRequest struct {
	ProdutoID string `json:"produto_id" validate:"required,uuid"`
}

type DefinirQuantidadeRequest struct {
	// Quantidade ≤ 0 removes the line.
	Quantidade int `json:"quantidade"`
}

type SelecionarClienteRequest struct {
	// ClienteID nil/absent deselects the customer.
	ClienteID *string `json:"cliente_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCarrinhoResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Nome          string          `json:"nome"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Quantidade    int             `json:"quantidade"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CarrinhoResponse struct {
	Itens     []ItemCarrinhoResponse `json:"itens"`
	Total     decimal.Decimal        `json:"total"`
	ClienteID *string                `json:"cliente_id,omitempty"`
}
