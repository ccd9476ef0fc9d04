package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VendaFilter is bound from query string of GET /v1/vendas.
type VendaFilter struct {
	Data  string `form:"data"` // YYYY-MM-DD; empty = today
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type FinalizarVendaRequest struct {
	MetodoPagamento string `json:"metodo_pagamento" validate:"required,oneof=dinheiro debito credito pix"`
	// ValorPago is required for pagamento em dinheiro and ignored otherwise.
	ValorPago *decimal.Decimal `json:"valor_pago" validate:"omitempty"`
	// ClienteID overrides the customer selected on the cart, when present.
	ClienteID *string `json:"cliente_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Nome          string          `json:"nome"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID              string              `json:"id"`
	NumeroTicket    int                 `json:"numero_ticket"`
	Itens           []ItemVendaResponse `json:"itens"`
	Total           decimal.Decimal     `json:"total"`
	MetodoPagamento string              `json:"metodo_pagamento"`
	ValorPago       *decimal.Decimal    `json:"valor_pago,omitempty"`
	Troco           *decimal.Decimal    `json:"troco,omitempty"`
	Cliente         *string             `json:"cliente,omitempty"`
	CreatedAt       string              `json:"created_at"`
}
