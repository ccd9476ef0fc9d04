package dto

import "github.com/shopspring/decimal"

// ProdutoFilter is bound from query string of GET /v1/produtos.
// Busca matches nome, SKU or barcode by substring.
type ProdutoFilter struct {
	Busca string `form:"busca"`
	Tipo  string `form:"tipo" validate:"omitempty,oneof=produto servico"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CriarProdutoRequest struct {
	SKU          string          `json:"sku"           validate:"required,min=1,max=40"`
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty,min=8,max=14"`
	Nome         string          `json:"nome"          validate:"required,min=2,max=150"`
	Descricao    *string         `json:"descricao"`
	Tipo         string          `json:"tipo"  validate:"required,oneof=produto servico"`
	Preco        decimal.Decimal `json:"preco" validate:"required,gt=0"`
}

type AtualizarProdutoRequest struct {
	Nome      string           `json:"nome"      validate:"omitempty,min=2,max=150"`
	Descricao *string          `json:"descricao"`
	Preco     *decimal.Decimal `json:"preco" validate:"omitempty,gt=0"`
}

type ProdutoResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	CodigoBarras *string         `json:"codigo_barras"`
	Nome         string          `json:"nome"`
	Descricao    *string         `json:"descricao"`
	Tipo         string          `json:"tipo"`
	Preco        decimal.Decimal `json:"preco"`
	Ativo        bool            `json:"ativo"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PrecoResponse is the public barcode price-check payload (cached in redis).
type PrecoResponse struct {
	ProdutoID string          `json:"produto_id"`
	Nome      string          `json:"nome"`
	Preco     decimal.Decimal `json:"preco"`
}
