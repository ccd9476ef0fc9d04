package dto

// ClienteFilter is bound from query string of GET /v1/clientes.
// Busca matches nome or documento (CPF/CNPJ) by substring.
type ClienteFilter struct {
	Busca string `form:"busca"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CriarClienteRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=150"`
	Documento string  `json:"documento" validate:"required,numeric,min=11,max=14"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefone  *string `json:"telefone"  validate:"omitempty,min=8,max=20"`
}

type AtualizarClienteRequest struct {
	Nome     string  `json:"nome"     validate:"omitempty,min=2,max=150"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefone *string `json:"telefone" validate:"omitempty,min=8,max=20"`
}

type ClienteResponse struct {
	ID         string  `json:"id"`
	Nome       string  `json:"nome"`
	Documento  string  `json:"documento"`
	TipoPessoa string  `json:"tipo_pessoa"`
	Email      *string `json:"email"`
	Telefone   *string `json:"telefone"`
	Ativo      bool    `json:"ativo"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
