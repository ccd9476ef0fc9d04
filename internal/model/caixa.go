package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de sessão de caixa.
const (
	SessaoAberta  = "aberta"
	SessaoFechada = "fechada"
)

// Tipos de movimento.
const (
	MovimentoEntrada = "entrada"
	MovimentoSaida   = "saida"
)

// Categorias estruturadas de movimento. The free-text Descricao is a display
// label only; reconciliation always aggregates over Categoria + MetodoPagamento.
const (
	CategoriaSaldoInicial = "saldo_inicial"
	CategoriaVenda        = "venda"
	CategoriaSuprimento   = "suprimento"
	CategoriaSangria      = "sangria"
	CategoriaOutros       = "outros"
)

// SessaoCaixa represents the lifecycle of one till session.
// Estado: "aberta" | "fechada"
type SessaoCaixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	SaldoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// SaldoEsperado is computed at close from the movement ledger.
	SaldoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// SaldoContado is the cash physically counted by the operator at close.
	SaldoContado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Divergencia  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado       string           `gorm:"type:varchar(20);not null;default:'aberta'"`
	AbertaEm     time.Time
	FechadaEm    *time.Time

	Movimentos []MovimentoCaixa `gorm:"foreignKey:SessaoCaixaID"`
}

// MovimentoCaixa is an immutable event in the till ledger.
// Tipo: "entrada" | "saida" — Valor is always positive; the sign lives in Tipo.
// Movements are NEVER updated or deleted once appended.
type MovimentoCaixa struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessaoCaixaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo          string    `gorm:"type:varchar(10);not null"`
	Categoria     string    `gorm:"type:varchar(20);not null"`
	// MetodoPagamento is set only for movements of categoria "venda":
	// "dinheiro" | "debito" | "credito" | "pix"
	MetodoPagamento *string         `gorm:"type:varchar(20)"`
	Valor           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao       string          `gorm:"not null"`
	// ReferenciaID links to the originating Venda for categoria "venda".
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}
