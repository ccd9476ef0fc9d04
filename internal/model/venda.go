package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metodos de pagamento aceitos no PDV.
const (
	MetodoDinheiro = "dinheiro"
	MetodoDebito   = "debito"
	MetodoCredito  = "credito"
	MetodoPix      = "pix"
)

// Venda is a finalized sale. Immutable after creation: items are a deep
// snapshot of the cart at finalization time, never live references.
type Venda struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket    int             `gorm:"autoIncrement;uniqueIndex;not null"`
	SessaoCaixaID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID       uuid.UUID       `gorm:"type:uuid;not null"`
	ClienteID       *uuid.UUID      `gorm:"type:uuid;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPagamento string          `gorm:"type:varchar(20);not null"`
	// ValorPago / Troco are set only for pagamento em dinheiro.
	ValorPago *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Troco     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt time.Time

	Itens   []VendaItem `gorm:"foreignKey:VendaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
}

// VendaItem is one snapshotted cart line. Nome and PrecoUnitario are copied
// from the catalog at sale time so later price changes cannot rewrite history.
type VendaItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Nome          string          `gorm:"not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName overrides GORM's default pluralization (venda_items → venda_itens).
func (VendaItem) TableName() string { return "venda_itens" }
