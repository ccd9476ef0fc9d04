package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de item do catálogo.
const (
	TipoProduto = "produto"
	TipoServico = "servico"
)

// Produto is one catalog entry — a physical product or a service. The PDV
// only reads {id, nome, preco}-shaped records from it; stock control lives
// outside this system.
type Produto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU          string    `gorm:"uniqueIndex;not null;column:sku"`
	CodigoBarras *string   `gorm:"uniqueIndex"`
	Nome         string    `gorm:"index;not null"`
	Descricao    *string
	Tipo         string          `gorm:"type:varchar(10);not null;default:'produto'"`
	Preco        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Ativo        bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
