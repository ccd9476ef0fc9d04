package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PessoaFisica   = "fisica"
	PessoaJuridica = "juridica"
)

// Cliente is one entry in the customer directory. Documento holds a CPF
// (pessoa física) or CNPJ (pessoa jurídica), digits only.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"index;not null"`
	Documento string    `gorm:"uniqueIndex;not null"`
	// TipoPessoa: "fisica" | "juridica" — derived from the document length at creation
	TipoPessoa string `gorm:"type:varchar(10);not null"`
	Email      *string
	Telefone   *string
	Ativo      bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
