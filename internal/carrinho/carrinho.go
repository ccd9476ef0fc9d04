// Package carrinho holds the in-memory cart of the active sale workflow.
// The cart is owned exclusively by the open till session: it lives in process
// memory, is guarded by a mutex (several terminals may hit the same HTTP
// service), and is emptied on sale finalization, explicit cancellation, or
// session close. It is never persisted — a finalized Venda snapshots it.
package carrinho

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. PrecoUnitario and Nome are resolved from the catalog
// when the line is added, so the cart never reaches back into the catalog.
type Item struct {
	ProdutoID     uuid.UUID
	Nome          string
	PrecoUnitario decimal.Decimal
	Quantidade    int
}

// Subtotal returns PrecoUnitario × Quantidade.
func (i Item) Subtotal() decimal.Decimal {
	return i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}

// Carrinho is an ordered collection of line items keyed by product id.
// Insertion order is preserved for display. All methods are safe for
// concurrent use.
type Carrinho struct {
	mu        sync.Mutex
	itens     []Item
	idx       map[uuid.UUID]int
	clienteID *uuid.UUID
}

func Novo() *Carrinho {
	return &Carrinho{idx: make(map[uuid.UUID]int)}
}

// Adicionar appends a new line with quantity 1, or increments the quantity
// by 1 when a line with the same product id already exists.
func (c *Carrinho) Adicionar(produtoID uuid.UUID, nome string, preco decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pos, ok := c.idx[produtoID]; ok {
		c.itens[pos].Quantidade++
		return
	}
	c.idx[produtoID] = len(c.itens)
	c.itens = append(c.itens, Item{
		ProdutoID:     produtoID,
		Nome:          nome,
		PrecoUnitario: preco,
		Quantidade:    1,
	})
}

// DefinirQuantidade sets the quantity of an existing line. A quantity ≤ 0
// removes the line. An absent product id is a silent no-op, so retries and
// stale UI actions are idempotent.
func (c *Carrinho) DefinirQuantidade(produtoID uuid.UUID, quantidade int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.idx[produtoID]
	if !ok {
		return
	}
	if quantidade <= 0 {
		c.removerEm(pos)
		return
	}
	c.itens[pos].Quantidade = quantidade
}

// Remover deletes a line entirely. Absent id is a no-op.
func (c *Carrinho) Remover(produtoID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pos, ok := c.idx[produtoID]; ok {
		c.removerEm(pos)
	}
}

// removerEm must be called under c.mu.
func (c *Carrinho) removerEm(pos int) {
	removido := c.itens[pos].ProdutoID
	c.itens = append(c.itens[:pos], c.itens[pos+1:]...)
	delete(c.idx, removido)
	for i := pos; i < len(c.itens); i++ {
		c.idx[c.itens[i].ProdutoID] = i
	}
}

// Limpar empties all lines and deselects the customer.
func (c *Carrinho) Limpar() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itens = nil
	c.idx = make(map[uuid.UUID]int)
	c.clienteID = nil
}

// Total recomputes Σ preco × quantidade on every call — never cached.
func (c *Carrinho) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.itens {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Itens returns a deep copy of the lines in insertion order. Callers may
// mutate the returned slice freely; the cart is unaffected.
func (c *Carrinho) Itens() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.itens))
	copy(out, c.itens)
	return out
}

// Vazio reports whether the cart has no lines.
func (c *Carrinho) Vazio() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.itens) == 0
}

// Consumir runs fn over a consistent snapshot of the cart: lines (deep
// copy), total computed from that same snapshot, and the selected customer.
// The cart lock is held for the whole call, so no mutation can land between
// snapshot and clear and at most one finalization is in flight per cart.
// The cart is emptied only when fn returns nil; on error every line and the
// customer selection survive untouched. fn must not call back into the cart.
func (c *Carrinho) Consumir(fn func(itens []Item, total decimal.Decimal, clienteID *uuid.UUID) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	itens := make([]Item, len(c.itens))
	copy(itens, c.itens)
	total := decimal.Zero
	for _, item := range itens {
		total = total.Add(item.Subtotal())
	}
	var clienteID *uuid.UUID
	if c.clienteID != nil {
		id := *c.clienteID
		clienteID = &id
	}

	if err := fn(itens, total, clienteID); err != nil {
		return err
	}
	c.itens = nil
	c.idx = make(map[uuid.UUID]int)
	c.clienteID = nil
	return nil
}

// SelecionarCliente attaches an optional customer reference to the pending
// sale. nil deselects.
func (c *Carrinho) SelecionarCliente(id *uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clienteID = id
}

// ClienteID returns the currently selected customer, or nil.
func (c *Carrinho) ClienteID() *uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clienteID == nil {
		return nil
	}
	id := *c.clienteID
	return &id
}

// Store maps till sessions to their carts. It exists so the cart survives
// across requests while the session is open and is dropped at close.
type Store struct {
	mu       sync.Mutex
	porSesso map[uuid.UUID]*Carrinho
}

func NewStore() *Store {
	return &Store{porSesso: make(map[uuid.UUID]*Carrinho)}
}

// Obter returns the cart for a session, creating it on first access.
func (s *Store) Obter(sessaoID uuid.UUID) *Carrinho {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.porSesso[sessaoID]
	if !ok {
		c = Novo()
		s.porSesso[sessaoID] = c
	}
	return c
}

// Descartar drops the cart of a closed session.
func (s *Store) Descartar(sessaoID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.porSesso, sessaoID)
}
