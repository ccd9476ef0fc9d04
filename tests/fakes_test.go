package tests

// Shared in-memory repository fakes used by the service-level tests.
// Each fake satisfies its repository interface (compile-time checked below)
// and keeps everything in plain maps/slices — no DB, no redis.

import (
	"context"
	"errors"
	"strings"
	"time"

	"meipdv/internal/dto"
	"meipdv/internal/model"
	"meipdv/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── CaixaRepository ──────────────────────────────────────────────────────────

type fakeCaixaRepo struct {
	sessoes       map[uuid.UUID]*model.SessaoCaixa
	movimentos    []model.MovimentoCaixa
	findErr       error // simulate a storage failure on FindSessaoAberta
	failMovimento bool  // simulate a failing movement insert
}

var _ repository.CaixaRepository = (*fakeCaixaRepo)(nil)

func newFakeCaixaRepo() *fakeCaixaRepo {
	return &fakeCaixaRepo{sessoes: make(map[uuid.UUID]*model.SessaoCaixa)}
}

// DB returns nil so the service runs transaction bodies directly; the fake
// emulates the rollback by dropping the session when the movement fails.
func (r *fakeCaixaRepo) DB() *gorm.DB { return nil }

func (r *fakeCaixaRepo) CreateSessaoTx(_ *gorm.DB, s *model.SessaoCaixa) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessoes[s.ID] = s
	return nil
}

func (r *fakeCaixaRepo) FindSessaoAberta(_ context.Context) (*model.SessaoCaixa, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, s := range r.sessoes {
		if s.Estado == model.SessaoAberta {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCaixaRepo) FindSessaoByID(_ context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	s, ok := r.sessoes[id]
	if !ok {
		return nil, errNotFound
	}
	s.Movimentos = nil
	for _, m := range r.movimentos {
		if m.SessaoCaixaID == id {
			s.Movimentos = append(s.Movimentos, m)
		}
	}
	return s, nil
}

func (r *fakeCaixaRepo) UpdateSessao(_ context.Context, s *model.SessaoCaixa) error {
	r.sessoes[s.ID] = s
	return nil
}

func (r *fakeCaixaRepo) CreateMovimento(_ context.Context, m *model.MovimentoCaixa) error {
	return r.CreateMovimentoTx(nil, m)
}

func (r *fakeCaixaRepo) CreateMovimentoTx(_ *gorm.DB, m *model.MovimentoCaixa) error {
	if r.failMovimento {
		// A saldo-inicial movement is only ever written in the same
		// transaction as its session, so failing it rolls the session back.
		if m.Categoria == model.CategoriaSaldoInicial {
			delete(r.sessoes, m.SessaoCaixaID)
		}
		return errors.New("insert failed")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *fakeCaixaRepo) ListMovimentos(_ context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error) {
	var result []model.MovimentoCaixa
	for _, m := range r.movimentos {
		if m.SessaoCaixaID == sessaoID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeCaixaRepo) ListSessoes(_ context.Context, _, _ int) ([]model.SessaoCaixa, int64, error) {
	var result []model.SessaoCaixa
	for _, s := range r.sessoes {
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

// ── VendaRepository ──────────────────────────────────────────────────────────

type fakeVendaRepo struct {
	vendas     map[uuid.UUID]*model.Venda
	nextTicket int
	failCreate bool // simulate a DB failure inside the transaction
}

var _ repository.VendaRepository = (*fakeVendaRepo)(nil)

func newFakeVendaRepo() *fakeVendaRepo {
	return &fakeVendaRepo{vendas: make(map[uuid.UUID]*model.Venda), nextTicket: 1}
}

// DB returns nil so the service runs the transaction body directly.
func (r *fakeVendaRepo) DB() *gorm.DB { return nil }

func (r *fakeVendaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venda) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.NumeroTicket = r.nextTicket
	r.nextTicket++
	v.CreatedAt = time.Now()
	r.vendas[v.ID] = v
	return nil
}

func (r *fakeVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, errNotFound
	}
	return v, nil
}

func (r *fakeVendaRepo) List(_ context.Context, _ dto.VendaFilter) ([]model.Venda, int64, error) {
	var result []model.Venda
	for _, v := range r.vendas {
		result = append(result, *v)
	}
	return result, int64(len(result)), nil
}

// ── ProdutoRepository ────────────────────────────────────────────────────────

type fakeProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

var _ repository.ProdutoRepository = (*fakeProdutoRepo)(nil)

func newFakeProdutoRepo() *fakeProdutoRepo {
	return &fakeProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *fakeProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *fakeProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *fakeProdutoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.CodigoBarras != nil && *p.CodigoBarras == barcode && p.Ativo {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeProdutoRepo) List(_ context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var result []model.Produto
	for _, p := range r.produtos {
		if !p.Ativo {
			continue
		}
		if filter.Busca != "" && !strings.Contains(strings.ToLower(p.Nome), strings.ToLower(filter.Busca)) {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *fakeProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *fakeProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = false
	}
	return nil
}

// ── ClienteRepository ────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *fakeClienteRepo) FindByDocumento(_ context.Context, documento string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Documento == documento {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var result []model.Cliente
	for _, c := range r.clientes {
		if c.Ativo {
			result = append(result, *c)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Ativo = false
	}
	return nil
}

// ── UsuarioRepository ────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Ativo {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var result []model.Usuario
	for _, u := range r.usuarios {
		if u.Ativo {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = false
	}
	return nil
}

// ── StatusMirror ─────────────────────────────────────────────────────────────

// fakeMirror records every published status transition.
type fakeMirror struct {
	published []bool
}

func (m *fakeMirror) Publicar(_ context.Context, aberto bool, _ *time.Time) {
	m.published = append(m.published, aberto)
}
