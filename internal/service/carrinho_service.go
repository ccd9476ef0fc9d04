package service

import (
	"context"
	"fmt"

	"meipdv/internal/carrinho"
	"meipdv/internal/dto"
	"meipdv/internal/repository"

	"github.com/google/uuid"
)

type CarrinhoService interface {
	AdicionarItem(ctx context.Context, req dto.AdicionarItemRequest) (*dto.CarrinhoResponse, error)
	DefinirQuantidade(ctx context.Context, produtoID uuid.UUID, quantidade int) (*dto.CarrinhoResponse, error)
	RemoverItem(ctx context.Context, produtoID uuid.UUID) (*dto.CarrinhoResponse, error)
	SelecionarCliente(ctx context.Context, req dto.SelecionarClienteRequest) error
	// Cancelar empties the cart without finalizing a sale.
	Cancelar(ctx context.Context) error
	Obter(ctx context.Context) (*dto.CarrinhoResponse, error)
}

type carrinhoService struct {
	carrinhos   *carrinho.Store
	caixa       CaixaService
	produtoRepo repository.ProdutoRepository
	clienteRepo repository.ClienteRepository
}

func NewCarrinhoService(
	carrinhos *carrinho.Store,
	caixa CaixaService,
	produtoRepo repository.ProdutoRepository,
	clienteRepo repository.ClienteRepository,
) CarrinhoService {
	return &carrinhoService{
		carrinhos:   carrinhos,
		caixa:       caixa,
		produtoRepo: produtoRepo,
		clienteRepo: clienteRepo,
	}
}

// ativo returns the cart of the open session, or ErrCaixaFechado: every
// cart mutation first requires an open till.
func (s *carrinhoService) ativo(ctx context.Context) (*carrinho.Carrinho, error) {
	sessao, err := s.caixa.SessaoAberta(ctx)
	if err != nil {
		return nil, err
	}
	return s.carrinhos.Obter(sessao.ID), nil
}

func (s *carrinhoService) AdicionarItem(ctx context.Context, req dto.AdicionarItemRequest) (*dto.CarrinhoResponse, error) {
	c, err := s.ativo(ctx)
	if err != nil {
		return nil, err
	}

	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return nil, fmt.Errorf("produto_id inválido: %w", err)
	}
	// The catalog is the only price source; the cart snapshots nome + preco
	// at add time.
	p, err := s.produtoRepo.FindByID(ctx, produtoID)
	if err != nil {
		return nil, fmt.Errorf("produto %s não encontrado", req.ProdutoID)
	}
	if !p.Ativo {
		return nil, fmt.Errorf("produto %s está inativo e não pode ser vendido", p.Nome)
	}

	c.Adicionar(p.ID, p.Nome, p.Preco)
	return carrinhoToResponse(c), nil
}

func (s *carrinhoService) DefinirQuantidade(ctx context.Context, produtoID uuid.UUID, quantidade int) (*dto.CarrinhoResponse, error) {
	c, err := s.ativo(ctx)
	if err != nil {
		return nil, err
	}
	c.DefinirQuantidade(produtoID, quantidade)
	return carrinhoToResponse(c), nil
}

func (s *carrinhoService) RemoverItem(ctx context.Context, produtoID uuid.UUID) (*dto.CarrinhoResponse, error) {
	c, err := s.ativo(ctx)
	if err != nil {
		return nil, err
	}
	c.Remover(produtoID)
	return carrinhoToResponse(c), nil
}

func (s *carrinhoService) SelecionarCliente(ctx context.Context, req dto.SelecionarClienteRequest) error {
	c, err := s.ativo(ctx)
	if err != nil {
		return err
	}
	if req.ClienteID == nil {
		c.SelecionarCliente(nil)
		return nil
	}

	clienteID, err := uuid.Parse(*req.ClienteID)
	if err != nil {
		return fmt.Errorf("cliente_id inválido: %w", err)
	}
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		return fmt.Errorf("cliente %s não encontrado", *req.ClienteID)
	}
	c.SelecionarCliente(&clienteID)
	return nil
}

func (s *carrinhoService) Cancelar(ctx context.Context) error {
	c, err := s.ativo(ctx)
	if err != nil {
		return err
	}
	c.Limpar()
	return nil
}

func (s *carrinhoService) Obter(ctx context.Context) (*dto.CarrinhoResponse, error) {
	c, err := s.ativo(ctx)
	if err != nil {
		return nil, err
	}
	return carrinhoToResponse(c), nil
}

func carrinhoToResponse(c *carrinho.Carrinho) *dto.CarrinhoResponse {
	itens := c.Itens()
	resp := &dto.CarrinhoResponse{
		Itens: make([]dto.ItemCarrinhoResponse, 0, len(itens)),
		Total: c.Total(),
	}
	for _, item := range itens {
		resp.Itens = append(resp.Itens, dto.ItemCarrinhoResponse{
			ProdutoID:     item.ProdutoID.String(),
			Nome:          item.Nome,
			PrecoUnitario: item.PrecoUnitario,
			Quantidade:    item.Quantidade,
			Subtotal:      item.Subtotal(),
		})
	}
	if id := c.ClienteID(); id != nil {
		str := id.String()
		resp.ClienteID = &str
	}
	return resp
}
