package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"meipdv/internal/dto"
	"meipdv/internal/model"
	"meipdv/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const precoCacheTTL = 4 * time.Hour

// ProdutoService defines the business logic contract for the catalog.
type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	// ConsultarPreco serves the public barcode price check, cached in redis.
	// Read-only: no side effects beyond cache population.
	ConsultarPreco(ctx context.Context, barcode string) (*dto.PrecoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type produtoService struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewProdutoService(repo repository.ProdutoRepository, rdb *redis.Client) ProdutoService {
	return &produtoService{repo: repo, rdb: rdb}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	p := &model.Produto{
		SKU:          req.SKU,
		CodigoBarras: req.CodigoBarras,
		Nome:         req.Nome,
		Descricao:    req.Descricao,
		Tipo:         req.Tipo,
		Preco:        req.Preco,
		Ativo:        true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto não encontrado")
	}
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) ConsultarPreco(ctx context.Context, barcode string) (*dto.PrecoResponse, error) {
	cacheKey := "preco:" + barcode

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.PrecoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.New("produto não encontrado")
	}

	resp := dto.PrecoResponse{
		ProdutoID: p.ID.String(),
		Nome:      p.Nome,
		Preco:     p.Preco,
	}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, b, precoCacheTTL).Err()
		}
	}
	return &resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProdutoResponse, len(produtos))
	for i := range produtos {
		items[i] = produtoToResponse(&produtos[i])
	}
	return &dto.ProdutoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto não encontrado")
	}
	if req.Nome != "" {
		p.Nome = req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Preco != nil {
		p.Preco = *req.Preco
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarPreco(ctx, p)
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("produto não encontrado")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarPreco(ctx, p)
	return nil
}

// invalidarPreco drops the cached price entry after a price change or
// deactivation so the public endpoint never serves stale data for 4h.
func (s *produtoService) invalidarPreco(ctx context.Context, p *model.Produto) {
	if s.rdb == nil || p.CodigoBarras == nil {
		return
	}
	_ = s.rdb.Del(ctx, "preco:"+*p.CodigoBarras).Err()
}

func produtoToResponse(p *model.Produto) dto.ProdutoResponse {
	return dto.ProdutoResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		CodigoBarras: p.CodigoBarras,
		Nome:         p.Nome,
		Descricao:    p.Descricao,
		Tipo:         p.Tipo,
		Preco:        p.Preco,
		Ativo:        p.Ativo,
	}
}
