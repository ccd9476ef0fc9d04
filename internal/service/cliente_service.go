package service

import (
	"context"
	"errors"

	"meipdv/internal/dto"
	"meipdv/internal/model"
	"meipdv/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	BuscarPorDocumento(ctx context.Context, documento string) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	tipoPessoa, err := classificarDocumento(req.Documento)
	if err != nil {
		return nil, err
	}
	if existente, err := s.repo.FindByDocumento(ctx, req.Documento); err == nil && existente != nil {
		return nil, errors.New("já existe um cliente com este documento")
	}
	c := &model.Cliente{
		Nome:       req.Nome,
		Documento:  req.Documento,
		TipoPessoa: tipoPessoa,
		Email:      req.Email,
		Telefone:   req.Telefone,
		Ativo:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

// classificarDocumento derives the person type from the document length:
// CPF has 11 digits (pessoa física), CNPJ has 14 (pessoa jurídica).
// The DTO validation already guarantees the string is numeric.
func classificarDocumento(documento string) (string, error) {
	switch len(documento) {
	case 11:
		return model.PessoaFisica, nil
	case 14:
		return model.PessoaJuridica, nil
	default:
		return "", errors.New("documento deve ter 11 dígitos (CPF) ou 14 (CNPJ)")
	}
}

func (s *clienteService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente não encontrado")
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) BuscarPorDocumento(ctx context.Context, documento string) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByDocumento(ctx, documento)
	if err != nil {
		return nil, errors.New("cliente não encontrado")
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		items[i] = clienteToResponse(&clientes[i])
	}
	return &dto.ClienteListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente não encontrado")
	}
	if req.Nome != "" {
		c.Nome = req.Nome
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Telefone != nil {
		c.Telefone = req.Telefone
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Desativar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:         c.ID.String(),
		Nome:       c.Nome,
		Documento:  c.Documento,
		TipoPessoa: c.TipoPessoa,
		Email:      c.Email,
		Telefone:   c.Telefone,
		Ativo:      c.Ativo,
	}
}
