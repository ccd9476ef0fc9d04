package service

import (
	"context"
	"errors"
	"time"

	"meipdv/internal/carrinho"
	"meipdv/internal/dto"
	"meipdv/internal/metrics"
	"meipdv/internal/model"
	"meipdv/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusMirror publishes till open/close transitions to the external
// key-value store so other views can reflect till status. Never
// authoritative — implementations must not fail the workflow.
type StatusMirror interface {
	Publicar(ctx context.Context, aberto bool, abertura *time.Time)
}

type CaixaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.StatusCaixaResponse, error)
	Status(ctx context.Context) (*dto.StatusCaixaResponse, error)
	RegistrarMovimento(ctx context.Context, req dto.MovimentoManualRequest) error
	// Resumo is the pure reconciliation aggregation; it is shown to the
	// operator before Fechar is allowed to proceed.
	Resumo(ctx context.Context) (*dto.ResumoCaixaResponse, error)
	Fechar(ctx context.Context, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error)
	Historico(ctx context.Context, page, limit int) ([]dto.SessaoCaixaListItem, int64, error)
	// SessaoAberta is called by the cart and sale services to validate an
	// open session. Returns ErrCaixaFechado when the till is closed.
	SessaoAberta(ctx context.Context) (*model.SessaoCaixa, error)
}

type caixaService struct {
	repo      repository.CaixaRepository
	carrinhos *carrinho.Store
	mirror    StatusMirror
}

func NewCaixaService(repo repository.CaixaRepository, carrinhos *carrinho.Store, mirror StatusMirror) CaixaService {
	return &caixaService{repo: repo, carrinhos: carrinhos, mirror: mirror}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.StatusCaixaResponse, error) {
	if req.SaldoInicial.IsNegative() {
		return nil, ErrSaldoInicialInvalido
	}
	// Guard: single till — no duplicate open session
	if existente, err := s.repo.FindSessaoAberta(ctx); err == nil && existente != nil {
		return nil, ErrCaixaJaAberto
	}

	agora := time.Now()
	sessao := &model.SessaoCaixa{
		UsuarioID:    usuarioID,
		SaldoInicial: req.SaldoInicial,
		Estado:       model.SessaoAberta,
		AbertaEm:     agora,
	}

	// Session row and its opening ledger entry commit or fail together:
	// an open session without the Saldo Inicial movement would skew every
	// later reconciliation.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateSessaoTx(tx, sessao); err != nil {
			return err
		}
		abertura := &model.MovimentoCaixa{
			SessaoCaixaID: sessao.ID,
			Tipo:          model.MovimentoEntrada,
			Categoria:     model.CategoriaSaldoInicial,
			Valor:         req.SaldoInicial,
			Descricao:     "Saldo Inicial",
		}
		return s.repo.CreateMovimentoTx(tx, abertura)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.mirror != nil {
		s.mirror.Publicar(ctx, true, &agora)
	}
	metrics.CaixaAberturas.Inc()

	return s.buildStatus(ctx, sessao)
}

// ── Status ────────────────────────────────────────────────────────────────────

func (s *caixaService) Status(ctx context.Context) (*dto.StatusCaixaResponse, error) {
	sessao, err := s.repo.FindSessaoAberta(ctx)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && sessao == nil):
		return &dto.StatusCaixaResponse{Aberto: false}, nil
	case err != nil:
		// A storage failure is not a closed till; surface it.
		return nil, err
	}
	return s.buildStatus(ctx, sessao)
}

// ── RegistrarMovimento ────────────────────────────────────────────────────────
// Suprimento / sangria. Movements are immutable — there is no update/delete.

func (s *caixaService) RegistrarMovimento(ctx context.Context, req dto.MovimentoManualRequest) error {
	sessao, err := s.SessaoAberta(ctx)
	if err != nil {
		return err
	}
	if !req.Valor.IsPositive() {
		return ErrMovimentoInvalido
	}

	tipo := model.MovimentoEntrada
	categoria := model.CategoriaSuprimento
	if req.Tipo == "sangria" {
		tipo = model.MovimentoSaida
		categoria = model.CategoriaSangria
	}

	mov := &model.MovimentoCaixa{
		SessaoCaixaID: sessao.ID,
		Tipo:          tipo,
		Categoria:     categoria,
		Valor:         req.Valor,
		Descricao:     req.Descricao,
	}
	return s.repo.CreateMovimento(ctx, mov)
}

// ── Resumo ────────────────────────────────────────────────────────────────────

func (s *caixaService) Resumo(ctx context.Context) (*dto.ResumoCaixaResponse, error) {
	sessao, err := s.SessaoAberta(ctx)
	if err != nil {
		return nil, err
	}
	movimentos, err := s.repo.ListMovimentos(ctx, sessao.ID)
	if err != nil {
		return nil, err
	}
	resumo := resumirSessao(sessao, movimentos)
	return &resumo, nil
}

// resumirSessao aggregates the ledger into the reconciliation summary using
// the structured Categoria and MetodoPagamento fields. Descricao is never
// inspected here — it is a display label only.
func resumirSessao(sessao *model.SessaoCaixa, movimentos []model.MovimentoCaixa) dto.ResumoCaixaResponse {
	resumo := dto.ResumoCaixaResponse{
		SessaoID:       sessao.ID.String(),
		SaldoInicial:   sessao.SaldoInicial,
		VendasDinheiro: decimal.Zero,
		VendasDebito:   decimal.Zero,
		VendasCredito:  decimal.Zero,
		VendasPix:      decimal.Zero,
		Suprimentos:    decimal.Zero,
		Sangrias:       decimal.Zero,
		OutrasEntradas: decimal.Zero,
	}

	for _, m := range movimentos {
		switch m.Categoria {
		case model.CategoriaSaldoInicial:
			// Already accounted for via SaldoInicial.
		case model.CategoriaVenda:
			if m.MetodoPagamento == nil {
				continue
			}
			switch *m.MetodoPagamento {
			case model.MetodoDinheiro:
				resumo.VendasDinheiro = resumo.VendasDinheiro.Add(m.Valor)
			case model.MetodoDebito:
				resumo.VendasDebito = resumo.VendasDebito.Add(m.Valor)
			case model.MetodoCredito:
				resumo.VendasCredito = resumo.VendasCredito.Add(m.Valor)
			case model.MetodoPix:
				resumo.VendasPix = resumo.VendasPix.Add(m.Valor)
			}
		case model.CategoriaSuprimento:
			resumo.Suprimentos = resumo.Suprimentos.Add(m.Valor)
		case model.CategoriaSangria:
			resumo.Sangrias = resumo.Sangrias.Add(m.Valor)
		default:
			if m.Tipo == model.MovimentoEntrada {
				resumo.OutrasEntradas = resumo.OutrasEntradas.Add(m.Valor)
			}
		}
	}

	resumo.VendasCartao = resumo.VendasDebito.Add(resumo.VendasCredito)
	// Card and PIX amounts never enter the physical drawer.
	resumo.SaldoEsperado = sessao.SaldoInicial.
		Add(resumo.VendasDinheiro).
		Add(resumo.Suprimentos).
		Add(resumo.OutrasEntradas).
		Sub(resumo.Sangrias)
	return resumo
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Computes the summary, persists closing data, discards the cart and mirrors
// the closed status. Irreversible; there is no undo.

func (s *caixaService) Fechar(ctx context.Context, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error) {
	sessao, err := s.SessaoAberta(ctx)
	if err != nil {
		return nil, err
	}
	movimentos, err := s.repo.ListMovimentos(ctx, sessao.ID)
	if err != nil {
		return nil, err
	}
	resumo := resumirSessao(sessao, movimentos)

	agora := time.Now()
	esperado := resumo.SaldoEsperado
	sessao.SaldoEsperado = &esperado
	sessao.Estado = model.SessaoFechada
	sessao.FechadaEm = &agora

	var divergencia *decimal.Decimal
	if req.SaldoContado != nil {
		contado := *req.SaldoContado
		diff := contado.Sub(esperado)
		sessao.SaldoContado = &contado
		sessao.Divergencia = &diff
		divergencia = &diff
	}

	if err := s.repo.UpdateSessao(ctx, sessao); err != nil {
		return nil, err
	}

	s.carrinhos.Descartar(sessao.ID)
	if s.mirror != nil {
		s.mirror.Publicar(ctx, false, nil)
	}
	metrics.CaixaFechamentos.Inc()

	return &dto.FechamentoResponse{
		Resumo:       resumo,
		SaldoContado: req.SaldoContado,
		Divergencia:  divergencia,
		FechadaEm:    agora.Format(time.RFC3339),
	}, nil
}

// ── Historico ─────────────────────────────────────────────────────────────────

func (s *caixaService) Historico(ctx context.Context, page, limit int) ([]dto.SessaoCaixaListItem, int64, error) {
	sessoes, total, err := s.repo.ListSessoes(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.SessaoCaixaListItem, 0, len(sessoes))
	for _, sessao := range sessoes {
		item := dto.SessaoCaixaListItem{
			ID:            sessao.ID.String(),
			SaldoInicial:  sessao.SaldoInicial,
			SaldoEsperado: sessao.SaldoEsperado,
			SaldoContado:  sessao.SaldoContado,
			Divergencia:   sessao.Divergencia,
			Estado:        sessao.Estado,
			AbertaEm:      sessao.AbertaEm.Format(time.RFC3339),
		}
		if sessao.FechadaEm != nil {
			t := sessao.FechadaEm.Format(time.RFC3339)
			item.FechadaEm = &t
		}
		items = append(items, item)
	}
	return items, total, nil
}

// ── SessaoAberta ──────────────────────────────────────────────────────────────

func (s *caixaService) SessaoAberta(ctx context.Context) (*model.SessaoCaixa, error) {
	sessao, err := s.repo.FindSessaoAberta(ctx)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && sessao == nil):
		return nil, ErrCaixaFechado
	case err != nil:
		return nil, err
	}
	return sessao, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *caixaService) buildStatus(ctx context.Context, sessao *model.SessaoCaixa) (*dto.StatusCaixaResponse, error) {
	movimentos, err := s.repo.ListMovimentos(ctx, sessao.ID)
	if err != nil {
		return nil, err
	}

	id := sessao.ID.String()
	saldo := sessao.SaldoInicial
	aberta := sessao.AbertaEm.Format(time.RFC3339)
	resp := &dto.StatusCaixaResponse{
		Aberto:       true,
		SessaoID:     &id,
		SaldoInicial: &saldo,
		AbertaEm:     &aberta,
	}
	for _, m := range movimentos {
		resp.Movimentos = append(resp.Movimentos, dto.MovimentoResponse{
			ID:              m.ID.String(),
			Tipo:            m.Tipo,
			Categoria:       m.Categoria,
			MetodoPagamento: m.MetodoPagamento,
			Valor:           m.Valor,
			Descricao:       m.Descricao,
			CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}
