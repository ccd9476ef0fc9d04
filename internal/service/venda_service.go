package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meipdv/internal/carrinho"
	"meipdv/internal/dto"
	"meipdv/internal/metrics"
	"meipdv/internal/model"
	"meipdv/internal/repository"
	"meipdv/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// historicoVendasCap bounds the in-memory recent-sales log: insertion at the
// head, eviction at the tail, most-recent-first.
const historicoVendasCap = 20

type VendaService interface {
	// Finalizar validates and finalizes the sale of the active cart.
	// No side effect occurs if any validation fails — cart, session and
	// history remain unchanged and the operator can correct and retry.
	Finalizar(ctx context.Context, usuarioID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.VendaResponse, error)
	ListVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
	// Recentes returns the bounded most-recent-first sales history.
	Recentes() []dto.VendaResponse
	ObterVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	caixa       CaixaService
	caixaRepo   repository.CaixaRepository
	carrinhos   *carrinho.Store
	clienteRepo repository.ClienteRepository
	dispatcher  *worker.Dispatcher

	mu       sync.Mutex
	recentes []dto.VendaResponse
}

func NewVendaService(
	repo repository.VendaRepository,
	caixa CaixaService,
	caixaRepo repository.CaixaRepository,
	carrinhos *carrinho.Store,
	clienteRepo repository.ClienteRepository,
	dispatcher *worker.Dispatcher,
) VendaService {
	return &vendaService{
		repo:        repo,
		caixa:       caixa,
		caixaRepo:   caixaRepo,
		carrinhos:   carrinhos,
		clienteRepo: clienteRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// rotuloMetodo returns the display label of a payment method, used in the
// movement description and on the printed receipt.
func rotuloMetodo(metodo string) string {
	switch metodo {
	case model.MetodoDinheiro:
		return "Dinheiro"
	case model.MetodoDebito:
		return "Cartão de Débito"
	case model.MetodoCredito:
		return "Cartão de Crédito"
	case model.MetodoPix:
		return "PIX"
	default:
		return metodo
	}
}

// ── Finalizar ─────────────────────────────────────────────────────────────────
//  1. Validate open session and non-empty cart (total > 0)
//  2. Dinheiro: require valor pago ≥ total, compute troco
//  3. Snapshot cart lines into the Venda (deep copy)
//  4. BEGIN TX: create venda+itens, append one entrada movement to the ledger
//  5. COMMIT, cart emptied under the same lock as the snapshot
//  6. Push to bounded history, enqueue async receipt job
//
// Steps 1–5 run inside Carrinho.Consumir: the charged total is computed from
// the exact lines being snapshotted, and no concurrent cart mutation can slip
// between snapshot and clear.

func (s *vendaService) Finalizar(ctx context.Context, usuarioID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.VendaResponse, error) {
	// 1. Open session required
	sessao, err := s.caixa.SessaoAberta(ctx)
	if err != nil {
		return nil, err
	}
	c := s.carrinhos.Obter(sessao.ID)

	var venda model.Venda
	metodo := req.MetodoPagamento
	err = c.Consumir(func(itens []carrinho.Item, total decimal.Decimal, carrinhoCliente *uuid.UUID) error {
		if len(itens) == 0 || !total.IsPositive() {
			return ErrVendaInvalida
		}

		// 2. Payment validation — all before any mutation
		venda = model.Venda{
			SessaoCaixaID:   sessao.ID,
			UsuarioID:       usuarioID,
			Total:           total,
			MetodoPagamento: metodo,
		}
		if metodo == model.MetodoDinheiro {
			if req.ValorPago == nil || req.ValorPago.LessThan(total) {
				return ErrPagamentoInsuficiente
			}
			pago := *req.ValorPago
			troco := pago.Sub(total)
			venda.ValorPago = &pago
			venda.Troco = &troco
		}
		// Non-cash methods are assumed exact: valor pago / troco stay absent.

		// Customer: explicit request field overrides the cart selection
		clienteID := carrinhoCliente
		if req.ClienteID != nil {
			id, err := uuid.Parse(*req.ClienteID)
			if err != nil {
				return fmt.Errorf("cliente_id inválido: %w", err)
			}
			clienteID = &id
		}
		if clienteID != nil {
			if _, err := s.clienteRepo.FindByID(ctx, *clienteID); err != nil {
				return fmt.Errorf("cliente %s não encontrado", clienteID)
			}
			venda.ClienteID = clienteID
		}

		// 3. Snapshot — deep copy so later cart mutations cannot alter the sale
		for _, item := range itens {
			venda.Itens = append(venda.Itens, model.VendaItem{
				ProdutoID:     item.ProdutoID,
				Nome:          item.Nome,
				Quantidade:    item.Quantidade,
				PrecoUnitario: item.PrecoUnitario,
				Subtotal:      item.Subtotal(),
			})
		}

		// 4. Sale row and ledger entry commit or fail together
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.Create(ctx, tx, &venda); err != nil {
				return err
			}
			mov := model.MovimentoCaixa{
				SessaoCaixaID:   sessao.ID,
				Tipo:            model.MovimentoEntrada,
				Categoria:       model.CategoriaVenda,
				MetodoPagamento: &metodo,
				Valor:           total,
				Descricao:       fmt.Sprintf("Venda #%d (%s)", venda.NumeroTicket, rotuloMetodo(metodo)),
				ReferenciaID:    &venda.ID,
			}
			return s.caixaRepo.CreateMovimentoTx(tx, &mov)
		})
	})
	if err != nil {
		return nil, err
	}

	// 6. Post-commit effects
	resp := vendaToResponse(&venda)
	s.pushRecente(*resp)
	metrics.VendasFinalizadas.WithLabelValues(metodo).Inc()

	// Receipt PDF + optional e-mail — best-effort, fire & forget
	if s.dispatcher != nil {
		payload := worker.ReciboJobPayload{VendaID: venda.ID.String()}
		if venda.ClienteID != nil {
			if cli, err := s.clienteRepo.FindByID(ctx, *venda.ClienteID); err == nil && cli.Email != nil {
				payload.ClienteEmail = cli.Email
			}
		}
		_ = s.dispatcher.EnqueueRecibo(ctx, payload)
	}

	return resp, nil
}

// pushRecente inserts at the head and evicts past the cap.
func (s *vendaService) pushRecente(v dto.VendaResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentes = append([]dto.VendaResponse{v}, s.recentes...)
	if len(s.recentes) > historicoVendasCap {
		s.recentes = s.recentes[:historicoVendasCap]
	}
}

func (s *vendaService) Recentes() []dto.VendaResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.VendaResponse, len(s.recentes))
	copy(out, s.recentes)
	return out
}

// ListVendas returns a paginated list of sales filtered by date.
// Default filter: today's sales.
func (s *vendaService) ListVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		items = append(items, *vendaToResponse(&vendas[i]))
	}
	return &dto.VendaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *vendaService) ObterVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("venda não encontrada")
	}
	return vendaToResponse(venda), nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, item := range v.Itens {
		itens = append(itens, dto.ItemVendaResponse{
			ProdutoID:     item.ProdutoID.String(),
			Nome:          item.Nome,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	resp := &dto.VendaResponse{
		ID:              v.ID.String(),
		NumeroTicket:    v.NumeroTicket,
		Itens:           itens,
		Total:           v.Total,
		MetodoPagamento: v.MetodoPagamento,
		ValorPago:       v.ValorPago,
		Troco:           v.Troco,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
	if v.Cliente != nil {
		nome := v.Cliente.Nome
		resp.Cliente = &nome
	}
	return resp
}
