package repository

import (
	"context"

	"meipdv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaixaRepository interface {
	// CreateSessaoTx inserts the session inside an open transaction, so the
	// session row and its opening movement commit or fail together.
	CreateSessaoTx(tx *gorm.DB, s *model.SessaoCaixa) error
	// FindSessaoAberta returns the single open session, or gorm.ErrRecordNotFound.
	FindSessaoAberta(ctx context.Context) (*model.SessaoCaixa, error)
	FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error)
	UpdateSessao(ctx context.Context, s *model.SessaoCaixa) error
	CreateMovimento(ctx context.Context, m *model.MovimentoCaixa) error
	// CreateMovimentoTx appends a movement inside an open transaction.
	CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoCaixa) error
	ListMovimentos(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error)
	ListSessoes(ctx context.Context, page, limit int) ([]model.SessaoCaixa, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

func (r *caixaRepo) CreateSessaoTx(tx *gorm.DB, s *model.SessaoCaixa) error {
	return tx.Create(s).Error
}

func (r *caixaRepo) FindSessaoAberta(ctx context.Context) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).Where("estado = ?", model.SessaoAberta).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).Preload("Movimentos").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) UpdateSessao(ctx context.Context, s *model.SessaoCaixa) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *caixaRepo) CreateMovimento(ctx context.Context, m *model.MovimentoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoCaixa) error {
	return tx.Create(m).Error
}

func (r *caixaRepo) ListMovimentos(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error) {
	var movs []model.MovimentoCaixa
	err := r.db.WithContext(ctx).
		Where("sessao_caixa_id = ?", sessaoID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) ListSessoes(ctx context.Context, page, limit int) ([]model.SessaoCaixa, int64, error) {
	var sessoes []model.SessaoCaixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SessaoCaixa{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("aberta_em DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessoes).Error
	return sessoes, total, err
}
