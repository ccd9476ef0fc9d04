package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StatusCaixaKey is the key-value entry other views of the console (the
// dashboard, mainly) read to reflect till status. It is a read-mostly side
// channel — the workflow never treats it as authoritative state.
const StatusCaixaKey = "cashierStatus"

// StatusCaixa is the JSON payload mirrored on every open/close.
type StatusCaixa struct {
	IsOpen   bool    `json:"is_open"`
	OpenTime *string `json:"open_time"` // RFC 3339; nil while closed
}

// StatusCaixaMirror publishes till open/close transitions to redis.
type StatusCaixaMirror struct {
	rdb *redis.Client
}

func NewStatusCaixaMirror(rdb *redis.Client) *StatusCaixaMirror {
	return &StatusCaixaMirror{rdb: rdb}
}

// Publicar writes the current status. Failures are logged and swallowed:
// the mirror must never block or fail the till workflow itself.
func (m *StatusCaixaMirror) Publicar(ctx context.Context, aberto bool, abertura *time.Time) {
	status := StatusCaixa{IsOpen: aberto}
	if abertura != nil {
		t := abertura.UTC().Format(time.RFC3339)
		status.OpenTime = &t
	}

	data, err := json.Marshal(status)
	if err != nil {
		log.Error().Err(err).Msg("status_caixa: marshal failed")
		return
	}
	if err := m.rdb.Set(ctx, StatusCaixaKey, data, 0).Err(); err != nil {
		log.Warn().Err(err).Msg("status_caixa: redis set failed")
	}
}
