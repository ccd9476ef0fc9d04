// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VendasFinalizadas counts finalized sales by payment method.
	VendasFinalizadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meipdv_vendas_finalizadas_total",
		Help: "Vendas finalizadas, por método de pagamento.",
	}, []string{"metodo"})

	// CaixaAberturas counts till session opens.
	CaixaAberturas = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meipdv_caixa_aberturas_total",
		Help: "Sessões de caixa abertas.",
	})

	// CaixaFechamentos counts till session closes.
	CaixaFechamentos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meipdv_caixa_fechamentos_total",
		Help: "Sessões de caixa fechadas.",
	})
)
