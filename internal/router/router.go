package router

import (
	"time"

	"meipdv/internal/carrinho"
	"meipdv/internal/config"
	"meipdv/internal/handler"
	"meipdv/internal/infra"
	"meipdv/internal/middleware"
	"meipdv/internal/repository"
	"meipdv/internal/service"
	"meipdv/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	carrinhos := carrinho.NewStore()
	mirror := infra.NewStatusCaixaMirror(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, rdb)
	clienteSvc := service.NewClienteService(clienteRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, carrinhos, mirror)
	carrinhoSvc := service.NewCarrinhoService(carrinhos, caixaSvc, produtoRepo, clienteRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	vendaSvc := service.NewVendaService(vendaRepo, caixaSvc, caixaRepo, carrinhos, clienteRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	produtosH := handler.NewProdutoHandler(produtoSvc)
	clientesH := handler.NewClienteHandler(clienteSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	carrinhoH := handler.NewCarrinhoHandler(carrinhoSvc)
	vendasH := handler.NewVendaHandler(vendaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/preco/:barcode", produtosH.ConsultarPreco)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Perfis: operador, administrador — declared per-endpoint
		operadores := middleware.RequirePerfil("operador", "administrador")
		admin := middleware.RequirePerfil("administrador")

		caixa := v1.Group("/caixa", operadores)
		{
			caixa.POST("/abrir", caixaH.Abrir)
			caixa.GET("/status", caixaH.Status)
			caixa.POST("/movimento", caixaH.RegistrarMovimento)
			caixa.GET("/resumo", caixaH.Resumo)
			caixa.POST("/fechar", caixaH.Fechar)
		}
		v1.GET("/caixa/historico", admin, caixaH.Historico)

		car := v1.Group("/carrinho", operadores)
		{
			car.GET("", carrinhoH.Obter)
			car.POST("/itens", carrinhoH.AdicionarItem)
			car.PUT("/itens/:produtoId", carrinhoH.DefinirQuantidade)
			car.DELETE("/itens/:produtoId", carrinhoH.RemoverItem)
			car.PUT("/cliente", carrinhoH.SelecionarCliente)
			car.DELETE("", carrinhoH.Cancelar)
		}

		vendas := v1.Group("/vendas", operadores)
		{
			vendas.POST("", vendasH.Finalizar)
			vendas.GET("", vendasH.Listar)
			vendas.GET("/recentes", vendasH.Recentes)
			vendas.GET("/:id", vendasH.Obter)
		}

		// Catalog — all authenticated can read, administrador writes
		v1.GET("/produtos", operadores, produtosH.Listar)
		v1.GET("/produtos/:id", operadores, produtosH.Obter)
		prods := v1.Group("/produtos", admin)
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
		}

		clientes := v1.Group("/clientes", operadores)
		{
			clientes.POST("", clientesH.Criar)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obter)
			clientes.GET("/documento/:documento", clientesH.BuscarPorDocumento)
			clientes.PUT("/:id", clientesH.Atualizar)
		}
		v1.DELETE("/clientes/:id", admin, clientesH.Desativar)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CriarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.AtualizarUsuario)
			usuarios.DELETE("/:id", authH.DesativarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
