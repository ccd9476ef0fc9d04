package handler

import (
	"net/http"

	"meipdv/internal/apierror"
	"meipdv/internal/dto"
	"meipdv/internal/middleware"
	"meipdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VendaHandler struct{ svc service.VendaService }

func NewVendaHandler(svc service.VendaService) *VendaHandler { return &VendaHandler{svc: svc} }

// Finalizar godoc
// @Summary Finaliza a venda do carrinho ativo
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FinalizarVendaRequest true "Pagamento"
// @Success 201 {object} dto.VendaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/vendas [post]
func (h *VendaHandler) Finalizar(c *gin.Context) {
	var req dto.FinalizarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuário inválido"))
		return
	}

	resp, err := h.svc.Finalizar(c.Request.Context(), usuarioID, req)
	if err != nil {
		abortService(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar returns a paginated, date-filtered sale list (default: today).
func (h *VendaHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return
	}
	resp, err := h.svc.ListVendas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recentes returns the bounded most-recent-first sales history.
func (h *VendaHandler) Recentes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.svc.Recentes()})
}

// Obter returns a single sale with its item snapshot.
func (h *VendaHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObterVenda(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
