package handler

import (
	"net/http"

	"meipdv/internal/apierror"
	"meipdv/internal/dto"
	"meipdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CarrinhoHandler struct{ svc service.CarrinhoService }

func NewCarrinhoHandler(svc service.CarrinhoService) *CarrinhoHandler {
	return &CarrinhoHandler{svc: svc}
}

// Obter returns the cart of the open session.
func (h *CarrinhoHandler) Obter(c *gin.Context) {
	resp, err := h.svc.Obter(c.Request.Context())
	if err != nil {
		abortService(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdicionarItem godoc
// @Summary Adiciona uma unidade de um produto ao carrinho
// @Tags carrinho
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AdicionarItemRequest true "Produto"
// @Success 200 {object} dto.CarrinhoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/carrinho/itens [post]
func (h *CarrinhoHandler) AdicionarItem(c *gin.Context) {
	var req dto.AdicionarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarItem(c.Request.Context(), req)
	if err != nil {
		abortService(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefinirQuantidade godoc
// @Summary Define a quantidade de uma linha do carrinho (≤ 0 remove)
// @Tags carrinho
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param produtoId path string true "ID do produto"
// @Param body body dto.DefinirQuantidadeRequest true "Quantidade"
// @Success 200 {object} dto.CarrinhoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/carrinho/itens/{produtoId} [put]
func (h *CarrinhoHandler) DefinirQuantidade(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("produtoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de produto inválido"))
		return
	}
	var req dto.DefinirQuantidadeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DefinirQuantidade(c.Request.Context(), produtoID, req.Quantidade)
	if err != nil {
		abortService(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverItem removes a line from the cart regardless of quantity.
func (h *CarrinhoHandler) RemoverItem(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("produtoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de produto inválido"))
		return
	}
	resp, err := h.svc.RemoverItem(c.Request.Context(), produtoID)
	if err != nil {
		abortService(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SelecionarCliente attaches (or detaches) a customer to the cart.
func (h *CarrinhoHandler) SelecionarCliente(c *gin.Context) {
	var req dto.SelecionarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SelecionarCliente(c.Request.Context(), req); err != nil {
		abortService(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancelar empties the cart without finalizing a sale.
func (h *CarrinhoHandler) Cancelar(c *gin.Context) {
	if err := h.svc.Cancelar(c.Request.Context()); err != nil {
		abortService(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
