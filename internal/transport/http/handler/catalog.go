package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"burgerreview/internal/app"
	"burgerreview/internal/transport/http/response"
)

type CatalogHandler struct {
	catalogService *app.CatalogService
}

type CreateChainRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Location *string `json:"location" binding:"omitempty,max=200"`
}

type CreateBurgerRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	ChainID     uint    `json:"chain_id" binding:"required,gt=0"`
	Description *string `json:"description"`
}

func NewCatalogHandler(catalogService *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) CreateChain(c *gin.Context) {
	var req CreateChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	chain, err := h.catalogService.CreateChain(c.Request.Context(), app.CreateChainInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		writeServiceError(c, err, "create chain failed")
		return
	}
	response.Created(c, chain)
}

func (h *CatalogHandler) ListChains(c *gin.Context) {
	chains, err := h.catalogService.ListChains(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "list chains failed")
		return
	}
	response.OK(c, chains)
}

func (h *CatalogHandler) CreateBurger(c *gin.Context) {
	var req CreateBurgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	burger, err := h.catalogService.CreateBurger(c.Request.Context(), app.CreateBurgerInput{
		Name:        req.Name,
		ChainID:     req.ChainID,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(c, err, "create burger failed")
		return
	}
	response.Created(c, burger)
}

func (h *CatalogHandler) ListBurgers(c *gin.Context) {
	burgers, err := h.catalogService.ListBurgers(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "list burgers failed")
		return
	}
	response.OK(c, burgers)
}
