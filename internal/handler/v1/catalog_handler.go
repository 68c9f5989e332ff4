package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"github.com/labpoint/labportal/internal/service"
)

type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (h *CatalogHandler) List(c *gin.Context) {
	tests, err := h.catalogSvc.ListTests(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, tests)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	t, err := h.catalogSvc.GetTest(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, t)
}

type createTestRequest struct {
	Code        string                 `json:"code" binding:"required"`
	Name        string                 `json:"name" binding:"required"`
	Category    string                 `json:"category"`
	Price       float64                `json:"price"`
	Duration    string                 `json:"duration"`
	Description string                 `json:"description"`
	Parameters  []catalog.ParameterDef `json:"parameters"`
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req createTestRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := currentClaims(c)
	t, err := h.catalogSvc.CreateTest(c.Request.Context(), &catalog.CreateTestCommand{
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Duration:    req.Duration,
		Description: req.Description,
		Parameters:  req.Parameters,
	}, claims.ID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, t)
}

type updateTestRequest struct {
	Name        *string                 `json:"name"`
	Category    *string                 `json:"category"`
	Price       *float64                `json:"price"`
	Duration    *string                 `json:"duration"`
	Description *string                 `json:"description"`
	Parameters  *[]catalog.ParameterDef `json:"parameters"`
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateTestRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := currentClaims(c)
	t, err := h.catalogSvc.UpdateTest(c.Request.Context(), id, &catalog.UpdateTestCommand{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Duration:    req.Duration,
		Description: req.Description,
		Parameters:  req.Parameters,
	}, claims.ID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, t)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogSvc.DeleteTest(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
