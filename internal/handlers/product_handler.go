package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/cache"
	"catalog-orders/internal/metrics"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
)

// productsCachePrefix cubre items y listados; cualquier escritura lo invalida completo
const productsCachePrefix = "products:"

// ProductStore es lo que el handler necesita del repositorio de productos
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter, window pagination.Window) ([]models.Product, int64, error)
	Search(ctx context.Context, term string, limit int) ([]models.Product, error)
	Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ProductHandler struct {
	repo    ProductStore
	cache   *cache.Cache
	metrics *metrics.Business
	logger  *zap.Logger
}

func NewProductHandler(repo ProductStore, c *cache.Cache, m *metrics.Business, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		repo:    repo,
		cache:   c,
		metrics: m,
		logger:  logger,
	}
}

// CreateProduct crea un nuevo producto
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.ProductCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "product.create", err))
		return
	}

	product := req.ToProduct()
	if err := h.repo.Create(c.Request.Context(), product); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cache.DeleteByPrefix(productsCachePrefix)
	c.JSON(http.StatusCreated, product)
}

// GetProduct obtiene un producto por ID (con caché)
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	cacheKey := productsCachePrefix + "item:" + id

	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	// si una escritura invalida durante la lectura, no se cachea
	gen := h.cache.Generation()
	product, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cache.SetIfGeneration(cacheKey, product, gen)
	c.JSON(http.StatusOK, product)
}

// ListProducts lista productos con filtros y paginación (con caché)
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "product.list", err))
		return
	}
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "product.list", err))
		return
	}
	params = params.WithDefaults()

	// Encode ordena las claves, así el mismo filtro da la misma clave
	cacheKey := productsCachePrefix + "list:" + c.Request.URL.Query().Encode()
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	gen := h.cache.Generation()
	products, total, err := h.repo.List(c.Request.Context(), filter, params.Window())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page := pagination.NewPage(products, params, total)
	h.cache.SetIfGeneration(cacheKey, page, gen)
	c.JSON(http.StatusOK, page)
}

// LegacyListProducts es el listado con limit/offset y respuesta {data, page}
func (h *ProductHandler) LegacyListProducts(c *gin.Context) {
	var params pagination.OffsetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "product.legacy_list", err))
		return
	}
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "product.legacy_list", err))
		return
	}

	window := params.Window()
	products, total, err := h.repo.List(c.Request.Context(), filter, window)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	info := pagination.BuildOffsetInfo(int(window.Limit), params.Offset, &total, false)
	c.JSON(http.StatusOK, pagination.NewOffsetPage(products, info))
}

type searchQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// SearchProducts busca por nombre, descripción o tag
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "product.search", err))
		return
	}

	products, err := h.repo.Search(c.Request.Context(), c.Param("term"), q.Limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.metrics.ProductSearches.Inc()
	c.JSON(http.StatusOK, products)
}

// UpdateProduct actualiza parcialmente un producto
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "product.update", err))
		return
	}

	product, err := h.repo.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cache.DeleteByPrefix(productsCachePrefix)
	c.JSON(http.StatusOK, product)
}

// DeleteProduct elimina un producto
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !deleted {
		respondError(c, h.logger, apperrors.NotFound("product.delete", "product", id))
		return
	}

	h.cache.DeleteByPrefix(productsCachePrefix)
	c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted successfully"})
}
