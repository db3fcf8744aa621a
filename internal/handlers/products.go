package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/omarch7/APIS-On-Rails/internal/metrics"
	"github.com/omarch7/APIS-On-Rails/internal/serializers"
	"github.com/omarch7/APIS-On-Rails/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const productCacheTTL = 5 * time.Minute

type productCreateRequest struct {
	Product struct {
		Title string          `json:"title"`
		Price decimal.Decimal `json:"price"`
	} `json:"product"`
}

type productUpdateRequest struct {
	Product struct {
		Title *string          `json:"title"`
		Price *decimal.Decimal `json:"price"`
	} `json:"product"`
}

// productIndexResponse nests the collection next to the pagination block.
type productIndexResponse struct {
	Products []serializers.ProductPayload `json:"products"`
	Meta     metaBlock                    `json:"meta"`
}

type metaBlock struct {
	Pagination interface{} `json:"pagination"`
}

func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	products, meta, err := h.productService.List(services.ProductFilter{
		IDs:     queryIDList(c, "product_ids"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, productIndexResponse{
		Products: serializers.Products(products),
		Meta:     metaBlock{Pagination: meta},
	})
}

func (h *Handler) ShowProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return
	}

	if cached, ok := h.cachedProduct(c, id); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	product, err := h.productService.Find(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	payload := serializers.Product(product)
	h.cacheProduct(c, id, payload)
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) ProductQR(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return
	}
	if _, err := h.productService.Find(id); err != nil {
		h.renderError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	data, err := h.qrService.ProductCode(id, size)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req productCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	product, err := h.productService.Create(userID, services.ProductDTO{
		Title: req.Product.Title,
		Price: req.Product.Price,
	}, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.Product(product))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return
	}

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	product, err := h.productService.Update(userID, id, services.ProductUpdateDTO{
		Title: req.Product.Title,
		Price: req.Product.Price,
	}, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.invalidateProduct(c, id)
	c.JSON(http.StatusOK, serializers.Product(product))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return
	}

	if err := h.productService.Delete(userID, id, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.renderError(c, err)
		return
	}

	h.invalidateProduct(c, id)
	c.Status(http.StatusNoContent)
}

// queryIDList accepts repeated values (`product_ids=1&product_ids=2`), the
// bracketed form (`product_ids[]=1`), and a comma-separated single value.
func queryIDList(c *gin.Context, name string) []uint {
	values := c.QueryArray(name)
	values = append(values, c.QueryArray(name+"[]")...)

	var ids []uint
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				continue
			}
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// Product show responses are cached briefly and dropped on any mutation
// that changes the payload: a product write, the owner's email changing,
// or the owner's account (and with it the product) being deleted. The
// cache is best-effort: a missing or down backend never fails the request.

// productCache is the cache surface ShowProduct needs. Production wires
// redis; tests swap in an in-memory fake to drive the hit and
// invalidation paths.
type productCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisProductCache struct {
	rdb *redis.Client
}

func (r *redisProductCache) Get(ctx context.Context, key string) ([]byte, error) {
	return r.rdb.Get(ctx, key).Bytes()
}

func (r *redisProductCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, data, ttl).Err()
}

func (r *redisProductCache) Del(ctx context.Context, keys ...string) error {
	return r.rdb.Del(ctx, keys...).Err()
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (h *Handler) cachedProduct(c *gin.Context, id uint) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 100*time.Millisecond)
	defer cancel()

	data, err := h.cache.Get(ctx, productCacheKey(id))
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	metrics.CacheHits.Inc()
	return data, true
}

func (h *Handler) cacheProduct(c *gin.Context, id uint, payload serializers.ProductPayload) {
	if h.cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 100*time.Millisecond)
	defer cancel()

	if err := h.cache.Set(ctx, productCacheKey(id), data, productCacheTTL); err != nil {
		h.logger.Debug("Product cache write failed", "id", id, "error", err)
	}
}

func (h *Handler) invalidateProduct(c *gin.Context, ids ...uint) {
	if h.cache == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productCacheKey(id))
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 100*time.Millisecond)
	defer cancel()

	if err := h.cache.Del(ctx, keys...); err != nil {
		h.logger.Debug("Product cache invalidation failed", "keys", keys, "error", err)
	}
}
