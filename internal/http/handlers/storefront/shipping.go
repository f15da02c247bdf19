package storefront

import (
	"strings"

	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/novaposhta"

	"github.com/gin-gonic/gin"
)

const (
	warehouseKindAll      = "all"
	warehouseKindBranch   = "branch"
	warehouseKindPostomat = "postomat"
)

func (h *Handler) carrierReady(c *gin.Context) bool {
	if h.NovaPoshta == nil || !h.NovaPoshta.Enabled() {
		respondError(c, response.CodeUnavailable, "error.carrier_disabled", nil)
		return false
	}
	return true
}

func cityParams(c *gin.Context) (string, string) {
	return strings.TrimSpace(c.Query("city_ref")), strings.TrimSpace(c.Query("city"))
}

// SearchCities 城市搜索
func (h *Handler) SearchCities(c *gin.Context) {
	if !h.carrierReady(c) {
		return
	}
	cities, err := h.NovaPoshta.SearchCities(ctxOf(c), c.Query("q"))
	if err != nil {
		respondWithMappedError(c, err, shippingErrorRules, "error.shipping_lookup_failed")
		return
	}
	response.Success(c, cities)
}

// GetWarehouses 城市网点，type=branch|postomat|all，q 为编号或地址关键字
func (h *Handler) GetWarehouses(c *gin.Context) {
	if !h.carrierReady(c) {
		return
	}
	cityRef, cityName := cityParams(c)
	var (
		list []novaposhta.Warehouse
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(c.DefaultQuery("type", warehouseKindAll))) {
	case warehouseKindPostomat:
		list, err = h.NovaPoshta.Postomats(ctxOf(c), cityRef, cityName)
	case warehouseKindBranch:
		list, err = h.NovaPoshta.Warehouses(ctxOf(c), cityRef, cityName, novaposhta.TypeBranch)
	case warehouseKindAll:
		list, err = h.NovaPoshta.AllWarehouses(ctxOf(c), cityRef, cityName)
	default:
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err != nil {
		respondWithMappedError(c, err, shippingErrorRules, "error.shipping_lookup_failed")
		return
	}
	response.Success(c, novaposhta.FilterWarehouses(list, c.Query("q")))
}

// FindWarehouse 按编号查找网点，未找到返回 404
func (h *Handler) FindWarehouse(c *gin.Context) {
	if !h.carrierReady(c) {
		return
	}
	cityRef, cityName := cityParams(c)
	wh, err := h.NovaPoshta.FindWarehouse(ctxOf(c), cityRef, cityName, c.Query("number"))
	if err != nil {
		respondWithMappedError(c, err, shippingErrorRules, "error.shipping_lookup_failed")
		return
	}
	if wh == nil {
		respondError(c, response.CodeNotFound, "error.not_found", nil)
		return
	}
	response.Success(c, wh)
}
