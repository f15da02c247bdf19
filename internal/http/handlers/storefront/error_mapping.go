package storefront

import (
	"errors"

	"github.com/spongik/storefront/internal/catalog"
	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/novaposhta"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

// respondWithMappedError 命中规则时返回对应文案；未命中时按后端错误透传。
func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondBackendError(c, err, fallbackKey)
}

var catalogErrorRules = []mappedHandlerError{
	{target: catalog.ErrSuperseded, code: response.CodeConflict, key: "error.request_superseded"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: checkout.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
}

var shippingErrorRules = []mappedHandlerError{
	{target: novaposhta.ErrTooManyRequests, code: response.CodeTooManyRequests, key: "error.shipping_rate_limited"},
	{target: novaposhta.ErrAPI, code: response.CodeBadRequest, key: "error.shipping_lookup_failed"},
}
