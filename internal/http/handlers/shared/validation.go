package shared

import (
	"sync"

	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/logger"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bindingOnce sync.Once

// RegisterBindingValidations 向 gin 绑定校验器注册 phone / mailbox 规则，重复调用无副作用
func RegisterBindingValidations() {
	bindingOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logger.Warnw("binding_validator_unsupported")
			return
		}
		if err := checkout.RegisterValidations(engine); err != nil {
			logger.Errorw("binding_validator_register_failed", "error", err)
		}
	})
}
