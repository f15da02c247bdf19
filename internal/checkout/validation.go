package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?\d{10,13}$`)
	mailboxPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneStripper  = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Form 结算表单
type Form struct {
	FirstName     string `json:"customer_firstname" validate:"required"`
	LastName      string `json:"customer_lastname" validate:"required"`
	Phone         string `json:"customer_phone" validate:"required,phone"`
	Email         string `json:"customer_email" validate:"omitempty,mailbox"`
	DeliveryType  string `json:"delivery_type" validate:"required,oneof=nova_poshta courier pickup"`
	City          string `json:"delivery_city" validate:"required_if=DeliveryType nova_poshta"`
	CityRef       string `json:"delivery_city_ref"`
	Warehouse     string `json:"delivery_warehouse" validate:"required_if=DeliveryType nova_poshta"`
	WarehouseRef  string `json:"delivery_warehouse_ref"`
	Street        string `json:"delivery_street" validate:"required_if=DeliveryType courier"`
	House         string `json:"delivery_house" validate:"required_if=DeliveryType courier"`
	Apartment     string `json:"delivery_apartment"`
	Entrance      string `json:"delivery_entrance"`
	Floor         string `json:"delivery_floor"`
	Intercom      string `json:"delivery_intercom"`
	PaymentType   string `json:"payment_type" validate:"required,oneof=cash card_on_delivery online"`
	PromotionCode string `json:"promotion_code"`
	Notes         string `json:"notes"`
}

// FieldErrors 字段名（JSON）到本地化错误信息
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "checkout: invalid form: " + strings.Join(parts, "; ")
}

// ErrInvalidForm 表单校验失败
var ErrInvalidForm = errors.New("checkout: invalid form")

// Is 使 errors.Is(err, ErrInvalidForm) 成立
func (e FieldErrors) Is(target error) bool {
	return target == ErrInvalidForm
}

// RegisterValidations 注册 phone / mailbox 规则（也用于 gin 的绑定校验器）
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
}

// IsValidPhone 去掉空格、横线、括号后为 10-13 位数字（可带 +）
func IsValidPhone(raw string) bool {
	return phonePattern.MatchString(phoneStripper.Replace(strings.TrimSpace(raw)))
}

// IsValidEmail 宽松邮箱格式
func IsValidEmail(raw string) bool {
	return mailboxPattern.MatchString(strings.TrimSpace(raw))
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := RegisterValidations(v); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// Normalize 去除首尾空白
func (f Form) Normalize() Form {
	fields := []*string{
		&f.FirstName, &f.LastName, &f.Phone, &f.Email, &f.DeliveryType,
		&f.City, &f.CityRef, &f.Warehouse, &f.WarehouseRef,
		&f.Street, &f.House, &f.Apartment, &f.Entrance, &f.Floor, &f.Intercom,
		&f.PaymentType, &f.PromotionCode, &f.Notes,
	}
	for _, p := range fields {
		*p = strings.TrimSpace(*p)
	}
	return f
}

// Validate 校验表单，失败时返回 FieldErrors
func (f Form) Validate(locale string) error {
	f = f.Normalize()
	err := validatorInstance().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = i18n.T(locale, messageKey(fe))
	}
	return out
}

func messageKey(fe validator.FieldError) string {
	switch fe.Tag() {
	case "phone":
		return "validation.phone"
	case "mailbox":
		return "validation.email"
	case "oneof":
		return "validation.oneof"
	case "required_if":
		switch fe.Field() {
		case "delivery_city":
			return "validation.city_required"
		case "delivery_warehouse":
			return "validation.warehouse_required"
		case "delivery_street":
			return "validation.street_required"
		case "delivery_house":
			return "validation.house_required"
		}
		return "validation.required"
	case "required":
		return "validation.required"
	}
	return "validation.invalid"
}

// CustomerName 姓名拼接
func (f Form) CustomerName() string {
	return strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
}

// DeliveryAddress 快递地址：街道、门牌、公寓、单元、楼层、门禁，逗号分隔；非快递返回空
func (f Form) DeliveryAddress() string {
	f = f.Normalize()
	if f.DeliveryType != models.DeliveryCourier {
		return ""
	}
	var parts []string
	if f.Street != "" {
		parts = append(parts, "вул. "+f.Street)
	}
	if f.House != "" {
		parts = append(parts, f.House)
	}
	if f.Apartment != "" {
		parts = append(parts, "кв. "+f.Apartment)
	}
	if f.Entrance != "" {
		parts = append(parts, "під'їзд "+f.Entrance)
	}
	if f.Floor != "" {
		parts = append(parts, "поверх "+f.Floor)
	}
	if f.Intercom != "" {
		parts = append(parts, "домофон "+f.Intercom)
	}
	return strings.Join(parts, ", ")
}
