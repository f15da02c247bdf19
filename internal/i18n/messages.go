package i18n

var messages = map[string]map[string]string{
	LocaleUK: {
		"error.bad_request":             "Некоректний запит",
		"error.unauthorized":            "Потрібна авторизація",
		"error.forbidden":               "Недостатньо прав",
		"error.not_found":               "Не знайдено",
		"error.internal":                "Внутрішня помилка сервера",
		"error.generic":                 "Сталася помилка",
		"error.no_connection":           "Немає з'єднання з сервером",
		"error.rate_limited":            "Забагато спроб, повторіть через %d с",
		"error.login_too_many":          "Забагато спроб входу, повторіть через %d с",
		"error.rate_limit_unavailable":  "Сервіс обмеження запитів недоступний",
		"error.session_unavailable":     "Сесія недоступна",
		"error.product_id_invalid":      "Некоректний ідентифікатор товару",
		"error.product_not_found":       "Товар не знайдено",
		"error.products_load_failed":    "Не вдалося завантажити товари",
		"error.categories_load_failed":  "Не вдалося завантажити категорії",
		"error.cart_item_not_found":     "Товар відсутній у кошику",
		"error.cart_empty":              "Кошик порожній",
		"error.checkout_invalid":        "Перевірте правильність заповнення форми",
		"error.order_failed":            "Помилка оформлення замовлення",
		"error.order_not_found":         "Замовлення не знайдено",
		"error.orders_load_failed":      "Не вдалося завантажити замовлення",
		"error.favorites_sync_failed":   "Не вдалося синхронізувати обране",
		"error.profile_update_failed":   "Не вдалося оновити профіль",
		"error.login_failed":            "Невірний логін або пароль",
		"error.promo_code_invalid":      "Промокод недійсний",
		"error.shipping_rate_limited":   "Забагато запитів до Нової Пошти, зачекайте",
		"error.shipping_lookup_failed":  "Не вдалося отримати дані Нової Пошти",
		"error.upload_invalid":          "Некоректний файл",
		"error.admin_action_failed":     "Не вдалося виконати дію",
		"validation.required":           "Це поле обов'язкове",
		"validation.email":              "Невірний формат email",
		"validation.phone":              "Невірний формат телефону",
		"validation.city_required":      "Вкажіть місто",
		"validation.warehouse_required": "Вкажіть відділення або поштомат",
		"validation.street_required":    "Вкажіть вулицю",
		"validation.house_required":     "Вкажіть номер будинку",
		"validation.oneof":              "Недопустиме значення",
		"validation.invalid":            "Невірне значення",
		"filter.query":                  "Пошук: %s",
		"filter.price":                  "Ціна: %s - %s ₴",
		"filter.in_stock":               "В наявності",
		"filter.on_sale":                "Зі знижкою",
		"catalog.all_categories":        "Всі категорії",
		"stock.in":                      "В наявності",
		"stock.out":                     "Немає в наявності",
		"cart.add":                      "До кошика",
		"delivery.free":                 "Безкоштовно",
		"delivery.carrier_rates":        "За тарифами перевізника",
		"delivery.hint":                 "Додайте товарів на %s для безкоштовної доставки",
		"order.status.pending":          "Очікує",
		"order.status.confirmed":        "Підтверджено",
		"order.status.processing":       "Обробляється",
		"order.status.refunded":         "Повернено",
		"payment.cash":                  "Готівка",
		"payment.card_on_delivery":      "Накладений платіж",
		"payment.online":                "Онлайн",
		"delivery.type.nova_poshta":     "Нова Пошта",
		"delivery.type.courier":         "Кур'єр",
		"delivery.type.pickup":          "Самовивіз",
		"order.status.shipped":          "Відправлено",
		"order.status.delivered":        "Доставлено",
		"order.status.cancelled":        "Скасовано",
		"toast.cart_added":              "Товар додано до кошика",
		"toast.cart_removed":            "Товар видалено з кошика",
		"toast.favorite_added":          "Додано до обраного",
		"toast.favorite_removed":        "Видалено з обраного",
		"toast.order_created":           "Замовлення оформлено",
		"error.request_superseded":      "Запит застарів, оновіть сторінку",
		"error.carrier_disabled":        "Пошук Нової Пошти недоступний",
		"error.product_out_of_stock":    "Товару немає в наявності",
		"error.dashboard_fetch_failed":  "Не вдалося завантажити статистику",
		"error.promotions_load_failed":  "Не вдалося завантажити акції",
		"error.promotion_invalid":       "Некоректні параметри акції",
		"error.users_load_failed":       "Не вдалося завантажити користувачів",
		"error.user_not_found":          "Користувача не знайдено",
		"error.self_update_forbidden":   "Не можна змінити власну роль або статус",
		"error.authz_unavailable":       "Керування правами недоступне",
		"error.authz_failed":            "Помилка перевірки прав",
		"error.register_invalid":        "Вкажіть email або телефон",
		"error.register_failed":         "Не вдалося зареєструватися",
		"toast.cart_updated":            "Кошик оновлено",
		"toast.cart_cleared":            "Кошик очищено",
		"toast.logged_in":               "Ви увійшли",
		"toast.logged_out":              "Ви вийшли",
		"toast.registered":              "Реєстрація успішна",
		"toast.profile_updated":         "Профіль оновлено",
		"toast.promo_applied":           "Промокод застосовано",
		"toast.saved":                   "Збережено",
		"toast.deleted":                 "Видалено",
		"badge.new":                     "New",
		"products.one":                  "товар",
		"products.few":                  "товари",
		"products.many":                 "товарів",
		"role.admin":                    "Адмін",
		"role.manager":                  "Менеджер",
		"role.customer":                 "Клієнт",
		"promotion.active":              "Активна",
		"promotion.inactive":            "Неактивна",
	},
	LocaleEN: {
		"error.bad_request":             "Bad request",
		"error.unauthorized":            "Authorization required",
		"error.forbidden":               "Forbidden",
		"error.not_found":               "Not found",
		"error.internal":                "Internal server error",
		"error.generic":                 "Something went wrong",
		"error.no_connection":           "No connection to the server",
		"error.rate_limited":            "Too many attempts, retry in %d s",
		"error.login_too_many":          "Too many login attempts, retry in %d s",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.session_unavailable":     "Session unavailable",
		"error.product_id_invalid":      "Invalid product id",
		"error.product_not_found":       "Product not found",
		"error.products_load_failed":    "Failed to load products",
		"error.categories_load_failed":  "Failed to load categories",
		"error.cart_item_not_found":     "Item is not in the cart",
		"error.cart_empty":              "Cart is empty",
		"error.checkout_invalid":        "Please check the form",
		"error.order_failed":            "Failed to place the order",
		"error.order_not_found":         "Order not found",
		"error.orders_load_failed":      "Failed to load orders",
		"error.favorites_sync_failed":   "Failed to sync favorites",
		"error.profile_update_failed":   "Failed to update profile",
		"error.login_failed":            "Wrong login or password",
		"error.promo_code_invalid":      "Promo code is not valid",
		"error.shipping_rate_limited":   "Too many carrier requests, please wait",
		"error.shipping_lookup_failed":  "Carrier lookup failed",
		"error.upload_invalid":          "Invalid file",
		"error.admin_action_failed":     "Action failed",
		"validation.required":           "This field is required",
		"validation.email":              "Invalid email format",
		"validation.phone":              "Invalid phone format",
		"validation.city_required":      "Enter a city",
		"validation.warehouse_required": "Choose a branch or parcel locker",
		"validation.street_required":    "Enter a street",
		"validation.house_required":     "Enter a house number",
		"validation.oneof":              "Value is not allowed",
		"validation.invalid":            "Invalid value",
		"filter.query":                  "Search: %s",
		"filter.price":                  "Price: %s - %s ₴",
		"filter.in_stock":               "In stock",
		"filter.on_sale":                "On sale",
		"catalog.all_categories":        "All categories",
		"stock.in":                      "In stock",
		"stock.out":                     "Out of stock",
		"cart.add":                      "Add to cart",
		"delivery.free":                 "Free",
		"delivery.carrier_rates":        "Carrier rates apply",
		"delivery.hint":                 "Add %s more for free delivery",
		"order.status.pending":          "Pending",
		"order.status.confirmed":        "Confirmed",
		"order.status.processing":       "Processing",
		"order.status.refunded":         "Refunded",
		"payment.cash":                  "Cash",
		"payment.card_on_delivery":      "Cash on delivery",
		"payment.online":                "Online",
		"delivery.type.nova_poshta":     "Nova Poshta",
		"delivery.type.courier":         "Courier",
		"delivery.type.pickup":          "Pickup",
		"order.status.shipped":          "Shipped",
		"order.status.delivered":        "Delivered",
		"order.status.cancelled":        "Cancelled",
		"toast.cart_added":              "Added to cart",
		"toast.cart_removed":            "Removed from cart",
		"toast.favorite_added":          "Added to favorites",
		"toast.favorite_removed":        "Removed from favorites",
		"toast.order_created":           "Order placed",
		"error.request_superseded":      "Request is outdated, refresh the page",
		"error.carrier_disabled":        "Carrier lookup is unavailable",
		"error.product_out_of_stock":    "Product is out of stock",
		"error.dashboard_fetch_failed":  "Failed to load statistics",
		"error.promotions_load_failed":  "Failed to load promotions",
		"error.promotion_invalid":       "Invalid promotion parameters",
		"error.users_load_failed":       "Failed to load users",
		"error.user_not_found":          "User not found",
		"error.self_update_forbidden":   "You cannot change your own role or status",
		"error.authz_unavailable":       "Permission management is unavailable",
		"error.authz_failed":            "Permission check failed",
		"error.register_invalid":        "Email or phone is required",
		"error.register_failed":         "Registration failed",
		"toast.cart_updated":            "Cart updated",
		"toast.cart_cleared":            "Cart cleared",
		"toast.logged_in":               "Signed in",
		"toast.logged_out":              "Signed out",
		"toast.registered":              "Registration complete",
		"toast.profile_updated":         "Profile updated",
		"toast.promo_applied":           "Promo code applied",
		"toast.saved":                   "Saved",
		"toast.deleted":                 "Deleted",
		"badge.new":                     "New",
		"products.one":                  "product",
		"products.few":                  "products",
		"products.many":                 "products",
		"role.admin":                    "Admin",
		"role.manager":                  "Manager",
		"role.customer":                 "Customer",
		"promotion.active":              "Active",
		"promotion.inactive":            "Inactive",
	},
}
