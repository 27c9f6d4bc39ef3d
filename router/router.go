package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/controllers"
	"github.com/yeremiapane/gobblego/middlewares"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/services"
)

// Dependencies is everything the presentation API needs.
type Dependencies struct {
	Sessions *services.SessionService
	Menu     *services.MenuService
	Cart     *services.CartService
	Orders   *services.OrderService
	Assets   *services.AssetService
	Hub      *notify.Hub

	Currency    string
	JoinURLBase string
	CORSOrigins []string
	RateLimiter *middlewares.RateLimiter
}

func SetupRouter(deps *Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigins))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.RateLimit())
	}

	var notifier notify.Notifier = notify.Discard{}
	if deps.Hub != nil {
		notifier = deps.Hub
	}

	// Inisialisasi controller
	sessionCtrl := controllers.NewSessionController(deps.Sessions, deps.Cart, deps.Orders)
	tableCtrl := controllers.NewTableController(deps.Sessions, deps.JoinURLBase)
	menuCtrl := controllers.NewMenuController(deps.Menu)
	cartCtrl := controllers.NewCartController(deps.Cart, deps.Currency)
	orderCtrl := controllers.NewOrderController(deps.Orders, deps.Currency)
	paymentCtrl := controllers.NewPaymentController(deps.Orders, deps.Currency)
	notificationCtrl := controllers.NewNotificationController(deps.Hub)
	assetCtrl := controllers.NewAssetController(deps.Assets)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/assets/images/:id", assetCtrl.GetImage)

	api := r.Group("/api")
	{
		api.GET("/session", sessionCtrl.GetSession)
		api.POST("/session", sessionCtrl.JoinTable)
		api.DELETE("/session", sessionCtrl.LeaveTable)

		api.GET("/tables/:table_id/members", tableCtrl.GetMembers)
		api.GET("/tables/:table_id/qr", tableCtrl.GetQRCode)

		api.GET("/menu", menuCtrl.GetMenu)
		api.GET("/notifications", notificationCtrl.GetNotifications)
	}

	// ----------------------------------------------------------------
	//                 ROUTES YANG BUTUH JOIN MEJA
	// ----------------------------------------------------------------
	joined := api.Group("/")
	joined.Use(middlewares.RequireSession(deps.Sessions, notifier))
	{
		joined.GET("/cart", cartCtrl.GetCart)
		joined.POST("/cart/refresh", cartCtrl.RefreshCart)
		joined.POST("/cart/items", cartCtrl.AddItem)
		joined.PUT("/cart/items/:cart_item_id", cartCtrl.UpdateItem)
		joined.GET("/cart/badge", cartCtrl.GetBadge)

		joined.GET("/orders", orderCtrl.GetOrders)
		joined.POST("/orders", middlewares.LeaderOnly(notifier), orderCtrl.PlaceOrder)
		joined.PATCH("/orders/:order_id", orderCtrl.UpdateOrderStatus)
	}

	checkout := joined.Group("/checkout")
	checkout.Use(middlewares.PaymentSecurityHeaders(), middlewares.LogPaymentRequest())
	{
		checkout.GET("", paymentCtrl.GetPayment)
		checkout.POST("", middlewares.PaymentRateLimiter(), paymentCtrl.Checkout)
		checkout.POST("/confirm", paymentCtrl.ConfirmPayment)
		checkout.POST("/failure", paymentCtrl.ReportFailure)
		checkout.DELETE("/receipt", paymentCtrl.DismissReceipt)
	}

	return r
}
