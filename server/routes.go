package laundryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every API endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is the list of the generated routes.
type Routes []Route

// ApiHandleFunctions groups the handler structs the router dispatches to.
type ApiHandleFunctions struct {
	OrdersAPI        OrdersAPI
	NotificationsAPI NotificationsAPI
	SessionsAPI      SessionsAPI
}

// NewRouter returns a new gin engine with all API routes attached.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds all API routes to the provided gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func defaultFunc(c *gin.Context) {}

func getRoutes(h ApiHandleFunctions) Routes {
	return Routes{
		{
			Name:        "CreateOrder",
			Method:      http.MethodPost,
			Pattern:     "/v1/orders",
			HandlerFunc: h.OrdersAPI.CreateOrder,
		},
		{
			Name:        "ListActiveOrders",
			Method:      http.MethodGet,
			Pattern:     "/v1/orders",
			HandlerFunc: h.OrdersAPI.ListActiveOrders,
		},
		{
			Name:        "GetOrder",
			Method:      http.MethodGet,
			Pattern:     "/v1/orders/:orderId",
			HandlerFunc: h.OrdersAPI.GetOrder,
		},
		{
			Name:        "ChangeStatus",
			Method:      http.MethodPatch,
			Pattern:     "/v1/orders/:orderId/status",
			HandlerFunc: h.OrdersAPI.ChangeStatus,
		},
		{
			Name:        "ChangePayment",
			Method:      http.MethodPatch,
			Pattern:     "/v1/orders/:orderId/payment",
			HandlerFunc: h.OrdersAPI.ChangePayment,
		},
		{
			Name:        "GetCatalog",
			Method:      http.MethodGet,
			Pattern:     "/v1/catalog",
			HandlerFunc: h.OrdersAPI.GetCatalog,
		},
		{
			Name:        "ListNotifications",
			Method:      http.MethodGet,
			Pattern:     "/v1/notifications",
			HandlerFunc: h.NotificationsAPI.ListNotifications,
		},
		{
			Name:        "UnreadCount",
			Method:      http.MethodGet,
			Pattern:     "/v1/notifications/unread",
			HandlerFunc: h.NotificationsAPI.UnreadCount,
		},
		{
			Name:        "MarkAllRead",
			Method:      http.MethodPost,
			Pattern:     "/v1/notifications/read",
			HandlerFunc: h.NotificationsAPI.MarkAllRead,
		},
		{
			Name:        "MarkRead",
			Method:      http.MethodPost,
			Pattern:     "/v1/notifications/:notificationId/read",
			HandlerFunc: h.NotificationsAPI.MarkRead,
		},
		{
			Name:        "DeleteNotification",
			Method:      http.MethodDelete,
			Pattern:     "/v1/notifications/:notificationId",
			HandlerFunc: h.NotificationsAPI.DeleteNotification,
		},
		{
			Name:        "Login",
			Method:      http.MethodPost,
			Pattern:     "/v1/sessions",
			HandlerFunc: h.SessionsAPI.Login,
		},
		{
			Name:        "Logout",
			Method:      http.MethodDelete,
			Pattern:     "/v1/sessions",
			HandlerFunc: h.SessionsAPI.Logout,
		},
	}
}
