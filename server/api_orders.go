package laundryserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	ordersdomain "github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"
)

// OrdersAPI wires HTTP transport with the order workflow service. Order
// views carry customer contact details, so reads are gated behind an admin
// session just like mutations; only the catalog is public.
type OrdersAPI struct {
	service ordersports.Service
	guard   authports.Guard
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service, guard authports.Guard) OrdersAPI {
	return OrdersAPI{service: service, guard: guard}
}

type orderSelection struct {
	Service  string  `json:"service" binding:"required"`
	Quantity float64 `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	CustomerPhone string           `json:"customer_phone"`
	UserID        int64            `json:"user_id"`
	Selections    []orderSelection `json:"selections" binding:"required"`
	Mode          string           `json:"mode"`
	Notes         string           `json:"notes"`
}

type lineItemModel struct {
	Service   string  `json:"service"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
	Total     float64 `json:"total"`
}

type orderModel struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	UserID          int64           `json:"user_id,omitempty"`
	Items           []lineItemModel `json:"items"`
	Summary         string          `json:"summary"`
	Mode            string          `json:"mode"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	TotalCost       float64         `json:"total_cost"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	DueDate         string          `json:"due_date"`
	CreatedAt       string          `json:"created_at"`
	StatusUpdatedAt string          `json:"status_updated_at,omitempty"`
}

type createOrderResponse struct {
	Order     orderModel `json:"order"`
	Warnings  []string   `json:"warnings,omitempty"`
	CsrfToken string     `json:"csrf_token,omitempty"`
}

type catalogEntryModel struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description,omitempty"`
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type changePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type transitionModel struct {
	OrderID int64  `json:"order_id"`
	Old     string `json:"old"`
	New     string `json:"new"`
}

// Post /v1/orders
// Create a priced order and dispatch creation notifications
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := ordersports.CreateOrderInput{
		Customer: ordersdomain.Customer{
			UserID: payload.UserID,
			Name:   payload.CustomerName,
			Email:  payload.CustomerEmail,
			Phone:  payload.CustomerPhone,
		},
		Selections: toSelections(payload.Selections),
		Mode:       payload.Mode,
		Notes:      payload.Notes,
	}
	result, err := api.service.CreateOrder(c.Request.Context(), accessRequest(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createOrderResponse{
		Order:     fromOrder(result.Order),
		Warnings:  result.Warnings,
		CsrfToken: result.CsrfToken,
	})
}

// Get /v1/orders
// List orders that are not archived
func (api *OrdersAPI) ListActiveOrders(c *gin.Context) {
	if !api.requireAdminView(c) {
		return
	}
	orders, err := api.service.ListActiveOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	models := make([]orderModel, 0, len(orders))
	for _, order := range orders {
		models = append(models, fromOrder(order))
	}
	c.JSON(http.StatusOK, models)
}

// Get /v1/orders/:orderId
// Find order by ID
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	if !api.requireAdminView(c) {
		return
	}
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

// Patch /v1/orders/:orderId/status
// Apply a fulfillment status transition
func (api *OrdersAPI) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload changeStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	change, err := api.service.ChangeStatus(c.Request.Context(), accessRequest(c), id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionModel{OrderID: change.OrderID, Old: string(change.Old), New: string(change.New)})
}

// Patch /v1/orders/:orderId/payment
// Apply a payment status transition
func (api *OrdersAPI) ChangePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload changePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	change, err := api.service.ChangePayment(c.Request.Context(), accessRequest(c), id, payload.PaymentStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionModel{OrderID: change.OrderID, Old: string(change.Old), New: string(change.New)})
}

// Get /v1/catalog
// List the priceable services
func (api *OrdersAPI) GetCatalog(c *gin.Context) {
	entries := api.service.Catalog()
	models := make([]catalogEntryModel, 0, len(entries))
	for _, entry := range entries {
		models = append(models, catalogEntryModel{
			Name:        entry.Name,
			Unit:        entry.Unit,
			UnitPrice:   entry.UnitPrice,
			Description: entry.Description,
		})
	}
	c.JSON(http.StatusOK, models)
}

// requireAdminView verifies an admin session for read surfaces without
// consuming a rate-limit slot or demanding a CSRF token.
func (api *OrdersAPI) requireAdminView(c *gin.Context) bool {
	req := accessRequest(c)
	req.RequireAdmin = true
	if _, err := api.guard.Identify(c.Request.Context(), req); err != nil {
		respondServiceError(c, err)
		return false
	}
	return true
}

func toSelections(payload []orderSelection) []ordersdomain.Selection {
	selections := make([]ordersdomain.Selection, 0, len(payload))
	for _, s := range payload {
		selections = append(selections, ordersdomain.Selection{Service: s.Service, Quantity: s.Quantity})
	}
	return selections
}

func fromOrder(order *ordersdomain.Order) orderModel {
	items := make([]lineItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemModel{
			Service:   item.Service,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Total:     item.Total(),
		})
	}
	model := orderModel{
		ID:            order.ID,
		CustomerName:  order.Customer.Name,
		CustomerEmail: order.Customer.Email,
		CustomerPhone: order.Customer.Phone,
		UserID:        order.Customer.UserID,
		Items:         items,
		Summary:       order.Summary,
		Mode:          string(order.Mode),
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: string(order.PaymentStatus),
		TotalCost:     order.TotalCost,
		Status:        string(order.Status),
		Notes:         order.Notes,
		DueDate:       order.DueDate.Format("2006-01-02"),
		CreatedAt:     order.CreatedAt.Format(timeLayout),
	}
	if !order.StatusUpdatedAt.IsZero() {
		model.StatusUpdatedAt = order.StatusUpdatedAt.Format(timeLayout)
	}
	return model
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return id, true
}
