package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/domain/payment"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/inbound"
)

// Blocks payment_data keys.
const (
	blocksServiceKey     = "furatpay_service"
	blocksServiceNameKey = "furatpay_service_name"
)

// checkoutAdapter implements inbound.CheckoutHttpPort.
type checkoutAdapter struct {
	domain payment.PaymentDomain
	logger *zap.Logger
}

// NewCheckoutAdapter creates a new checkout HTTP adapter.
func NewCheckoutAdapter(domain payment.PaymentDomain, logger *zap.Logger) inbound.CheckoutHttpPort {
	return &checkoutAdapter{domain: domain, logger: logger}
}

// RegisterCheckoutRoutes registers checkout routes. statusMiddleware wraps the
// status endpoint only.
func RegisterCheckoutRoutes(r *gin.RouterGroup, adapter inbound.CheckoutHttpPort, statusMiddleware ...gin.HandlerFunc) {
	checkout := r.Group("/checkout")
	{
		checkout.POST("/classic", adapter.ClassicCheckout)
		checkout.POST("/blocks", adapter.BlocksCheckout)
		checkout.PUT("/orders/:id/extension-data", adapter.SaveExtensionData)
		checkout.GET("/orders/:id/pay", adapter.PayPage)
		checkout.GET("/orders/:id/status", append(statusMiddleware, adapter.GetStatus)...)
	}
}

// ClassicCheckout starts a payment session from the classic checkout form.
//
//	@Summary		Classic checkout
//	@Description	Creates an invoice and payment session for the order using the selected service
//	@Tags			Checkout
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		model.ClassicCheckoutRequest	true	"Checkout form"
//	@Success		200		{object}	model.CheckoutResponse
//	@Failure		400		{object}	model.ErrorResponse	"Invalid input"
//	@Failure		404		{object}	model.ErrorResponse	"Order not found"
//	@Failure		409		{object}	model.ErrorResponse	"Order already paid"
//	@Failure		422		{object}	model.ErrorResponse	"Service missing or unavailable"
//	@Failure		502		{object}	model.ErrorResponse	"Provider failure"
//	@Failure		503		{object}	model.ErrorResponse	"Gateway unavailable"
//	@Router			/checkout/classic [post]
func (a *checkoutAdapter) ClassicCheckout(c *gin.Context) {
	var req model.ClassicCheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a.createSession(c, model.CheckoutInput{
		OrderID:   req.OrderID,
		ServiceID: req.Service,
		Source:    model.CheckoutSourceClassic,
	})
}

// BlocksCheckout starts a payment session from the blocks checkout.
//
//	@Summary		Blocks checkout
//	@Description	Store API checkout; the service is read from payment_data or from stored extension data
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		model.BlocksCheckoutRequest	true	"Store API payment data"
//	@Success		200		{object}	model.CheckoutResponse
//	@Failure		400		{object}	model.ErrorResponse	"Invalid input"
//	@Failure		422		{object}	model.ErrorResponse	"Service missing or unavailable"
//	@Failure		502		{object}	model.ErrorResponse	"Provider failure"
//	@Router			/checkout/blocks [post]
func (a *checkoutAdapter) BlocksCheckout(c *gin.Context) {
	var req model.BlocksCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a.createSession(c, model.CheckoutInput{
		OrderID:     req.OrderID,
		ServiceID:   req.Value(blocksServiceKey),
		ServiceName: req.Value(blocksServiceNameKey),
		Source:      model.CheckoutSourceBlocks,
	})
}

func (a *checkoutAdapter) createSession(c *gin.Context, in model.CheckoutInput) {
	result, err := a.domain.CreateSession(c.Request.Context(), in)
	if err != nil {
		handlePaymentError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.CheckoutResponse{
		Result:         "success",
		CheckoutResult: result,
	})
}

// SaveExtensionData stores blocks extension data until checkout consumes it.
//
//	@Summary		Save extension data
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Order ID"
//	@Param			request	body		model.ExtensionDataRequest	true	"Extension data"
//	@Success		200		{object}	model.SuccessResponse
//	@Failure		400		{object}	model.ErrorResponse	"Invalid input"
//	@Failure		404		{object}	model.ErrorResponse	"Order not found"
//	@Router			/checkout/orders/{id}/extension-data [put]
func (a *checkoutAdapter) SaveExtensionData(c *gin.Context) {
	var req model.ExtensionDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	data := &model.ExtensionData{ServiceID: req.ServiceID, ServiceName: req.ServiceName}
	if err := a.domain.SaveExtensionData(c.Request.Context(), c.Param("id"), data); err != nil {
		handlePaymentError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "extension data saved"})
}

// PayPage returns what the polling client needs to start.
//
//	@Summary		Pay page bootstrap
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Param			key	query		string	true	"Order key"
//	@Success		200	{object}	model.PayPage
//	@Failure		401	{object}	model.ErrorResponse	"Wrong order key"
//	@Failure		404	{object}	model.ErrorResponse	"Order or session not found"
//	@Router			/checkout/orders/{id}/pay [get]
func (a *checkoutAdapter) PayPage(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		badRequest(c, "key is required")
		return
	}

	page, err := a.domain.PayPage(c.Request.Context(), c.Param("id"), key)
	if err != nil {
		handlePaymentError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetStatus answers a status poll.
//
//	@Summary		Payment status
//	@Description	Returns the status of the order's current payment session
//	@Tags			Checkout
//	@Produce		json
//	@Param			id				path		string	true	"Order ID"
//	@Param			X-Status-Token	header		string	true	"Status token from the pay page"
//	@Success		200				{object}	model.StatusView
//	@Failure		401				{object}	model.ErrorResponse	"Invalid status token"
//	@Failure		404				{object}	model.ErrorResponse	"Order or session not found"
//	@Failure		429				{object}	model.ErrorResponse	"Rate limit exceeded"
//	@Router			/checkout/orders/{id}/status [get]
func (a *checkoutAdapter) GetStatus(c *gin.Context) {
	view, err := a.domain.GetStatus(c.Request.Context(), c.Param("id"), c.GetHeader(model.StatusTokenHeader))
	if err != nil {
		handlePaymentError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Compile-time check
var _ inbound.CheckoutHttpPort = (*checkoutAdapter)(nil)
