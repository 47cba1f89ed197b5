package controller

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-bayarcash/app/factory"
	"github.com/vibast-solutions/ms-go-bayarcash/app/mapper"
	"github.com/vibast-solutions/ms-go-bayarcash/app/service"
	"github.com/vibast-solutions/ms-go-bayarcash/app/types"
)

const returnGuardKey = "bayarcash_return_guard"

// CallbackController serves the routes the gateway and the payer's browser hit.
type CallbackController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewCallbackController(paymentService *service.PaymentService) *CallbackController {
	return &CallbackController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("bayarcash-callback-controller"),
	}
}

func (c *CallbackController) HandleWebhook(ctx echo.Context) error {
	req, err := types.NewWebhookRequestFromContext(ctx)
	if err != nil {
		return callbackError(ctx, http.StatusBadRequest, "invalid callback payload")
	}
	if err := req.Validate(); err != nil {
		return callbackError(ctx, http.StatusBadRequest, err.Error())
	}

	outcome, err := c.paymentService.HandleWebhook(ctx.Request().Context(), req.Values)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature),
			errors.Is(err, service.ErrOrderNotFound),
			errors.Is(err, service.ErrTransactionNotFound),
			errors.Is(err, service.ErrUnknownRecordType):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Webhook rejected")
			return callbackError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Webhook processing failed")
			return callbackError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	factory.LoggerWithContext(c.logger, ctx).WithFields(logrus.Fields{
		"order_id":           outcome.OrderID,
		"record_type":        outcome.RecordType,
		"protected":          outcome.Protected,
		"transaction_status": outcome.TransactionStatus,
	}).Info("Webhook processed")

	return ctx.JSON(http.StatusOK, &types.CallbackResponse{Success: true, Message: "Callback processed"})
}

// ReturnInterceptor reconciles a gateway return before the receipt page
// renders. Anything that is not a Bayarcash return reaches next untouched.
func (c *CallbackController) ReturnInterceptor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		guard, _ := ctx.Get(returnGuardKey).(*service.ReturnGuard)
		if guard == nil {
			guard = &service.ReturnGuard{}
			ctx.Set(returnGuardKey, guard)
		}

		rawURI := ctx.Request().RequestURI
		if rawURI == "" {
			rawURI = ctx.Request().URL.RequestURI()
		}

		outcome, err := c.paymentService.HandleReturn(ctx.Request().Context(), rawURI, guard)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrReturnNotApplicable):
				return next(ctx)
			case errors.Is(err, service.ErrMissingOrderID):
				return errorPage(ctx, http.StatusBadRequest, "Order ID not found")
			case errors.Is(err, service.ErrOrderNotFound):
				return errorPage(ctx, http.StatusNotFound, "Order not found")
			case errors.Is(err, service.ErrTransactionNotFound):
				return errorPage(ctx, http.StatusNotFound, "Transaction not found")
			default:
				factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Return processing failed")
				return errorPage(ctx, http.StatusInternalServerError, "Payment processing failed")
			}
		}

		return ctx.Redirect(http.StatusFound, outcome.RedirectURL)
	}
}

func (c *CallbackController) Receipt(ctx echo.Context) error {
	req := types.NewReceiptRequestFromContext(ctx)
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	view, err := c.paymentService.GetReceipt(ctx.Request().Context(), req.TrxHash)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrTransactionNotFound), errors.Is(err, service.ErrOrderNotFound):
			return writeError(ctx, http.StatusNotFound, "receipt not found")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Receipt lookup failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.OrderViewToResponse(view))
}

func callbackError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.CallbackResponse{Success: false, Message: message})
}

func errorPage(ctx echo.Context, statusCode int, message string) error {
	body := fmt.Sprintf(
		"<!DOCTYPE html><html><head><title>Payment error</title></head><body><h1>Payment error</h1><p>%s</p></body></html>",
		html.EscapeString(message),
	)
	return ctx.HTML(statusCode, body)
}
