package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-bayarcash/app/factory"
	"github.com/vibast-solutions/ms-go-bayarcash/app/mapper"
	"github.com/vibast-solutions/ms-go-bayarcash/app/service"
	"github.com/vibast-solutions/ms-go-bayarcash/app/types"
)

// PaymentController serves the internal API used by the storefront.
type PaymentController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("bayarcash-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *PaymentController) CreatePayment(ctx echo.Context) error {
	req, err := types.NewCreatePaymentRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.paymentService.CreatePayment(ctx.Request().Context(), req)
	if err != nil {
		var gwErr *service.GatewayError
		switch {
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrNotConfigured):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrTransactionNotFound):
			return writeError(ctx, http.StatusNotFound, err.Error())
		case errors.As(err, &gwErr):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Payment intent was not created")
			return ctx.JSON(http.StatusBadGateway, &types.ErrorResponse{Error: gwErr.Message, Code: gwErr.Code})
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create payment failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, mapper.PaymentResultToResponse(result))
}

func (c *PaymentController) GetOrder(ctx echo.Context) error {
	req, err := types.NewGetOrderRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	view, err := c.paymentService.GetOrder(ctx.Request().Context(), req.GetID())
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get order failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.OrderViewToResponse(view))
}

func (c *PaymentController) WebhookURL(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.WebhookURLResponse{WebhookURL: c.paymentService.WebhookURL()})
}

func writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
