package handler

import (
	"errors"
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-level failures to HTTP status codes.
// Integrity rejections are client errors; storage failures are 500s with
// a safe message.
func respondServiceError(c *gin.Context, err error) {
	var stockErr *service.StockError
	var stateErr *service.PurchaseStateError
	var storageErr *service.StorageError

	switch {
	case errors.As(err, &stockErr), errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBranchNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrPurchaseNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &storageErr), errors.Is(err, service.ErrReceiveNotConfirmed):
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
