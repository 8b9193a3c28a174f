package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kcmvp/pos/constraint"
	"github.com/kcmvp/pos/order"
	"github.com/samber/lo"
)

var errBadRequest = errors.New("bad request")

var badRequests = []error{
	errBadRequest,
	order.ErrEmptyName,
	order.ErrInvalidNumber,
	order.ErrInvalidRow,
	order.ErrInvalidField,
	order.ErrPlaceholderRow,
	order.ErrUnknownItem,
	order.ErrCustomerRequired,
	order.ErrInvalidStatus,
	constraint.ErrRequired,
	constraint.ErrLengthMax,
	constraint.ErrNotOneOf,
}

func abort(c *gin.Context, err error) {
	var pending *order.ConfirmationError
	switch {
	case errors.As(err, &pending):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"pending": gin.H{
				"name":  pending.Name,
				"cost":  pending.Cost,
				"price": pending.Price,
			},
		})
	case errors.Is(err, order.ErrOrderNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case lo.ContainsBy(badRequests, func(target error) bool { return errors.Is(err, target) }):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
