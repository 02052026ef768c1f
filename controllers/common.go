package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pinpost-api/middleware"
	"pinpost-api/services"
	"pinpost-api/utils"
)

// getUserID pulls the authenticated user id out of the Gin context.
func getUserID(ctx *gin.Context) (string, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// parsePagination normalizes page/limit query values.
func parsePagination(pageStr, limitStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// respondBindingError reports a failed request binding. Field-level validator
// failures are listed individually in the data payload.
func respondBindingError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Error())
		}
		utils.FailData(ctx, http.StatusBadRequest, "validation failed", msgs)
		return
	}
	utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
}

// respondServiceError maps service-layer sentinel errors onto HTTP statuses.
// Unrecognized errors are logged and reported as 500 without leaking detail.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Fail(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.Fail(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.Fail(ctx, http.StatusConflict, err.Error())
	default:
		utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "error", err)
		utils.Fail(ctx, http.StatusInternalServerError, "internal server error")
	}
}
