package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var ErrInvalidID = &CustomError{"id must be a positive integer"}

// respondRepoError maps repository and validation errors onto status codes.
func respondRepoError(c *gin.Context, err error) {
	switch {
	case models.IsValidationError(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, models.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, models.ErrAlreadyPersisted), errors.Is(err, models.ErrNotPersisted):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("Request failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// paramID reads a positive numeric path parameter. On failure it writes a
// 400 response and returns false.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}
