package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *APIService) getHistory(c echo.Context) error {
	var limit int
	err := echo.QueryParamsBinder(c).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
	}

	events, err := a.history.Recent(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error reading history").SetInternal(err)
	}

	return c.JSON(http.StatusOK, events)
}
