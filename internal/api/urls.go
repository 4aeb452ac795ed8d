package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/st3v3nmw/urlblock/internal/matcher"
	"github.com/st3v3nmw/urlblock/internal/store"
	"github.com/st3v3nmw/urlblock/internal/types"
)

const errNoURL = "No URL provided"

type urlRequest struct {
	URL string `json:"url" validate:"required"`
}

type checkResponse struct {
	URL     string `json:"url"`
	Blocked bool   `json:"blocked"`
	Match   string `json:"match,omitempty"`
}

// bindURL reads the url field from the JSON body. A body that cannot
// be decoded is treated the same as one without a url.
func bindURL(c echo.Context) (string, error) {
	var req urlRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, errNoURL).SetInternal(err)
	}

	if err := c.Validate(req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, errNoURL)
	}

	return req.URL, nil
}

func (a *APIService) getBlockedURLs(c echo.Context) error {
	urls, err := a.store.ReadAll()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error reading blocked URLs").SetInternal(err)
	}

	return c.JSON(http.StatusOK, urls)
}

func (a *APIService) addURL(c echo.Context) error {
	candidate, err := bindURL(c)
	if err != nil {
		return err
	}

	url, err := a.store.Add(candidate)
	switch {
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "URL already exists")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Error adding URL").SetInternal(err)
	}

	a.record(types.ActionAdd, url)
	return c.JSON(http.StatusCreated, messageResponse{Message: "URL added successfully"})
}

func (a *APIService) removeURL(c echo.Context) error {
	candidate, err := bindURL(c)
	if err != nil {
		return err
	}

	url, err := a.store.Remove(candidate)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "URL not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Error removing URL").SetInternal(err)
	}

	a.record(types.ActionRemove, url)
	return c.JSON(http.StatusOK, messageResponse{Message: "URL removed successfully"})
}

func (a *APIService) checkURL(c echo.Context) error {
	candidate := c.QueryParam("url")
	if candidate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errNoURL)
	}

	urls, err := a.store.ReadAll()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error reading blocked URLs").SetInternal(err)
	}

	url := store.Normalize(candidate)
	m := matcher.New(urls)
	match, blocked := m.Match(url)
	slog.Debug("checked url", "url", url, "blocked", blocked, "entries", m.Len())
	return c.JSON(http.StatusOK, checkResponse{
		URL:     url,
		Blocked: blocked,
		Match:   match,
	})
}

func (a *APIService) record(action types.Action, url string) {
	if a.history != nil {
		a.history.Record(action, url)
	}
}
