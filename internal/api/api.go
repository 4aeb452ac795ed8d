package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/st3v3nmw/urlblock/internal/config"
	"github.com/st3v3nmw/urlblock/internal/history"
	"github.com/st3v3nmw/urlblock/internal/store"
	"github.com/st3v3nmw/urlblock/internal/ui"
)

type APIService struct {
	address string
	echo    *echo.Echo
	store   *store.Store
	history *history.Recorder
}

// New wires the routes for the blocklist. hist may be nil, in which
// case the history and watch endpoints are not registered.
func New(conf config.APIConfig, s *store.Store, hist *history.Recorder) *APIService {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &APIService{
		address: conf.Address(),
		echo:    e,
		store:   s,
		history: hist,
	}

	e.HTTPErrorHandler = errorHandler
	e.Validator = &customValidator{validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	if len(conf.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: conf.CORSOrigins,
		}))
	}
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper:    isRoot,
		Filesystem: http.FS(ui.Static()),
	}))
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper:    isRoot,
		Filesystem: http.FS(ui.Public()),
	}))

	e.FileFS("/", "index.html", ui.Public())
	e.GET("/healthz", health)

	e.GET("/get_blocked_urls", a.getBlockedURLs)
	e.GET("/blocked.json", a.getBlockedURLs)
	e.POST("/add_url", a.addURL)
	e.POST("/remove_url", a.removeURL)
	e.GET("/check_url", a.checkURL)

	if hist != nil {
		e.GET("/history", a.getHistory)
		e.GET("/watch", a.watch)
	}

	return a
}

func (a *APIService) Start() error {
	err := a.echo.Start(a.address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *APIService) Shutdown(ctx context.Context) error {
	return a.echo.Shutdown(ctx)
}

// isRoot leaves "/" to the index route.
func isRoot(c echo.Context) bool {
	return c.Request().URL.Path == "/"
}

// validator
type customValidator struct {
	validator *validator.Validate
}

func (cv *customValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorHandler renders every error as {"error": "..."}. Internal causes
// are logged and never sent to the client.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
		switch {
		case he.Internal == nil:
		case code >= http.StatusInternalServerError:
			slog.Error(msg, "error", he.Internal, "path", c.Path())
		default:
			slog.Debug(msg, "error", he.Internal, "path", c.Path())
		}
	} else {
		slog.Error("unhandled error", "error", err, "path", c.Path())
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		slog.Error("failed to send error response", "error", err)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelDebug
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}

			slog.Log(c.Request().Context(), level, "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	})
}
