package http

import "github.com/labstack/echo/v4"

// Handler is anything that can mount its routes on an Echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
