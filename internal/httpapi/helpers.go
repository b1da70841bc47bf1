package httpapi

import (
	"io"

	"github.com/labstack/echo/v4"
)

// readBody reads and returns the full request body. Values are stored as
// opaque bytes; the engine never interprets their contents.
func readBody(c Context) ([]byte, error) {
	defer c.Request().Body.Close()
	return io.ReadAll(c.Request().Body)
}

func wrapHandler(h HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(c.(Context))
	}
}

func wrapMiddleware(m MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return m(func(ctx Context) error {
				return next(ctx)
			})(c)
		}
	}
}

func wrapMiddlewares(middlewares []MiddlewareFunc) []echo.MiddlewareFunc {
	result := make([]echo.MiddlewareFunc, len(middlewares))
	for i, m := range middlewares {
		result[i] = wrapMiddleware(m)
	}
	return result
}
