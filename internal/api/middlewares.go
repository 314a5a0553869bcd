package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/flashcards-api/internal/context"
)

const bearerPrefix = "Bearer "

var unauthorizedResponse = ErrorResponse{"Unauthorized"} //nolint:gochecknoglobals // this is a constant response for unauthorized access

func AuthMiddleware(jwtProc *JWTProcessor, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			userID, err := jwtProc.ParseAccessToken(token)
			if err != nil {
				log.WarnContext(c.Request().Context(), "parse access token", "error", err)
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			c.SetRequest(c.Request().WithContext(context.WithUserID(c.Request().Context(), userID)))

			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
