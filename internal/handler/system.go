package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const welcomeMessage = "Welcome to the Netā-Nomics API"

type welcomeResponse struct {
	Message string `json:"message"`
}

func Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, welcomeResponse{Message: welcomeMessage})
}
