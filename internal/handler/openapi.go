package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/labstack/echo/v4"
)

const openAPIUIPath = "static/openapi.html"

// OpenAPIHandler serves /docs, the page documenting the dataset routes.
// The page fetches its document from /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	uiPath string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		uiPath:  openAPIUIPath,
	}
}

// ServeOpenAPIUI reads the page on every request so an edited
// openapi.html shows up without a restart.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")

	page, err := os.ReadFile(h.uiPath)
	if err != nil {
		return fmt.Errorf("read docs page %s: %w", h.uiPath, err)
	}
	return c.HTML(http.StatusOK, string(page))
}
