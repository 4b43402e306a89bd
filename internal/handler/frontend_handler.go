package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// pageRoutes maps browser routes to the HTML page that renders them.
var pageRoutes = map[string]string{
	"/":            "login.html",
	"/cadastro":    "cadastro.html",
	"/dashboard":   "index.html",
	"/usuarios":    "usuarios.html",
	"/alunos":      "alunos.html",
	"/professores": "professores.html",
}

// FrontendHandler serves the static pages and their assets from disk.
type FrontendHandler struct {
	dir string
}

// NewFrontendHandler returns nil when dir is not a directory, which leaves the
// API running without a UI.
func NewFrontendHandler(dir string) *FrontendHandler {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return &FrontendHandler{dir: dir}
}

// Register mounts the asset directories and page routes.
func (h *FrontendHandler) Register(r gin.IRoutes) {
	r.Static("/assets", filepath.Join(h.dir, "assets"))
	r.Static("/pages", filepath.Join(h.dir, "pages"))
	for route, page := range pageRoutes {
		r.GET(route, h.page(page))
	}
}

func (h *FrontendHandler) page(name string) gin.HandlerFunc {
	path := filepath.Join(h.dir, "pages", name)
	return func(c *gin.Context) {
		if _, err := os.Stat(path); err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(path)
	}
}
