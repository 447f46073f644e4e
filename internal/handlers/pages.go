package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pivovar/internal/logger"
	"pivovar/internal/web"
)

const (
	defaultConsoleLines = 200
	errRenderPage       = "failed to render page"
)

func (h *Handler) page(c *gin.Context, active string) web.Page {
	return web.Page{
		Locale:      h.locale(c),
		Locales:     h.catalog.Locales(),
		Active:      active,
		AuthEnabled: h.authEnabled,
	}
}

func (h *Handler) render(c *gin.Context, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.Render(&buf, name, h.locale(c), data); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRenderPage, "page_render_failed", err, "page", name)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) washMachinesPage(c *gin.Context) {
	h.render(c, "wash_machines", web.WashMachinesPage{
		Page:    h.page(c, "wash_machines"),
		Devices: web.DeviceList(h.store),
	})
}

func (h *Handler) fermentersPage(c *gin.Context) {
	h.render(c, "fermenters", h.page(c, "fermenters"))
}

func (h *Handler) consolePage(c *gin.Context) {
	h.render(c, "console", web.ConsolePage{
		Page:    h.page(c, "console"),
		Entries: h.consoleEntries(defaultConsoleLines),
	})
}

// @Summary      Recent log lines
// @Tags         logs
// @Produce      json
// @Param        n    query     int  false  "Number of lines"  default(200)
// @Success      200  {object}  map[string]interface{}  "count, entries"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/console [get]
// @Security     BearerAuth
func (h *Handler) getConsole(c *gin.Context) {
	n := defaultConsoleLines
	if s := c.Query("n"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			n = v
		}
	}
	entries := h.consoleEntries(n)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

func (h *Handler) consoleEntries(n int) []logger.ConsoleEntry {
	if h.console == nil {
		return []logger.ConsoleEntry{}
	}
	return h.console.Recent(n)
}
