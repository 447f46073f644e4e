package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pivovar/internal/models"
	"pivovar/internal/service"
)

const (
	statusOK = "ok"

	errLoadWashMachine    = "failed to load wash machine"
	errReorderPhases      = "failed to reorder phases"
	errUnknownWashMachine = "unknown wash machine"
	errInvalidBodyPref    = "invalid body: "
)

// logAndJSONError logs err under logKey and writes userMsg with httpCode.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": statusOK}
	if h.store != nil {
		resp["wash_machines"] = h.store.Len()
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      List wash machines
// @Tags         wash_machines
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, wash_machines"
// @Router       /api/v1/wash_machines [get]
func (h *Handler) listWashMachines(c *gin.Context) {
	wms := h.services.WashMachines(c.Request.Context())
	if wms == nil {
		wms = []models.WashMachine{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(wms),
		"wash_machines": wms,
	})
}

// @Summary      Get one wash machine
// @Tags         wash_machines
// @Produce      json
// @Param        name  path      string  true  "Wash machine name"
// @Success      200   {object}  models.WashMachine
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/wash_machines/{name} [get]
func (h *Handler) getWashMachine(c *gin.Context) {
	wm, err := h.services.WashMachine(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrWashMachineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUnknownWashMachine})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadWashMachine, "wash_machine_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, wm)
}

// @Summary      Reorder phases
// @Description  The new order must be a permutation of the current phases. It is persisted and pushed to open dashboards.
// @Tags         wash_machines
// @Accept       json
// @Produce      json
// @Param        name  path      string                 true  "Wash machine name"
// @Param        body  body      service.ReorderParams  true  "Phase order"
// @Success      200   {object}  models.WashMachine
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/wash_machines/{name}/phases [put]
// @Security     BearerAuth
func (h *Handler) reorderPhases(c *gin.Context) {
	var req service.ReorderParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	name := c.Param("name")

	wm, err := h.services.Reorder(c.Request.Context(), name, req.Phases)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, wm)
	case errors.Is(err, service.ErrWashMachineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownWashMachine})
	case errors.Is(err, service.ErrInvalidPhaseOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errReorderPhases, "phases_reorder_failed", err, "wash_machine", name)
	}
}
