package handlers

import (
	"net/http"

	"chronoboard/services/bell"
	"chronoboard/services/color"
	"chronoboard/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health probe result.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": statusText(status.Healthy), "health": status})
}

func statusText(ok bool) string {
	if ok {
		return "ok"
	}
	return "degraded"
}

type presetResponse struct {
	bell.Preset
	Duration float64 `json:"duration"`
}

// BellPresetsHandler lists the built-in ring presets.
func BellPresetsHandler(c *gin.Context) {
	presets := bell.Presets()
	out := make([]presetResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, presetResponse{Preset: p, Duration: p.Duration()})
	}
	c.JSON(http.StatusOK, gin.H{"presets": out})
}

// ConvertColorHandler converts ?hsl= or ?hex= into both notations.
func ConvertColorHandler(c *gin.Context) {
	var (
		hsl, hex string
		err      error
	)
	switch {
	case c.Query("hsl") != "":
		if hsl, err = color.Normalize(c.Query("hsl")); err == nil {
			hex, err = color.HSLToHex(hsl)
		}
	case c.Query("hex") != "":
		if hsl, err = color.HexToHSL(c.Query("hex")); err == nil {
			hex, err = color.HSLToHex(hsl)
		}
	default:
		utils.JSONError(c, http.StatusBadRequest, "Provide hsl or hex", nil)
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid color", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"hsl": hsl, "hex": hex})
}
