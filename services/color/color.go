// Package color converts the board's HSL color strings ("H S% L%") to and
// from the hex values used by color pickers.
package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for strings that are neither HSL nor hex colors.
var ErrInvalidColor = errors.New("invalid color")

var numberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// HSL is a parsed color: hue in degrees [0,360), saturation and lightness in percent.
type HSL struct {
	H float64
	S float64
	L float64
}

// String renders the color the way it is stored: integer hue and one decimal
// for saturation and lightness, e.g. "275 100% 25.3%".
func (c HSL) String() string {
	h := int(math.Round(c.H)) % 360
	if h < 0 {
		h += 360
	}
	return fmt.Sprintf("%d %s%% %s%%", h, oneDecimal(c.S), oneDecimal(c.L))
}

// ParseHSL reads "H S% L%", "H, S%, L%" or "hsl(H, S%, L%)".
func ParseHSL(s string) (HSL, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return HSL{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	nums := numberPattern.FindAllString(raw, -1)
	if len(nums) != 3 {
		return HSL{}, fmt.Errorf("%w: %q is not an HSL triple", ErrInvalidColor, s)
	}
	var vals [3]float64
	for i, n := range nums {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return HSL{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		vals[i] = v
	}
	c := HSL{H: vals[0], S: vals[1], L: vals[2]}
	if c.H < 0 || c.H > 360 {
		return HSL{}, fmt.Errorf("%w: hue %v out of range", ErrInvalidColor, c.H)
	}
	if c.S < 0 || c.S > 100 || c.L < 0 || c.L > 100 {
		return HSL{}, fmt.Errorf("%w: %q saturation and lightness must be 0-100", ErrInvalidColor, s)
	}
	if c.H == 360 {
		c.H = 0
	}
	return c, nil
}

// HSLToHex converts an HSL string to "#rrggbb".
func HSLToHex(hsl string) (string, error) {
	c, err := ParseHSL(hsl)
	if err != nil {
		return "", err
	}
	return colorful.Hsl(c.H, c.S/100, c.L/100).Clamped().Hex(), nil
}

// HexToHSL converts "#rrggbb" or "#rgb" to an HSL string.
func HexToHSL(hex string) (string, error) {
	c, err := parseHex(hex)
	if err != nil {
		return "", err
	}
	h, s, l := c.Hsl()
	return HSL{H: h, S: s * 100, L: l * 100}.String(), nil
}

// Normalize accepts a hex or HSL color and returns the canonical HSL string.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return HexToHSL(s)
	}
	c, err := ParseHSL(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Valid reports whether s is a hex or HSL color.
func Valid(s string) bool {
	_, err := Normalize(s)
	return err == nil
}

func parseHex(hex string) (colorful.Color, error) {
	hex = strings.ToLower(strings.TrimSpace(hex))
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) == 4 {
		hex = "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
	}
	if len(hex) != 7 {
		return colorful.Color{}, fmt.Errorf("%w: %q is not #rgb or #rrggbb", ErrInvalidColor, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, hex, err)
	}
	return c, nil
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
