package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/core/geo"
)

// HeaderLocation carries the caller's coordinate as "<lat>,<lng>".
const HeaderLocation = "Location"

// Location parses the caller's coordinate hint. Missing or malformed values
// leave the request without a location.
func Location() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p, ok := ParseLocation(c.Request().Header.Get(HeaderLocation)); ok {
				c.Set(LocationKey, &p)
			}
			return next(c)
		}
	}
}

// ParseLocation reads a "<lat>,<lng>" pair.
func ParseLocation(raw string) (geo.Point, bool) {
	latRaw, lngRaw, found := strings.Cut(raw, ",")
	if !found {
		return geo.Point{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return geo.Point{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return geo.Point{}, false
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return geo.Point{}, false
	}
	return p, true
}
