package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/tempedge/internal/rounding"
	"github.com/i474232898/tempedge/internal/store"
	"github.com/i474232898/tempedge/internal/weather"
)

var validate = validator.New()

// StationLookup resolves a station id to its configuration.
type StationLookup interface {
	Station(id string) (weather.Station, bool)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, stations StationLookup) {
	v1 := app.Group("/api/v1")

	v1.Get("/reports/latest", func(c *fiber.Ctx) error {
		st, err := parseStationQuery(c, stations)
		if err != nil {
			return err
		}

		report, err := service.GetLatest(st.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no report yet for requested station")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch report")
		}

		return c.JSON(report)
	})

	v1.Get("/reports/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c, stations); err != nil {
			return err
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := service.GetRange(req.Station.ID, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no reports for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch report history")
		}

		return c.JSON(fiber.Map{
			"station": req.Station,
			"from":    req.From,
			"to":      req.To,
			"reports": reports,
		})
	})

	v1.Get("/resolve", func(c *fiber.Ctx) error {
		var req resolveQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		set := rounding.ResolveCandidates(req.Celsius)
		return c.JSON(fiber.Map{
			"set":        set,
			"likelyF":    rounding.LikelyValue(set),
			"displayedF": rounding.DisplayedFahrenheit(float64(req.Celsius)),
		})
	})
}

// stationQuery holds the query parameter identifying a station.
type stationQuery struct {
	ID string `validate:"required,len=4,alphanum"`
}

func parseStationQuery(c *fiber.Ctx, stations StationLookup) (weather.Station, error) {
	q := stationQuery{ID: strings.ToUpper(strings.TrimSpace(c.Query("station")))}
	if err := validate.Struct(q); err != nil {
		return weather.Station{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	st, ok := stations.Station(q.ID)
	if !ok {
		return weather.Station{}, fiber.NewError(fiber.StatusNotFound, "unknown station "+q.ID)
	}
	return st, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Station weather.Station `validate:"-"`
	From    time.Time       `validate:"required"`
	To      time.Time       `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx, stations StationLookup) error {
	st, err := parseStationQuery(c, stations)
	if err != nil {
		return err
	}
	h.Station = st

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	to, err := parseTime(toStr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.From = from
	h.To = to
	return nil
}

// resolveQuery holds the whole-degree Celsius value to resolve.
type resolveQuery struct {
	Celsius int `validate:"gte=-90,lte=60"`
}

func (r *resolveQuery) bind(c *fiber.Ctx) error {
	raw := c.Query("celsius")
	if raw == "" {
		return errors.New("celsius query parameter is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("celsius must be a whole number")
	}
	r.Celsius = n
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
