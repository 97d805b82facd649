package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/campuslife/campus-climate/internal/calendar"
	"github.com/campuslife/campus-climate/internal/climate"
)

var validate = validator.New()

// RegisterRoutes wires the reporting handlers into the Fiber app. All
// endpoints are pure reads of persisted state; nothing here triggers a
// computation.
func RegisterRoutes(app *fiber.App, engine *climate.Engine) {
	v1 := app.Group("/api/v1")

	v1.Get("/climate/current", func(c *fiber.Ctx) error {
		report, err := engine.CurrentWeather()
		if err != nil {
			if errors.Is(err, climate.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no temperature reading computed yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read current weather")
		}
		return c.JSON(report)
	})

	v1.Get("/climate/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := engine.History(req.From, req.To)
		if err != nil {
			if errors.Is(err, climate.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no readings for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read temperature history")
		}

		return c.JSON(fiber.Map{
			"from":     req.From,
			"to":       req.To,
			"readings": readings,
		})
	})

	v1.Get("/climate/daily", func(c *fiber.Ctx) error {
		// A missing or malformed date falls back to the current campus day.
		since := calendar.ParseCampusDate(c.Query("since"), time.Now())

		records, err := engine.DailyRecords(since)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read daily records")
		}

		return c.JSON(fiber.Map{
			"since":   since,
			"records": records,
		})
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
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
