package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/render"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc *dashboard.Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return render.RenderDocument(c, render.Page(svc.Page()))
	})

	app.Get("/partials/:target", func(c *fiber.Ctx) error {
		n, ok := svc.Partial(c.Params("target"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown render target")
		}
		c.Type("html", "utf-8")
		return render.Render(c, n)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(stateResponse(svc))
	})

	v1.Get("/cities/search", func(c *fiber.Ctx) error {
		q := searchQuery{Query: c.Query("q")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{
			"query":   q.Query,
			"results": svc.Search(c.UserContext(), q.Query),
		})
	})

	v1.Post("/boxes/:box/input", func(c *fiber.Ctx) error {
		box, err := dashboard.ParseBox(c.Params("box"))
		if err != nil {
			return mapError(err)
		}
		var req inputRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := svc.Input(box, req.Query); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		q := coordinatesQuery{Latitude: c.Query("latitude"), Longitude: c.Query("longitude")}
		coords, err := q.parse()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f, err := svc.Forecast(c.UserContext(), coords)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch forecast")
		}
		return c.JSON(f)
	})

	v1.Post("/location", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := svc.SelectLocation(c.UserContext(), req.city()); err != nil {
			return mapError(err)
		}
		return c.JSON(stateResponse(svc))
	})

	v1.Post("/location/device", func(c *fiber.Ctx) error {
		var req positionRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		svc.Geolocated(c.UserContext(), weather.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude})
		return c.JSON(stateResponse(svc))
	})

	v1.Post("/location/device/error", func(c *fiber.Ctx) error {
		var req positionErrorRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		msg := req.Message
		if msg == "" {
			msg = "position unavailable"
		}
		svc.GeolocationFailed(errors.New(msg))
		return c.JSON(stateResponse(svc))
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(svc.State().AdditionalCities)
	})

	v1.Post("/cities", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		tracked, err := svc.AddCity(c.UserContext(), req.city())
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(tracked)
	})

	v1.Delete("/cities/:id", func(c *fiber.Ctx) error {
		if err := svc.RemoveCity(c.UserContext(), c.Params("id")); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		svc.RefreshAll(c.UserContext())
		return c.JSON(stateResponse(svc))
	})

	v1.Post("/theme/toggle", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"theme": svc.ToggleTheme(c.UserContext())})
	})

	v1.Delete("/state", func(c *fiber.Ctx) error {
		svc.Reset(c.UserContext())
		return c.JSON(stateResponse(svc))
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// mapError turns dashboard errors into HTTP errors. Validation failures
// carry the same text the page shows inline.
func mapError(err error) error {
	switch {
	case errors.Is(err, weather.ErrNoCitySelected):
		return fiber.NewError(fiber.StatusUnprocessableEntity, render.MsgNoCitySelected)
	case errors.Is(err, weather.ErrDuplicateCity):
		return fiber.NewError(fiber.StatusConflict, render.MsgDuplicateCity)
	case errors.Is(err, weather.ErrCityNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city is not tracked")
	case errors.Is(err, dashboard.ErrUnknownBox):
		return fiber.NewError(fiber.StatusNotFound, "unknown search box")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

// bind decodes an optional JSON body and validates it.
func bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
		}
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func stateResponse(svc *dashboard.Service) fiber.Map {
	return fiber.Map{
		"state": svc.State(),
		"theme": svc.Theme(),
		"phase": svc.Phase(),
	}
}

type searchQuery struct {
	Query string `validate:"max=100"`
}

type inputRequest struct {
	Query string `json:"query" validate:"max=100"`
}

// cityPayload is a suggestion the client picked; it mirrors the data-city
// attribute of a suggestion item.
type cityPayload struct {
	Name      string  `json:"name" validate:"required"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// cityRequest carries the picked suggestion. A payload that does not
// describe a city counts as no selection.
type cityRequest struct {
	City *cityPayload `json:"city" validate:"-"`
}

func (r cityRequest) city() *weather.City {
	if r.City == nil || validate.Struct(r.City) != nil {
		return nil
	}
	return &weather.City{
		Name:      r.City.Name,
		Country:   r.City.Country,
		Latitude:  r.City.Latitude,
		Longitude: r.City.Longitude,
	}
}

type positionRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

type positionErrorRequest struct {
	Message string `json:"message" validate:"max=200"`
}

type coordinatesQuery struct {
	Latitude  string `validate:"required,latitude"`
	Longitude string `validate:"required,longitude"`
}

func (q coordinatesQuery) parse() (weather.Coordinates, error) {
	if err := validate.Struct(q); err != nil {
		return weather.Coordinates{}, err
	}
	lat, err := strconv.ParseFloat(q.Latitude, 64)
	if err != nil {
		return weather.Coordinates{}, err
	}
	lon, err := strconv.ParseFloat(q.Longitude, 64)
	if err != nil {
		return weather.Coordinates{}, err
	}
	return weather.Coordinates{Latitude: lat, Longitude: lon}, nil
}
