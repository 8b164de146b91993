package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Render targets that exist independently of the tracked-city list.
const (
	TargetCurrentWeather   = "currentLocationWeather"
	TargetModalSuggestions = "modalCitySuggestions"
	TargetModalError       = "modalCityError"
	TargetAddSuggestions   = "addCitySuggestions"
	TargetAddError         = "addCityError"
	TargetCitiesContainer  = "citiesContainer"
)

// CityTarget is the render target of a tracked city's forecast.
func CityTarget(id string) string {
	return "city-weather-" + id
}

// User-facing messages.
const (
	MsgLoading        = "Загрузка данных о погоде..."
	MsgLoadFailed     = "Не удалось загрузить погоду"
	MsgNoCitySelected = "Пожалуйста, выберите город из списка"
	MsgDuplicateCity  = "Этот город уже добавлен"
	MsgNoResults      = "Города не найдены"
	MsgEmptyCities    = "Добавьте города для отслеживания погоды"
)

// Loading is the placeholder shown while a forecast is being fetched.
func Loading() *Node {
	return El("div", Opts{Class: "loading-state", Children: []*Node{
		El("div", Opts{Class: "spinner"}),
		El("p", Opts{Text: MsgLoading}),
	}})
}

// ErrorState is the placeholder shown in place of a failed forecast.
func ErrorState(message string) *Node {
	return El("div", Opts{Class: "error-state", Children: []*Node{
		El("div", Opts{Class: "error-icon", Text: "⚠️"}),
		El("p", Opts{Text: message}),
	}})
}

// FieldError is inline text under an input. An empty message renders an
// empty span so the target is cleared.
func FieldError(id, message string) *Node {
	return El("span", Opts{Class: "error-message", ID: id, Text: message})
}

// WeatherView renders the current conditions line and one card per day,
// at most days cards.
func WeatherView(f *weather.Forecast, days int) *Node {
	if f == nil {
		return ErrorState(MsgLoadFailed)
	}

	list := f.Days
	if days > 0 && len(list) > days {
		list = list[:days]
	}

	grid := El("div", Opts{Class: "weather-grid fade-in"})
	for i, d := range list {
		grid.Children = append(grid.Children, WeatherCard(d, i))
	}

	var current *Node
	if !f.Current.Time.IsZero() {
		current = CurrentConditions(f.Current)
	}

	return El("div", Opts{Class: "weather-view", Children: []*Node{current, grid}})
}

// CurrentConditions summarises the "now" block of a forecast.
func CurrentConditions(c weather.Current) *Node {
	cond := weather.LookupCondition(c.WeatherCode)
	return El("div", Opts{Class: "current-conditions", Children: []*Node{
		El("span", Opts{Class: "weather-icon", Text: cond.Icon}),
		El("span", Opts{Class: "temperature", Text: fmt.Sprintf("%d°C", round(c.Temperature))}),
		El("span", Opts{Class: "weather-desc", Text: cond.Description}),
		El("span", Opts{Class: "humidity", Text: fmt.Sprintf("💧 %d%%", round(c.RelativeHumidity))}),
		El("span", Opts{Class: "wind", Text: fmt.Sprintf("💨 %d км/ч", round(c.WindSpeed))}),
	}})
}

// WeatherCard renders one forecast day; index 0 is today.
func WeatherCard(d weather.ForecastDay, index int) *Node {
	cond := weather.LookupCondition(d.WeatherCode)
	maxTemp := round(d.TempMax)
	minTemp := round(d.TempMin)

	class := "weather-card"
	if index == 0 {
		class += " today"
	}

	return El("article", Opts{Class: class, Children: []*Node{
		El("div", Opts{Class: "day-name", Text: common.DayLabel(d.Date, index)}),
		El("div", Opts{Class: "date", Text: common.FormatDate(d.Date)}),
		El("div", Opts{Class: "weather-icon", Text: cond.Icon}),
		El("div", Opts{Class: "temperature", Text: fmt.Sprintf("%d°C", maxTemp)}),
		El("div", Opts{Class: "temp-range", Text: fmt.Sprintf("↓%d° / ↑%d°", minTemp, maxTemp)}),
		El("div", Opts{Class: "weather-desc", Text: cond.Description}),
		El("div", Opts{Class: "weather-details", Children: []*Node{
			detail("💧 Осадки:", strconv.FormatFloat(d.PrecipitationProbability, 'f', -1, 64)+"%"),
			detail("💨 Ветер:", fmt.Sprintf("%d км/ч", round(d.WindSpeed))),
		}}),
	}})
}

func detail(label, value string) *Node {
	return El("div", Opts{Class: "weather-detail-item", Children: []*Node{
		El("span", Opts{Text: label}),
		El("span", Opts{Text: value}),
	}})
}

// round rounds halves up, so 2.5 is 3 and -2.5 is -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Suggestions renders the candidate list of a search box. The list is
// marked active so the client shows it.
func Suggestions(id string, cities []weather.City) *Node {
	list := El("div", Opts{Class: "suggestions-list active", ID: id})
	if len(cities) == 0 {
		list.Children = append(list.Children, El("div", Opts{Class: "no-results", Text: MsgNoResults}))
		return list
	}
	for _, c := range cities {
		list.Children = append(list.Children, suggestionItem(c))
	}
	return list
}

// HiddenSuggestions is an inactive, empty suggestion list.
func HiddenSuggestions(id string) *Node {
	return El("div", Opts{Class: "suggestions-list", ID: id})
}

func suggestionItem(c weather.City) *Node {
	payload, _ := json.Marshal(c)
	return El("div", Opts{
		Class: "suggestion-item",
		Attrs: []Attr{
			{Key: "data-city", Val: string(payload)},
			{Key: "data-label", Val: c.DisplayName()},
		},
		Children: []*Node{
			El("span", Opts{Class: "city-name", Text: c.Name}),
			El("span", Opts{Class: "city-country", Text: c.Country}),
		},
	})
}

// CityBlock renders a tracked city with its forecast content.
func CityBlock(c weather.TrackedCity, content *Node) *Node {
	return El("article", Opts{
		Class: "city-block fade-in",
		Attrs: []Attr{{Key: "data-city-id", Val: c.ID}},
		Children: []*Node{
			El("div", Opts{Class: "city-block-header", Children: []*Node{
				El("h3", Opts{Text: "🏙️ " + c.DisplayName()}),
				El("button", Opts{
					Class: "btn btn-danger",
					Text:  "Удалить",
					Attrs: []Attr{
						{Key: "data-method", Val: "DELETE"},
						{Key: "data-action", Val: "/api/v1/cities/" + c.ID},
					},
				}),
			}}),
			El("div", Opts{Class: "weather-content", ID: CityTarget(c.ID), Children: []*Node{content}}),
		},
	})
}

// EmptyState is shown when no cities are tracked.
func EmptyState() *Node {
	return El("div", Opts{Class: "empty-state", Children: []*Node{
		El("p", Opts{Text: MsgEmptyCities}),
	}})
}

// CurrentLocationTitle is the heading of the primary forecast panel.
func CurrentLocationTitle(loc *weather.Location) string {
	if loc == nil || loc.IsGeolocation {
		return "📍 " + weather.GeolocationName
	}
	return "📍 " + loc.Name
}
