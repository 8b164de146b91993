package render

import (
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// PageModel is everything the full dashboard page is built from.
type PageModel struct {
	Theme weather.Theme
	State weather.State
	// Prompting shows the manual city entry modal instead of the
	// current location section.
	Prompting bool
	// View returns the latest content written to a render target, or nil.
	View func(target string) *Node
}

func (m PageModel) view(target string) *Node {
	if m.View == nil {
		return nil
	}
	return m.View(target)
}

// Page builds the whole dashboard document.
func Page(m PageModel) *Node {
	return El("html", Opts{
		Attrs: []Attr{{Key: "lang", Val: "ru"}, {Key: "data-theme", Val: string(m.Theme)}},
		Children: []*Node{
			El("head", Opts{Children: []*Node{
				El("meta", Opts{Attrs: []Attr{{Key: "charset", Val: "utf-8"}}}),
				El("title", Opts{Text: "Прогноз погоды"}),
			}}),
			El("body", Opts{Children: []*Node{
				El("div", Opts{ID: "app", Children: []*Node{
					El("div", Opts{Class: "app-container", Children: []*Node{
						header(m.Theme),
						modal(m),
						El("main", Opts{Class: "main-content", Children: []*Node{
							currentLocationSection(m),
							addCitySection(m),
							citiesSection(m),
						}}),
						footer(),
					}}),
				}}),
			}}),
		},
	})
}

func header(theme weather.Theme) *Node {
	icon := "🌙"
	if theme == weather.ThemeDark {
		icon = "☀️"
	}
	return El("header", Opts{Class: "header", Children: []*Node{
		El("h1", Opts{Text: "🌤️ Прогноз погоды"}),
		El("div", Opts{Class: "header-controls", Children: []*Node{
			button("btn btn-icon", "Сменить тему", "POST", "/api/v1/theme/toggle",
				El("span", Opts{Class: "theme-icon", Text: icon})),
			button("btn btn-refresh", "Обновить", "POST", "/api/v1/refresh",
				El("span", Opts{Class: "refresh-icon", Text: "↻"}), Txt(" Обновить")),
			button("btn btn-reset", "Сбросить данные", "DELETE", "/api/v1/state", Txt("🗑️")),
		}}),
	}})
}

func button(class, title, method, action string, children ...*Node) *Node {
	return El("button", Opts{
		Class: class,
		Attrs: []Attr{
			{Key: "title", Val: title},
			{Key: "data-method", Val: method},
			{Key: "data-action", Val: action},
		},
		Children: children,
	})
}

func modal(m PageModel) *Node {
	class := "modal"
	if m.Prompting {
		class += " active"
	}
	return El("div", Opts{Class: class, ID: "cityModal", Children: []*Node{
		El("div", Opts{Class: "modal-content", Children: []*Node{
			El("h2", Opts{Text: "Введите город"}),
			El("p", Opts{Text: "Геолокация недоступна. Введите название вашего города для получения прогноза погоды."}),
			inputWrapper(m, "modalCityInput", "Начните вводить название города...", "modal",
				TargetModalSuggestions, TargetModalError),
			button("btn btn-primary", "Получить погоду", "POST", "/api/v1/location", Txt("Получить погоду")),
		}}),
	}})
}

func inputWrapper(m PageModel, inputID, placeholder, box, suggestionsID, errorID string) *Node {
	suggestions := m.view(suggestionsID)
	if suggestions == nil {
		suggestions = HiddenSuggestions(suggestionsID)
	}
	fieldErr := m.view(errorID)
	if fieldErr == nil {
		fieldErr = FieldError(errorID, "")
	}
	return El("div", Opts{Class: "input-wrapper", Children: []*Node{
		El("input", Opts{ID: inputID, Attrs: []Attr{
			{Key: "type", Val: "text"},
			{Key: "placeholder", Val: placeholder},
			{Key: "autocomplete", Val: "off"},
			{Key: "data-box", Val: box},
		}}),
		suggestions,
		fieldErr,
	}})
}

func currentLocationSection(m PageModel) *Node {
	var attrs []Attr
	if m.Prompting {
		attrs = append(attrs, Attr{Key: "style", Val: "display: none"})
	}
	content := m.view(TargetCurrentWeather)
	if content == nil {
		content = Loading()
	}
	return El("section", Opts{
		Class: "weather-section current-location",
		ID:    "currentLocationSection",
		Attrs: attrs,
		Children: []*Node{
			El("div", Opts{Class: "section-header", Children: []*Node{
				El("h2", Opts{ID: "currentLocationTitle", Text: CurrentLocationTitle(m.State.CurrentLocation)}),
			}}),
			El("div", Opts{Class: "weather-content", ID: TargetCurrentWeather, Children: []*Node{content}}),
		},
	})
}

func addCitySection(m PageModel) *Node {
	return El("section", Opts{Class: "add-city-section", Children: []*Node{
		El("h2", Opts{Text: "➕ Добавить город"}),
		El("div", Opts{Class: "add-city-form", Children: []*Node{
			inputWrapper(m, "addCityInput", "Введите название города...", "add",
				TargetAddSuggestions, TargetAddError),
			button("btn btn-primary", "Добавить", "POST", "/api/v1/cities", Txt("Добавить")),
		}}),
	}})
}

func citiesSection(m PageModel) *Node {
	return El("section", Opts{Class: "additional-cities", ID: "additionalCities", Children: []*Node{
		El("h2", Opts{Text: "🏙️ Другие города"}),
		CitiesContainer(m),
	}})
}

// CitiesContainer renders every tracked city block, or the empty state.
func CitiesContainer(m PageModel) *Node {
	container := El("div", Opts{Class: "cities-container", ID: TargetCitiesContainer})
	if len(m.State.AdditionalCities) == 0 {
		container.Children = append(container.Children, EmptyState())
		return container
	}
	for _, c := range m.State.AdditionalCities {
		content := m.view(CityTarget(c.ID))
		if content == nil {
			content = Loading()
		}
		container.Children = append(container.Children, CityBlock(c, content))
	}
	return container
}

func footer() *Node {
	return El("footer", Opts{Class: "footer", Children: []*Node{
		El("p", Opts{Children: []*Node{
			Txt("Данные предоставлены "),
			El("a", Opts{Text: "Open-Meteo", Attrs: []Attr{
				{Key: "href", Val: "https://open-meteo.com/"},
				{Key: "target", Val: "_blank"},
			}}),
		}}),
	}})
}
