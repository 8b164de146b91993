package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type stubProvider struct{ err error }

func (p stubProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) (*weather.Forecast, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &weather.Forecast{
		Timezone: "Europe/Moscow",
		Days: []weather.ForecastDay{
			{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), WeatherCode: 61, TempMax: 4.6, TempMin: -1.2, PrecipitationProbability: 80, WindSpeed: 12.4},
		},
	}, nil
}

var popular = []weather.City{
	{Name: "Москва", Country: "Россия", Latitude: 55.7558, Longitude: 37.6173},
	{Name: "Казань", Country: "Россия", Latitude: 55.7887, Longitude: 49.1221},
}

func newTestApp(t *testing.T, provider weather.ForecastProvider) (*fiber.App, *dashboard.Service) {
	t.Helper()

	svc := dashboard.New(dashboard.Deps{
		Forecasts: weather.NewService(provider, nil),
		Searcher:  weather.NewSearcher(popular, nil, weather.DefaultSearchOptions(), nil),
		Storage:   store.NewStateStorage(store.NewMemoryKV(), "", "", nil),
	}, dashboard.Options{DebounceDelay: time.Millisecond})
	t.Cleanup(svc.Close)
	svc.Init(context.Background())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc)
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, b)
	}
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}

func page(t *testing.T, app *fiber.App) *goquery.Document {
	t.Helper()
	resp := do(t, app, http.MethodGet, "/", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestPage_PromptsWithoutLocation(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	doc := page(t, app)
	if doc.Find("#cityModal.active").Length() != 1 {
		t.Fatal("manual entry modal is not active")
	}
	if got := doc.Find("#citiesContainer .empty-state").Text(); !strings.Contains(got, "Добавьте города") {
		t.Fatalf("empty state = %q", got)
	}
}

func TestSelectLocation(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	resp := do(t, app, http.MethodPost, "/api/v1/location", `{}`)
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	var errBody struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	decode(t, resp, &errBody)
	if !errBody.Error || errBody.Message != "Пожалуйста, выберите город из списка" {
		t.Fatalf("error body = %+v", errBody)
	}

	resp = do(t, app, http.MethodGet, "/partials/modalCityError", "")
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "Пожалуйста, выберите город из списка") {
		t.Fatalf("modal error partial = %s", b)
	}

	resp = do(t, app, http.MethodPost, "/api/v1/location",
		`{"city":{"name":"Казань","country":"Россия","latitude":55.7887,"longitude":49.1221}}`)
	expectStatus(t, resp, http.StatusOK)

	doc := page(t, app)
	if doc.Find("#cityModal.active").Length() != 0 {
		t.Fatal("modal still active after selection")
	}
	if got := doc.Find("#currentLocationTitle").Text(); got != "📍 Казань" {
		t.Fatalf("title = %q", got)
	}
	if n := doc.Find("#currentLocationWeather article.weather-card.today").Length(); n != 1 {
		t.Fatalf("today cards = %d", n)
	}
}

func TestSelectLocation_InvalidCity(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{})

	tests := []struct {
		name string
		body string
	}{
		{"no name", `{"city":{"latitude":1}}`},
		{"empty name", `{"city":{"name":"","latitude":1,"longitude":2}}`},
		{"latitude out of range", `{"city":{"name":"Казань","latitude":120,"longitude":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, http.MethodPost, "/api/v1/location", tt.body)
			expectStatus(t, resp, http.StatusUnprocessableEntity)
			var errBody struct {
				Message string `json:"message"`
			}
			decode(t, resp, &errBody)
			if errBody.Message != "Пожалуйста, выберите город из списка" {
				t.Fatalf("message = %q", errBody.Message)
			}
			if svc.State().CurrentLocation != nil {
				t.Fatal("current location set from an invalid payload")
			}
		})
	}

	resp := do(t, app, http.MethodPost, "/api/v1/location", `{"city":`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestAddCity_InvalidCity(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{})

	resp := do(t, app, http.MethodPost, "/api/v1/cities", `{"city":{"latitude":1}}`)
	expectStatus(t, resp, http.StatusUnprocessableEntity)

	resp = do(t, app, http.MethodGet, "/partials/addCityError", "")
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "Пожалуйста, выберите город из списка") {
		t.Fatalf("add error partial = %s", b)
	}
	if n := len(svc.State().AdditionalCities); n != 0 {
		t.Fatalf("tracked cities = %d, want 0", n)
	}
}

func TestCities_AddDuplicateRemove(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{})
	body := `{"city":{"name":"Москва","country":"Россия","latitude":55.7558,"longitude":37.6173}}`

	resp := do(t, app, http.MethodPost, "/api/v1/cities", body)
	expectStatus(t, resp, http.StatusCreated)
	var tracked weather.TrackedCity
	decode(t, resp, &tracked)
	if tracked.ID == "" || tracked.Name != "Москва" {
		t.Fatalf("tracked = %+v", tracked)
	}
	svc.Wait()

	resp = do(t, app, http.MethodPost, "/api/v1/cities", body)
	expectStatus(t, resp, http.StatusConflict)

	resp = do(t, app, http.MethodGet, "/api/v1/cities", "")
	expectStatus(t, resp, http.StatusOK)
	var list []weather.TrackedCity
	decode(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("cities = %+v", list)
	}

	doc := page(t, app)
	block := doc.Find(`article.city-block[data-city-id="` + tracked.ID + `"]`)
	if block.Find(".weather-card").Length() != 1 {
		t.Fatal("tracked city forecast not rendered")
	}

	resp = do(t, app, http.MethodDelete, "/api/v1/cities/"+tracked.ID, "")
	expectStatus(t, resp, http.StatusNoContent)
	resp = do(t, app, http.MethodDelete, "/api/v1/cities/"+tracked.ID, "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestCities_FailedForecastShowsError(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{err: errors.New("boom")})

	resp := do(t, app, http.MethodPost, "/api/v1/cities",
		`{"city":{"name":"Казань","latitude":55.7887,"longitude":49.1221}}`)
	expectStatus(t, resp, http.StatusCreated)
	svc.Wait()

	doc := page(t, app)
	if got := doc.Find("#citiesContainer .error-state").Text(); !strings.Contains(got, "Не удалось загрузить погоду") {
		t.Fatalf("error state = %q", got)
	}
}

func TestSearch(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	resp := do(t, app, http.MethodGet, "/api/v1/cities/search?q=%D0%9A%D0%B0%D0%B7", "")
	expectStatus(t, resp, http.StatusOK)
	var body struct {
		Results []weather.City `json:"results"`
	}
	decode(t, resp, &body)
	if len(body.Results) != 1 || body.Results[0].Name != "Казань" {
		t.Fatalf("results = %+v", body.Results)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/cities/search?q=%D0%9A", "")
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &body)
	if len(body.Results) != 0 {
		t.Fatalf("short query results = %+v", body.Results)
	}
}

func TestBoxInput(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{})

	resp := do(t, app, http.MethodPost, "/api/v1/boxes/sidebar/input", `{"query":"Мо"}`)
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, app, http.MethodPost, "/api/v1/boxes/add/input", `{"query":"Мос"}`)
	expectStatus(t, resp, http.StatusAccepted)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, ok := svc.Partial("addCitySuggestions"); ok && len(n.Children) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("suggestions never rendered")
}

func TestForecastQueryValidation(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing longitude", "/api/v1/forecast?latitude=55.7", http.StatusBadRequest},
		{"latitude out of range", "/api/v1/forecast?latitude=91&longitude=37", http.StatusBadRequest},
		{"valid", "/api/v1/forecast?latitude=55.75&longitude=37.61", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, do(t, app, http.MethodGet, tt.target, ""), tt.want)
		})
	}
}

func TestForecast_UpstreamFailure(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{err: errors.New("boom")})
	expectStatus(t, do(t, app, http.MethodGet, "/api/v1/forecast?latitude=1&longitude=2", ""), http.StatusBadGateway)
}

func TestDeviceLocation(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{})

	expectStatus(t, do(t, app, http.MethodPost, "/api/v1/location/device", `{"latitude":55.75}`), http.StatusBadRequest)
	expectStatus(t, do(t, app, http.MethodPost, "/api/v1/location/device", `{"latitude":55.75,"longitude":37.61}`), http.StatusOK)

	if svc.Phase() != dashboard.PhaseReady {
		t.Fatalf("phase = %q", svc.Phase())
	}
	if loc := svc.State().CurrentLocation; loc == nil || !loc.IsGeolocation {
		t.Fatalf("location = %+v", loc)
	}

	expectStatus(t, do(t, app, http.MethodPost, "/api/v1/location/device/error", `{"message":"denied"}`), http.StatusOK)
	if svc.Phase() != dashboard.PhasePrompt {
		t.Fatalf("phase = %q", svc.Phase())
	}
}

func TestThemeAndReset(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{})

	resp := do(t, app, http.MethodPost, "/api/v1/theme/toggle", "")
	expectStatus(t, resp, http.StatusOK)
	var body struct {
		Theme string `json:"theme"`
	}
	decode(t, resp, &body)
	if body.Theme != "dark" {
		t.Fatalf("theme = %q", body.Theme)
	}
	if v, _ := page(t, app).Find("html").Attr("data-theme"); v != "dark" {
		t.Fatalf("data-theme = %q", v)
	}

	expectStatus(t, do(t, app, http.MethodPost, "/api/v1/location/device", `{"latitude":1,"longitude":2}`), http.StatusOK)
	expectStatus(t, do(t, app, http.MethodDelete, "/api/v1/state", ""), http.StatusOK)
	if svc.State().CurrentLocation != nil {
		t.Fatal("location survived reset")
	}
}

func TestPartials(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	expectStatus(t, do(t, app, http.MethodGet, "/partials/nothing-here", ""), http.StatusNotFound)

	resp := do(t, app, http.MethodGet, "/partials/citiesContainer", "")
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `id="citiesContainer"`) {
		t.Fatalf("cities container = %s", b)
	}
}
