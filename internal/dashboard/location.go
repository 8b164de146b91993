package dashboard

import (
	"context"

	"github.com/i474232898/weather-dashboard/internal/render"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// RequestLocation asks the Locator for the device position, bounded by the
// geolocation timeout. Success makes it the current location; failure
// switches to the manual entry prompt.
func (s *Service) RequestLocation(ctx context.Context) {
	s.setPhase(PhaseLocating)
	s.views.Write(render.TargetCurrentWeather, render.Loading())

	lctx, cancel := context.WithTimeout(ctx, s.opts.GeolocationTimeout)
	coords, err := s.locator.Locate(lctx)
	cancel()
	if err != nil {
		s.GeolocationFailed(err)
		return
	}
	s.Geolocated(ctx, coords)
}

// Geolocated makes the device position the current location and reloads
// every forecast.
func (s *Service) Geolocated(ctx context.Context, coords weather.Coordinates) {
	s.setLocation(ctx, &weather.Location{
		Name:          weather.GeolocationName,
		Latitude:      coords.Latitude,
		Longitude:     coords.Longitude,
		IsGeolocation: true,
	})
}

// GeolocationFailed switches to the manual entry prompt.
func (s *Service) GeolocationFailed(err error) {
	s.logger.Info("geolocation unavailable, prompting for a city", "error", err)
	s.setPhase(PhasePrompt)
}

// SelectLocation makes city the current location. A nil city leaves the
// session untouched and shows an inline error in the prompt.
func (s *Service) SelectLocation(ctx context.Context, city *weather.City) error {
	if city == nil {
		s.views.Write(render.TargetModalError, render.FieldError(render.TargetModalError, render.MsgNoCitySelected))
		return weather.ErrNoCitySelected
	}

	s.clearBox(BoxModal)
	s.setLocation(ctx, &weather.Location{
		Name:      city.Name,
		Country:   city.Country,
		Latitude:  city.Latitude,
		Longitude: city.Longitude,
	})
	return nil
}

func (s *Service) setLocation(ctx context.Context, loc *weather.Location) {
	s.mu.Lock()
	s.state.CurrentLocation = loc
	s.phase = PhaseReady
	state := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info("current location set", "name", loc.Name, "geolocation", loc.IsGeolocation)
	s.persist(ctx, state)
	s.RefreshAll(ctx)
}
