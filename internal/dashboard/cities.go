package dashboard

import (
	"context"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/render"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// AddCity starts tracking city. The new entry goes to the front of the list
// and is persisted before its forecast arrives; the fetch runs in the
// background. A nil city or one within the proximity threshold of a
// tracked city is rejected with an inline error and no state change.
func (s *Service) AddCity(ctx context.Context, city *weather.City) (weather.TrackedCity, error) {
	if city == nil {
		s.views.Write(render.TargetAddError, render.FieldError(render.TargetAddError, render.MsgNoCitySelected))
		return weather.TrackedCity{}, weather.ErrNoCitySelected
	}

	s.mu.Lock()
	for _, c := range s.state.AdditionalCities {
		if c.Coordinates().Near(city.Coordinates(), s.opts.ProximityThreshold) {
			s.mu.Unlock()
			s.views.Write(render.TargetAddError, render.FieldError(render.TargetAddError, render.MsgDuplicateCity))
			return weather.TrackedCity{}, weather.ErrDuplicateCity
		}
	}

	tracked := weather.TrackedCity{
		ID:        common.NewID(),
		Name:      city.Name,
		Country:   city.Country,
		Latitude:  city.Latitude,
		Longitude: city.Longitude,
	}
	s.state.AdditionalCities = append([]weather.TrackedCity{tracked}, s.state.AdditionalCities...)
	target := render.CityTarget(tracked.ID)
	s.views.Write(target, render.Loading())
	state := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info("city added", "id", tracked.ID, "name", tracked.Name)
	s.persist(ctx, state)
	s.clearBox(BoxAdd)

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()

		fctx, cancel := context.WithTimeout(context.Background(), s.opts.FetchTimeout)
		defer cancel()
		s.forecasts.FetchEach(fctx, []weather.Target{{ID: target, Coords: tracked.Coordinates()}}, s.deliver)
	}()

	return tracked, nil
}

// RemoveCity stops tracking the city with id. The other entries keep their
// order.
func (s *Service) RemoveCity(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, c := range s.state.AdditionalCities {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return weather.ErrCityNotFound
	}

	cities := make([]weather.TrackedCity, 0, len(s.state.AdditionalCities)-1)
	cities = append(cities, s.state.AdditionalCities[:idx]...)
	cities = append(cities, s.state.AdditionalCities[idx+1:]...)
	s.state.AdditionalCities = cities
	s.views.Delete(render.CityTarget(id))
	state := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info("city removed", "id", id, "remaining", len(state.AdditionalCities))
	s.persist(ctx, state)
	return nil
}
