package dashboard

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/i474232898/weather-dashboard/internal/render"
)

// Box is a city search input.
type Box string

const (
	BoxModal Box = "modal"
	BoxAdd   Box = "add"
)

var ErrUnknownBox = errors.New("unknown search box")

// ParseBox validates a box name.
func ParseBox(name string) (Box, error) {
	switch b := Box(name); b {
	case BoxModal, BoxAdd:
		return b, nil
	default:
		return "", ErrUnknownBox
	}
}

func (b Box) suggestionsTarget() string {
	if b == BoxModal {
		return render.TargetModalSuggestions
	}
	return render.TargetAddSuggestions
}

func (b Box) errorTarget() string {
	if b == BoxModal {
		return render.TargetModalError
	}
	return render.TargetAddError
}

// Input records a keystroke in box. The box's inline error is cleared at
// once; the search runs after the debounce delay, and only for the last
// query typed. Results land in the box's suggestions target, so a late
// search can overwrite a newer one.
func (s *Service) Input(box Box, query string) error {
	debouncer, ok := s.boxes[box]
	if !ok {
		return ErrUnknownBox
	}

	s.views.Write(box.errorTarget(), render.FieldError(box.errorTarget(), ""))
	debouncer.Trigger(func() {
		s.suggest(box, query)
	})
	return nil
}

func (s *Service) suggest(box Box, query string) {
	target := box.suggestionsTarget()
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < s.searcher.MinLength() {
		s.views.Write(target, render.HiddenSuggestions(target))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.FetchTimeout)
	defer cancel()

	cities := s.searcher.Search(ctx, query)
	s.views.Write(target, render.Suggestions(target, cities))
}

// clearBox hides the suggestions and the inline error of box.
func (s *Service) clearBox(box Box) {
	s.boxes[box].Stop()
	s.views.Write(box.suggestionsTarget(), render.HiddenSuggestions(box.suggestionsTarget()))
	s.views.Write(box.errorTarget(), render.FieldError(box.errorTarget(), ""))
}
