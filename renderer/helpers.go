package renderer

import (
	"errors"
	"fmt"

	"github.com/etnz/drip"
)

// Message turns an analysis error into a message for the user.
func Message(err error) string {
	var ferr *drip.FetchError
	var verr *drip.ValidationError
	switch {
	case errors.As(err, &ferr):
		switch ferr.Kind {
		case drip.NotFound:
			return fmt.Sprintf("no market data found for %s, check the symbol.", ferr.Symbol)
		case drip.RangeUnavailable:
			return fmt.Sprintf("no market data for %s in the requested period.", ferr.Symbol)
		case drip.Unavailable:
			return fmt.Sprintf("market data for %s is unavailable right now, try again later (%v).", ferr.Symbol, ferr.Err)
		}
	case errors.As(err, &verr):
		return fmt.Sprintf("cannot simulate: %v.", verr)
	case errors.Is(err, drip.ErrInvalidRequest):
		return fmt.Sprintf("cannot run the analysis: %v.", err)
	}
	return err.Error()
}
