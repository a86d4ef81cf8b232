package stripe

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/domain/processor"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
	"github.com/stripe/stripe-go/v82"
)

// Client talks to Stripe with the portal's single platform account
type Client struct {
	api    *stripe.Client
	logger *logger.Logger
}

var _ processor.Gateway = (*Client)(nil)

// NewClient creates a new Stripe client
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		api:    stripe.NewClient(cfg.Stripe.SecretKey, nil),
		logger: logger,
	}
}

// decode copies a typed stripe object into the portal's processor type.
// The raw response body is preferred since it carries fields of newer API
// versions that the typed struct may not model.
func decode(out any, resp *stripe.APIResponse, obj any) error {
	if resp != nil && len(resp.RawJSON) > 0 {
		if err := json.Unmarshal(resp.RawJSON, out); err == nil {
			return nil
		}
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not read the payment processor response").
			Mark(ierr.ErrSystem)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return ierr.WithError(err).
			WithHint("Could not read the payment processor response").
			Mark(ierr.ErrSystem)
	}
	return nil
}

// wrapError classifies a stripe error. Card errors reach the member as a
// validation failure with Stripe's message; unknown objects become not found.
func wrapError(err error, op string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	details["operation"] = op

	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return ierr.WithError(err).
			WithHint("Payment processor request failed").
			WithReportableDetails(details).
			Mark(ierr.ErrHTTPClient)
	}

	details["stripe_error_code"] = string(stripeErr.Code)
	details["stripe_error_type"] = string(stripeErr.Type)

	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		return ierr.WithError(err).
			WithHint(stripeErr.Msg).
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	case stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound:
		return ierr.WithError(err).
			WithHint("Payment processor object not found").
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		return ierr.WithError(err).
			WithHint(stripeErr.Msg).
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	default:
		return ierr.WithError(err).
			WithHint("Payment processor request failed").
			WithReportableDetails(details).
			Mark(ierr.ErrHTTPClient)
	}
}
