// Package methods holds the JSON-RPC methods served by jsonrpcd.
package methods

import (
	"context"
	"time"

	"github.com/mnehpets/jsonrpcd/jsonrpc"
	"github.com/mnehpets/jsonrpcd/phone"
)

// Service implements the registered methods. Register it with
// Registry.Register("", svc).
type Service struct {
	// Now returns the current time. Defaults to time.Now.
	Now   func() time.Time
	Phone *phone.Parser
}

// NewService returns a Service validating numbers against areaCodes.
func NewService(areaCodes []int) *Service {
	return &Service{
		Now:   time.Now,
		Phone: phone.NewParser(areaCodes...),
	}
}

// Register adds the service's methods to reg.
func (s *Service) Register(reg *jsonrpc.Registry) {
	reg.Register("", s)
}

type HealthcheckParams struct {
	_ struct{} `jsonrpc:"healthcheck"`
}

type HealthcheckResult struct {
	Status    bool  `json:"status"`
	Timestamp int64 `json:"timestamp"`
}

// Healthcheck reports that the service is up, with the current Unix time.
func (s *Service) Healthcheck(_ context.Context, _ HealthcheckParams) (HealthcheckResult, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return HealthcheckResult{Status: true, Timestamp: now().Unix()}, nil
}

type ValidatePhoneNumberParams struct {
	_      struct{} `jsonrpc:"validate_phone_number"`
	Number string   `json:"number"`
}

type ValidatePhoneNumberResult struct {
	// Number is nil when the input is not an accepted number.
	Number *string `json:"number"`
}

// ValidatePhoneNumber normalizes params.Number. A number in an unknown layout
// or with a disallowed area code yields a null number, not an error.
func (s *Service) ValidatePhoneNumber(_ context.Context, params ValidatePhoneNumberParams) (ValidatePhoneNumberResult, error) {
	formatted, ok := s.Phone.Parse(params.Number)
	if !ok {
		return ValidatePhoneNumberResult{}, nil
	}
	return ValidatePhoneNumberResult{Number: &formatted}, nil
}
