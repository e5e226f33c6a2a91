package domain

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Registration errors. All of them are caused by the client.
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrUnknownUsage     = errors.New("unknown usage")
	ErrUnsupportedUsage = errors.New("unsupported usage")
	ErrNoRegistrarMatch = errors.New("no registrar for this input/usage combination")

	// Dispatch errors.
	ErrNotConfigured           = errors.New("integration not configured")
	ErrAmbiguousConfiguration  = errors.New("ambiguous integration configuration")
	ErrNoGatewayForProvider    = errors.New("no gateway for provider")
	ErrNoTemplateForProvider   = errors.New("no template for provider")
	ErrProviderConfigMalformed = errors.New("provider configuration malformed")
)
