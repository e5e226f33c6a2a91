package gateway

import (
	"fmt"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
)

// Resolve returns the gateway bound to provider. A missing gateway means a
// provider can be registered for a usage that ships no implementation.
func Resolve[G Gateway](gateways []G, provider domain.Provider) (G, error) {
	for _, g := range gateways {
		if g.Provider() == provider {
			return g, nil
		}
	}

	var zero G
	return zero, fmt.Errorf("%w: %s", domain.ErrNoGatewayForProvider, provider)
}
