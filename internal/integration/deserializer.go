// Package integration turns raw registration payloads into typed provider
// configurations and persists them.
package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
)

// Decoder parses a raw configuration payload into one CreateIntegration variant.
type Decoder func(raw []byte) (domain.CreateIntegration, error)

// Deserializer maps a provider tag to the payload shape expected for it.
// Adding a provider means adding one entry here and one Registrar.
type Deserializer struct {
	decoders map[domain.Provider]Decoder
}

func NewDeserializer() *Deserializer {
	validate := validator.New(validator.WithRequiredStructEnabled())

	return &Deserializer{
		decoders: map[domain.Provider]Decoder{
			domain.ProviderSlack:       decoderOf[domain.CreateSlackIntegration](validate),
			domain.ProviderMailjet:     decoderOf[domain.CreateMailjetIntegration](validate),
			domain.ProviderWebhook:     decoderOf[domain.CreateWebhookIntegration](validate),
			domain.ProviderQonto:       decoderOf[domain.CreateQontoIntegration](validate),
			domain.ProviderBilletweb:   decoderOf[domain.CreateBilletwebIntegration](validate),
			domain.ProviderOpenPlanner: decoderOf[domain.CreateOpenPlannerIntegration](validate),
		},
	}
}

// DecoderFor returns the decoder registered for provider.
func (d *Deserializer) DecoderFor(provider domain.Provider) (Decoder, error) {
	decoder, ok := d.decoders[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no payload shape registered for %q", domain.ErrUnknownProvider, provider)
	}
	return decoder, nil
}

func (d *Deserializer) Decode(provider domain.Provider, raw []byte) (domain.CreateIntegration, error) {
	decoder, err := d.DecoderFor(provider)
	if err != nil {
		return nil, err
	}
	return decoder(raw)
}

func decoderOf[T domain.CreateIntegration](validate *validator.Validate) Decoder {
	return func(raw []byte) (domain.CreateIntegration, error) {
		var input T
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, fmt.Errorf("%w: configuration payload is required", domain.ErrValidation)
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&input); err != nil {
			return nil, fmt.Errorf("%w: invalid %s payload: %v", domain.ErrValidation, input.Kind(), err)
		}

		if err := validate.Struct(input); err != nil {
			return nil, fmt.Errorf("%w: invalid %s payload: %s", domain.ErrValidation, input.Kind(), describeValidation(err))
		}

		return input, nil
	}
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
