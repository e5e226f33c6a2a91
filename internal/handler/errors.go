package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
)

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownProvider),
		errors.Is(err, domain.ErrUnknownUsage),
		errors.Is(err, domain.ErrUnsupportedUsage),
		errors.Is(err, domain.ErrNoRegistrarMatch):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotConfigured),
		errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrAmbiguousConfiguration),
		errors.Is(err, domain.ErrNoGatewayForProvider),
		errors.Is(err, domain.ErrNoTemplateForProvider),
		errors.Is(err, domain.ErrProviderConfigMalformed):
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	case gateway.IsProviderError(err):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return err
	}
}
