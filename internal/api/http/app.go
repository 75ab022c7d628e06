package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stay-auth/internal/config"
)

// NewApp builds the fiber app. The proxy header is only read for requests
// whose peer is listed in TrustedProxies, so c.IP() cannot be spoofed by clients.
func NewApp(cfg config.AppConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:                 cfg.Name,
		DisableStartupMessage:   cfg.Env != "development",
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	})
}
