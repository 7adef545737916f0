package app

import (
	"log/slog"

	"bitget_relay/internal/domain"
	"bitget_relay/internal/execution"
	"bitget_relay/internal/infra"
	"bitget_relay/internal/infra/bitget"
)

// ConfigPath is where the relay looks for its optional config file.
const ConfigPath = "configs/config.yaml"

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Venue   domain.Execution
	Account domain.AccountReader
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization: config, logger, venue.
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping TV→Bitget relay...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(ConfigPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Wire the execution venue
	switch cfg.Execution.Mode {
	case "paper":
		paper := execution.NewPaperExecution()
		b.Venue = paper
		b.Account = paper
		slog.Info("📝 Paper venue active; no exchange traffic will be sent")
	default:
		client := bitget.NewClient(cfg)
		b.Venue = client
		b.Account = client
		if !cfg.HasCredentials() {
			slog.Warn("Bitget credentials incomplete; exchange calls will be rejected upstream")
		}
		slog.Info("✅ Bitget client ready",
			slog.String("rest_url", cfg.API.Bitget.RestURL),
			slog.String("product_type", cfg.API.Bitget.ProductType),
		)
	}

	if cfg.Webhook.Secret == "" {
		slog.Warn("WEBHOOK_SECRET not set; inbound secret check is disabled")
	}

	return nil
}
