//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/infra/config"
)

// InitializeDependencies creates all dependencies using Wire.
func InitializeDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, func(), error) {
	wire.Build(
		AppSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
