//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/celestial-scale/internal/bootstrap"
	"github.com/yanqian/celestial-scale/internal/domain/weighin"
	"github.com/yanqian/celestial-scale/internal/infra/config"
	httpiface "github.com/yanqian/celestial-scale/internal/interface/http"
	"github.com/yanqian/celestial-scale/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideWeighinConfig,
		provideCatalog,
		provideSessionStore,
		provideImageStore,
		weighin.NewService,
		provideSessionManager,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
