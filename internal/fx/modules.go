package fx

import (
	"database/sql"

	"bolao/internal/api"
	"bolao/internal/config"
	"bolao/internal/database"
	"bolao/internal/db"
	"bolao/internal/logger"
	"bolao/internal/repository"
	"bolao/internal/scheduler"
	"bolao/internal/server"
	"bolao/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(service.NewClock),
	// repos
	fx.Provide(repository.NewPoolRepository),
	fx.Provide(repository.NewTicketRepository),
	fx.Provide(repository.NewDrawRepository),
	// api client
	fx.Provide(api.NewCaixaClient),
	// svc
	fx.Provide(service.NewScheduleService),
	fx.Provide(service.NewDrawService),
	fx.Provide(service.NewPoolService),
	fx.Provide(service.NewResultService),
	// jobs
	fx.Provide(scheduler.NewDrawSync),
	fx.Invoke(scheduler.Register),
	// server
	fx.Provide(server.NewBolaoServer),
)
