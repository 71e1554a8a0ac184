package container

import (
	"go.uber.org/zap"

	"visit-bot/config"
	app "visit-bot/internal/application"
	"visit-bot/internal/domain/geo"
	"visit-bot/internal/domain/port"
)

type Container struct {
	ParticipantService *app.ParticipantService
	VisitService       *app.VisitService
	ComplianceService  *app.ComplianceService
	ReportService      *app.ReportService
	ShopService        *app.ShopService
}

// Dependencies хранилища и внешние сервисы, из которых собирается приложение
type Dependencies struct {
	Participants port.ParticipantRepository
	Shops        port.ShopRepository
	Visits       port.VisitRepository
	States       port.StateStore
	Notifier     port.Notifier
	Linker       port.MediaLinker
	Guard        port.NoticeGuard
	Metrics      port.Metrics
	Logger       *zap.Logger
}

func New(cfg *config.Config, deps Dependencies) *Container {
	participantService := app.NewParticipantService(deps.Participants, cfg.Access)
	complianceService := app.NewComplianceService(deps.Visits, cfg.Location)
	reportService := app.NewReportService(deps.Visits, deps.Participants, deps.Shops, deps.Linker, cfg.Location)

	visitService := app.NewVisitService(app.VisitDependencies{
		Participants: participantService,
		Compliance:   complianceService,
		Shops:        deps.Shops,
		Visits:       deps.Visits,
		States:       deps.States,
		Notifier:     deps.Notifier,
		Guard:        deps.Guard,
		Metrics:      deps.Metrics,
		Target: geo.Coordinate{
			Latitude:  cfg.Geofence.Latitude,
			Longitude: cfg.Geofence.Longitude,
		},
		RadiusMeters: cfg.Geofence.RadiusMeters,
		Logger:       deps.Logger,
	})

	return &Container{
		ParticipantService: participantService,
		VisitService:       visitService,
		ComplianceService:  complianceService,
		ReportService:      reportService,
		ShopService:        app.NewShopService(deps.Shops, participantService),
	}
}
