// Package trackers provides the sub-workflow tracker module: construction,
// equipment procurement, license applications, staff recruitment and milestones.
package trackers

import (
	"store_opening_backend/internal/adapters/storage"
	"store_opening_backend/internal/authz"
	"store_opening_backend/internal/events"
	apphttp "store_opening_backend/internal/http"
	"store_opening_backend/internal/trackers/handler"
	"store_opening_backend/internal/trackers/repository"
	"store_opening_backend/internal/trackers/service"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the trackers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the trackers module. store may be nil when object storage
// is disabled.
func NewModule(pool *pgxpool.Pool, store storage.StorageService, buckets service.Buckets, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, buckets, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "trackers"
}

// Service returns the service layer for the scheduler.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the tracker routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	read := ctx.Require(authz.TrackersRead)
	write := ctx.Require(authz.TrackersWrite)
	h := m.handler

	construction := ctx.Protected.Group("/construction-projects")
	construction.GET("", read, h.ListConstructions)
	construction.POST("", write, h.CreateConstruction)
	construction.GET("/:id", read, h.GetConstruction)
	construction.PATCH("/:id/progress", write, h.UpdateConstructionProgress)
	construction.POST("/:id/accept", write, h.AcceptConstruction)
	construction.POST("/:id/status", write, h.ChangeConstructionStatus)

	procurement := ctx.Protected.Group("/equipment-procurements")
	procurement.GET("", read, h.ListProcurements)
	procurement.POST("", write, h.CreateProcurement)
	procurement.GET("/:id", read, h.GetProcurement)
	procurement.POST("/:id/status", write, h.ChangeProcurementStatus)
	procurement.POST("/:id/delivery", write, h.ConfirmDelivery)
	procurement.POST("/:id/installation", write, h.ConfirmInstallation)
	procurement.POST("/:id/photos", write, h.UploadInspectionPhoto)

	license := ctx.Protected.Group("/license-applications")
	license.GET("", read, h.ListLicenses)
	license.POST("", write, h.CreateLicense)
	license.GET("/:id", read, h.GetLicense)
	license.PATCH("/:id/progress", write, h.UpdateLicenseProgress)
	license.POST("/:id/issued", write, h.ConfirmIssued)
	license.POST("/:id/certificate", write, h.UploadCertificate)

	recruitment := ctx.Protected.Group("/staff-recruitments")
	recruitment.GET("", read, h.ListRecruitments)
	recruitment.POST("", write, h.CreateRecruitment)
	recruitment.GET("/:id", read, h.GetRecruitment)
	recruitment.POST("/:id/interviews", write, h.UpdateInterviewResult)
	recruitment.POST("/:id/offers", write, h.RecordOffer)
	recruitment.POST("/:id/onboard", write, h.ConfirmOnboard)
	recruitment.POST("/:id/cancel", write, h.CancelRecruitment)

	milestones := ctx.Protected.Group("/milestones")
	milestones.GET("", read, h.ListMilestones)
	milestones.POST("", write, h.CreateMilestone)
	milestones.GET("/:id", read, h.GetMilestone)
	milestones.PATCH("/:id/progress", write, h.UpdateMilestoneProgress)
	milestones.POST("/:id/approve", ctx.Require(authz.MilestonesApprove), h.ApproveMilestone)
}
