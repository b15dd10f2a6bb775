package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PortalService assembles the full portal snapshot for one client in a
// single derivation pass: module gates, project visibility, effective
// document statuses and the action queue, all computed from the same
// instant so the snapshot is internally consistent.
type PortalService struct {
	workspaceRepo *repository.WorkspaceRepository
	clientRepo    *repository.ClientRepository
	projectRepo   *repository.ProjectRepository
	invoiceRepo   *repository.InvoiceRepository
	contractRepo  *repository.ContractRepository
	formRepo      *repository.FormRepository
	fileRepo      *repository.FileRepository
	milestoneRepo *repository.MilestoneRepository
	taskRepo      *repository.TaskRepository
	bookingRepo   *repository.BookingRepository
	messageRepo   *repository.MessageRepository
	settingsRepo  *repository.PortalSettingsRepository
	logger        *zap.Logger
}

// NewPortalService creates a new PortalService instance
func NewPortalService(
	workspaceRepo *repository.WorkspaceRepository,
	clientRepo *repository.ClientRepository,
	projectRepo *repository.ProjectRepository,
	invoiceRepo *repository.InvoiceRepository,
	contractRepo *repository.ContractRepository,
	formRepo *repository.FormRepository,
	fileRepo *repository.FileRepository,
	milestoneRepo *repository.MilestoneRepository,
	taskRepo *repository.TaskRepository,
	bookingRepo *repository.BookingRepository,
	messageRepo *repository.MessageRepository,
	settingsRepo *repository.PortalSettingsRepository,
	logger *zap.Logger,
) *PortalService {
	return &PortalService{
		workspaceRepo: workspaceRepo,
		clientRepo:    clientRepo,
		projectRepo:   projectRepo,
		invoiceRepo:   invoiceRepo,
		contractRepo:  contractRepo,
		formRepo:      formRepo,
		fileRepo:      fileRepo,
		milestoneRepo: milestoneRepo,
		taskRepo:      taskRepo,
		bookingRepo:   bookingRepo,
		messageRepo:   messageRepo,
		settingsRepo:  settingsRepo,
		logger:        logger,
	}
}

// Snapshot builds the portal view for the authenticated viewer. The
// workspace, client and settings are load-bearing: failing to load
// them fails the snapshot. Every document collection degrades to empty
// on a fetch failure instead, with the failed kind reported in the
// Degraded list, so one broken table does not take the whole portal
// down.
func (s *PortalService) Snapshot(ctx context.Context) (*domain.PortalSnapshotDTO, error) {
	viewer := auth.MustFromContext(ctx)
	now := time.Now()

	workspace, err := s.workspaceRepo.GetByID(ctx, viewer.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	client, err := s.clientRepo.GetByID(ctx, viewer.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	modules := settings.Modules
	visibility := settings.ProjectVisibility

	var degraded []string
	degrade := func(kind string, err error) {
		s.logger.Warn("portal snapshot collection degraded to empty",
			zap.String("kind", kind),
			zap.String("client_id", viewer.ClientID.String()),
			zap.Error(err),
		)
		degraded = append(degraded, kind)
	}

	projects, err := s.projectRepo.ListByClient(ctx, viewer.ClientID)
	if err != nil {
		degrade("projects", err)
		projects = nil
	}

	var defaultProject *uuid.UUID
	if p := domain.ResolveDefaultProject(projects, settings); p != nil {
		defaultProject = &p.ID
	}

	var invoices []domain.Invoice
	if modules.Enabled(domain.ModuleInvoices) {
		invoices, err = s.invoiceRepo.ListByClient(ctx, viewer.ClientID)
		if err != nil {
			degrade("invoices", err)
			invoices = nil
		}
	}

	var contracts []domain.Contract
	if modules.Enabled(domain.ModuleContracts) {
		contracts, err = s.contractRepo.ListByClient(ctx, viewer.ClientID)
		if err != nil {
			degrade("contracts", err)
			contracts = nil
		}
	}

	var forms []domain.Form
	var submissions []domain.FormSubmission
	if modules.Enabled(domain.ModuleForms) {
		forms, err = s.formRepo.ListForClient(ctx, viewer.ClientID)
		if err != nil {
			degrade("forms", err)
			forms = nil
		} else {
			submissions, err = s.formRepo.ListSubmissionsByRespondent(ctx, viewer.Email)
			if err != nil {
				degrade("form_submissions", err)
				submissions = nil
			}
		}
	}

	var files []domain.File
	if modules.Enabled(domain.ModuleFiles) {
		files, err = s.fileRepo.ListByClient(ctx, viewer.ClientID)
		if err != nil {
			degrade("files", err)
			files = nil
		}
	}

	visibleIDs := make([]uuid.UUID, 0, len(projects))
	for i := range projects {
		if visibility.Visible(projects[i].ID) {
			visibleIDs = append(visibleIDs, projects[i].ID)
		}
	}

	var milestones []domain.Milestone
	if modules.Enabled(domain.ModuleTimeline) {
		milestones, err = s.milestoneRepo.ListByProjects(ctx, visibleIDs)
		if err != nil {
			degrade("milestones", err)
			milestones = nil
		}
	}

	var tasks []domain.Task
	if modules.Enabled(domain.ModuleTasks) {
		tasks, err = s.taskRepo.ListByProjects(ctx, visibleIDs)
		if err != nil {
			degrade("tasks", err)
			tasks = nil
		}
	}

	var bookings []domain.Booking
	if modules.Enabled(domain.ModuleBookings) {
		bookings, err = s.bookingRepo.ListUpcoming(ctx, viewer.ClientID, now)
		if err != nil {
			degrade("bookings", err)
			bookings = nil
		}
	}

	var unread int64
	if modules.Enabled(domain.ModuleMessages) {
		unread, err = s.messageRepo.CountUnread(ctx, viewer.ClientID, viewer.Role)
		if err != nil {
			degrade("messages", err)
			unread = 0
		}
	}

	queue := domain.ComputeActionQueue(domain.ActionQueueInput{
		Contracts:       contracts,
		Invoices:        invoices,
		Forms:           forms,
		Files:           files,
		Submissions:     submissions,
		RespondentEmail: viewer.Email,
		Visibility:      visibility,
		Modules:         modules,
	}, now)

	snapshot := &domain.PortalSnapshotDTO{
		Workspace:      mapper.ToWorkspaceDTO(workspace),
		Client:         mapper.ToClientDTO(client),
		Projects:       s.projectDTOs(viewer, projects, visibility),
		DefaultProject: defaultProject,
		Invoices:       s.invoiceDTOs(viewer, invoices, visibility, now),
		Contracts:      s.contractDTOs(viewer, contracts, visibility),
		Forms:          s.formDTOs(viewer, forms, submissions, visibility),
		Files:          s.fileDTOs(files, visibility),
		Milestones:     s.milestoneDTOs(milestones),
		Tasks:          s.taskDTOs(tasks),
		Bookings:       s.bookingDTOs(bookings),
		UnreadMessages: unread,
		ActionQueue:    queue,
		Modules:        modules.EnabledModules(),
		AccentColor:    settings.AccentColor,
		WelcomeMessage: settings.WelcomeMessage,
		GeneratedAt:    domain.FormatTime(now),
		Degraded:       degraded,
	}
	return snapshot, nil
}

// ActionQueue derives just the action-needed items for the viewer,
// without assembling the rest of the snapshot. Same gate, visibility
// and degradation rules as Snapshot.
func (s *PortalService) ActionQueue(ctx context.Context) (*domain.ActionQueueDTO, error) {
	viewer := auth.MustFromContext(ctx)
	now := time.Now()

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	modules := settings.Modules

	load := func(kind string, err error) {
		if err != nil {
			s.logger.Warn("action queue collection degraded to empty",
				zap.String("kind", kind),
				zap.String("client_id", viewer.ClientID.String()),
				zap.Error(err),
			)
		}
	}

	var invoices []domain.Invoice
	if modules.Enabled(domain.ModuleInvoices) {
		invoices, err = s.invoiceRepo.ListByClient(ctx, viewer.ClientID)
		load("invoices", err)
	}
	var contracts []domain.Contract
	if modules.Enabled(domain.ModuleContracts) {
		contracts, err = s.contractRepo.ListByClient(ctx, viewer.ClientID)
		load("contracts", err)
	}
	var forms []domain.Form
	var submissions []domain.FormSubmission
	if modules.Enabled(domain.ModuleForms) {
		forms, err = s.formRepo.ListForClient(ctx, viewer.ClientID)
		load("forms", err)
		if err == nil {
			submissions, err = s.formRepo.ListSubmissionsByRespondent(ctx, viewer.Email)
			load("form_submissions", err)
		}
	}
	var files []domain.File
	if modules.Enabled(domain.ModuleFiles) {
		files, err = s.fileRepo.ListByClient(ctx, viewer.ClientID)
		load("files", err)
	}

	queue := domain.ComputeActionQueue(domain.ActionQueueInput{
		Contracts:       contracts,
		Invoices:        invoices,
		Forms:           forms,
		Files:           files,
		Submissions:     submissions,
		RespondentEmail: viewer.Email,
		Visibility:      settings.ProjectVisibility,
		Modules:         modules,
	}, now)

	return &domain.ActionQueueDTO{
		Items:       queue,
		GeneratedAt: domain.FormatTime(now),
	}, nil
}

func (s *PortalService) projectDTOs(viewer *auth.ViewerContext, projects []domain.Project, vis domain.VisibilityMap) []domain.ProjectDTO {
	dtos := make([]domain.ProjectDTO, 0, len(projects))
	for i := range projects {
		visible := vis.Visible(projects[i].ID)
		if viewer.IsClient() && !visible {
			continue
		}
		dtos = append(dtos, mapper.ToProjectDTO(&projects[i], visible))
	}
	return dtos
}

func (s *PortalService) invoiceDTOs(viewer *auth.ViewerContext, invoices []domain.Invoice, vis domain.VisibilityMap, now time.Time) []domain.InvoiceDTO {
	invoices = domain.FilterVisible[domain.Invoice](invoices, nil, vis)
	dtos := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		if viewer.IsClient() && invoices[i].Status == domain.InvoiceStatusDraft {
			continue
		}
		dtos = append(dtos, mapper.ToInvoiceDTO(&invoices[i], now))
	}
	return dtos
}

func (s *PortalService) contractDTOs(viewer *auth.ViewerContext, contracts []domain.Contract, vis domain.VisibilityMap) []domain.ContractDTO {
	contracts = domain.FilterVisible[domain.Contract](contracts, nil, vis)
	dtos := make([]domain.ContractDTO, 0, len(contracts))
	for i := range contracts {
		if viewer.IsClient() && contracts[i].Status == domain.ContractStatusDraft {
			continue
		}
		dtos = append(dtos, mapper.ToContractDTO(&contracts[i], viewer.Role))
	}
	return dtos
}

func (s *PortalService) formDTOs(viewer *auth.ViewerContext, forms []domain.Form, submissions []domain.FormSubmission, vis domain.VisibilityMap) []domain.FormDTO {
	forms = domain.FilterVisible[domain.Form](forms, nil, vis)
	dtos := make([]domain.FormDTO, 0, len(forms))
	for i := range forms {
		dtos = append(dtos, mapper.ToFormDTO(&forms[i], forms[i].PendingFor(viewer.Email, submissions)))
	}
	return dtos
}

func (s *PortalService) fileDTOs(files []domain.File, vis domain.VisibilityMap) []domain.FileDTO {
	files = domain.FilterVisible[domain.File](files, nil, vis)
	dtos := make([]domain.FileDTO, 0, len(files))
	for i := range files {
		dtos = append(dtos, mapper.ToFileDTO(&files[i]))
	}
	return dtos
}

func (s *PortalService) milestoneDTOs(milestones []domain.Milestone) []domain.MilestoneDTO {
	dtos := make([]domain.MilestoneDTO, 0, len(milestones))
	for i := range milestones {
		dtos = append(dtos, mapper.ToMilestoneDTO(&milestones[i]))
	}
	return dtos
}

func (s *PortalService) taskDTOs(tasks []domain.Task) []domain.TaskDTO {
	dtos := make([]domain.TaskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, mapper.ToTaskDTO(&tasks[i]))
	}
	return dtos
}

func (s *PortalService) bookingDTOs(bookings []domain.Booking) []domain.BookingDTO {
	dtos := make([]domain.BookingDTO, 0, len(bookings))
	for i := range bookings {
		dtos = append(dtos, mapper.ToBookingDTO(&bookings[i]))
	}
	return dtos
}
