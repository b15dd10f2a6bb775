package mapper

import (
	"time"

	"github.com/jolix/portal-api/internal/domain"
)

// ToWorkspaceDTO converts Workspace to WorkspaceDTO
func ToWorkspaceDTO(workspace *domain.Workspace) domain.WorkspaceDTO {
	return domain.WorkspaceDTO{
		ID:       workspace.ID,
		Slug:     workspace.Slug,
		Name:     workspace.Name,
		Logo:     workspace.Logo,
		IsActive: workspace.IsActive,
	}
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:          client.ID,
		Slug:        client.Slug,
		Name:        client.Name,
		Email:       client.Email,
		Phone:       client.Phone,
		CompanyName: client.CompanyName,
		IsActive:    client.IsActive,
		CreatedAt:   domain.FormatTime(client.CreatedAt),
		UpdatedAt:   domain.FormatTime(client.UpdatedAt),
	}
}

// ToProjectDTO converts Project to ProjectDTO. Visibility is decided by
// the caller against the workspace visibility map.
func ToProjectDTO(project *domain.Project, visible bool) domain.ProjectDTO {
	return domain.ProjectDTO{
		ID:          project.ID,
		ClientID:    project.ClientID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		StartDate:   domain.FormatTimePtr(project.StartDate),
		EndDate:     domain.FormatTimePtr(project.EndDate),
		Visible:     visible,
		CreatedAt:   domain.FormatTime(project.CreatedAt),
		UpdatedAt:   domain.FormatTime(project.UpdatedAt),
	}
}

// ToInvoiceDTO converts Invoice to InvoiceDTO. The status field carries
// the effective status for the given instant, so an invoice past its
// due date reads as overdue without any write to the stored row.
func ToInvoiceDTO(invoice *domain.Invoice, now time.Time) domain.InvoiceDTO {
	return domain.InvoiceDTO{
		ID:         invoice.ID,
		ClientID:   invoice.ClientID,
		ProjectID:  invoice.ProjectID,
		Number:     invoice.Number,
		Title:      invoice.Title,
		Amount:     invoice.Amount,
		AmountPaid: invoice.AmountPaid,
		Currency:   invoice.Currency,
		Status:     invoice.EffectiveStatus(now),
		IssuedAt:   domain.FormatTimePtr(invoice.IssuedAt),
		DueDate:    domain.FormatTimePtr(invoice.DueDate),
		ViewedAt:   domain.FormatTimePtr(invoice.ViewedAt),
		PaidAt:     domain.FormatTimePtr(invoice.PaidAt),
		CreatedAt:  domain.FormatTime(invoice.CreatedAt),
		UpdatedAt:  domain.FormatTime(invoice.UpdatedAt),
	}
}

// ToContractDTO converts Contract to ContractDTO. Status is the
// composite reconciled from both signature sides; DisplayStatus is the
// same value adjusted for the viewer.
func ToContractDTO(contract *domain.Contract, viewer domain.ViewerRole) domain.ContractDTO {
	view := domain.StatusFor(contract, viewer)
	return domain.ContractDTO{
		ID:              contract.ID,
		ClientID:        contract.ClientID,
		ProjectID:       contract.ProjectID,
		Title:           contract.Title,
		Status:          view.Composite,
		DisplayStatus:   view.Display,
		ClientSignature: contract.ClientSignature,
		AgencySignature: contract.AgencySignature,
		ClientSignedAt:  domain.FormatTimePtr(contract.ClientSignedAt),
		AgencySignedAt:  domain.FormatTimePtr(contract.AgencySignedAt),
		ExpiresAt:       domain.FormatTimePtr(contract.ExpiresAt),
		FileID:          contract.FileID,
		CreatedAt:       domain.FormatTime(contract.CreatedAt),
		UpdatedAt:       domain.FormatTime(contract.UpdatedAt),
	}
}

// ToFileDTO converts File to FileDTO
func ToFileDTO(file *domain.File) domain.FileDTO {
	return domain.FileDTO{
		ID:             file.ID,
		ClientID:       file.ClientID,
		ProjectID:      file.ProjectID,
		Filename:       file.Filename,
		ContentType:    file.ContentType,
		Size:           file.Size,
		ApprovalStatus: file.ApprovalStatus,
		SentByClient:   file.SentByClient,
		ReviewedAt:     domain.FormatTimePtr(file.ReviewedAt),
		ReviewNote:     file.ReviewNote,
		CreatedAt:      domain.FormatTime(file.CreatedAt),
		UpdatedAt:      domain.FormatTime(file.UpdatedAt),
	}
}

// ToFormDTO converts Form to FormDTO. Pending reflects whether the
// requesting respondent still owes a completed submission.
func ToFormDTO(form *domain.Form, pending bool) domain.FormDTO {
	return domain.FormDTO{
		ID:          form.ID,
		ClientID:    form.ClientID,
		ProjectID:   form.ProjectID,
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		Pending:     pending,
		Deadline:    domain.FormatTimePtr(form.Deadline),
		CreatedAt:   domain.FormatTime(form.CreatedAt),
		UpdatedAt:   domain.FormatTime(form.UpdatedAt),
	}
}

// ToFormSubmissionDTO converts FormSubmission to FormSubmissionDTO
func ToFormSubmissionDTO(submission *domain.FormSubmission) domain.FormSubmissionDTO {
	return domain.FormSubmissionDTO{
		ID:              submission.ID,
		FormID:          submission.FormID,
		RespondentEmail: submission.RespondentEmail,
		Completed:       submission.Completed,
		SubmittedAt:     domain.FormatTimePtr(submission.SubmittedAt),
		CreatedAt:       domain.FormatTime(submission.CreatedAt),
	}
}

// ToMessageDTO converts Message to MessageDTO
func ToMessageDTO(message *domain.Message) domain.MessageDTO {
	return domain.MessageDTO{
		ID:         message.ID,
		ClientID:   message.ClientID,
		ProjectID:  message.ProjectID,
		SenderRole: message.SenderRole,
		SenderName: message.SenderName,
		Body:       message.Body,
		ReadAt:     domain.FormatTimePtr(message.ReadAt),
		CreatedAt:  domain.FormatTime(message.CreatedAt),
	}
}

// ToMilestoneDTO converts Milestone to MilestoneDTO
func ToMilestoneDTO(milestone *domain.Milestone) domain.MilestoneDTO {
	return domain.MilestoneDTO{
		ID:          milestone.ID,
		ProjectID:   milestone.ProjectID,
		Title:       milestone.Title,
		Status:      milestone.Status,
		DueDate:     domain.FormatTimePtr(milestone.DueDate),
		CompletedAt: domain.FormatTimePtr(milestone.CompletedAt),
		SortOrder:   milestone.SortOrder,
	}
}

// ToTaskDTO converts Task to TaskDTO
func ToTaskDTO(task *domain.Task) domain.TaskDTO {
	return domain.TaskDTO{
		ID:           task.ID,
		ProjectID:    task.ProjectID,
		MilestoneID:  task.MilestoneID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		AssigneeName: task.AssigneeName,
		DueDate:      domain.FormatTimePtr(task.DueDate),
		SortOrder:    task.SortOrder,
	}
}

// ToBookingDTO converts Booking to BookingDTO
func ToBookingDTO(booking *domain.Booking) domain.BookingDTO {
	return domain.BookingDTO{
		ID:       booking.ID,
		ClientID: booking.ClientID,
		Title:    booking.Title,
		StartsAt: domain.FormatTime(booking.StartsAt),
		EndsAt:   domain.FormatTime(booking.EndsAt),
		Location: booking.Location,
		Notes:    booking.Notes,
		Status:   booking.Status,
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:         activity.ID,
		ClientID:   activity.ClientID,
		TargetType: activity.TargetType,
		TargetID:   activity.TargetID,
		Title:      activity.Title,
		Body:       activity.Body,
		ActorRole:  activity.ActorRole,
		ActorName:  activity.ActorName,
		OccurredAt: domain.FormatTime(activity.OccurredAt),
	}
}

// ToPortalSettingsDTO converts PortalSettings to PortalSettingsDTO
func ToPortalSettingsDTO(settings *domain.PortalSettings) domain.PortalSettingsDTO {
	visibility := make(map[string]bool, len(settings.ProjectVisibility))
	for id, visible := range settings.ProjectVisibility {
		visibility[id.String()] = visible
	}
	return domain.PortalSettingsDTO{
		Modules:           settings.Modules.EnabledModules(),
		ProjectVisibility: visibility,
		DefaultProjectID:  settings.DefaultProjectID,
		AccentColor:       settings.AccentColor,
		WelcomeMessage:    settings.WelcomeMessage,
		UpdatedAt:         domain.FormatTime(settings.UpdatedAt),
	}
}
