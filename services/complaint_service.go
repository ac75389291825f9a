package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ComplaintNotifier pushes complaint events to the notification pipeline.
// Implemented by the SNS publisher; nil disables notifications.
type ComplaintNotifier interface {
	PublishComplaintEvent(ctx context.Context, event models.ComplaintEvent) error
}

// ComplaintInput is a customer filing a complaint about one of their orders.
type ComplaintInput struct {
	OrderID     uuid.UUID              `json:"order_id" binding:"required"`
	Reason      models.ComplaintReason `json:"reason" binding:"required"`
	Description string                 `json:"description" binding:"required"`
}

// ComplaintResponseInput is a staff response to a complaint.
type ComplaintResponseInput struct {
	Response string                 `json:"response" binding:"required"`
	Status   models.ComplaintStatus `json:"status" binding:"required"`
}

// ComplaintService defines the interface for complaint business logic.
type ComplaintService interface {
	File(ctx context.Context, actor Actor, input *ComplaintInput) (*models.Complaint, *ServiceError)
	MyComplaints(ctx context.Context, actor Actor) ([]models.Complaint, *ServiceError)
	ListComplaints(ctx context.Context, actor Actor, status models.ComplaintStatus) ([]models.Complaint, *ServiceError)
	Respond(ctx context.Context, actor Actor, complaintID uuid.UUID, input *ComplaintResponseInput) (*models.Complaint, *ServiceError)
}

// complaintServiceImpl implements ComplaintService.
type complaintServiceImpl struct {
	complaints repository.ComplaintRepository
	orders     repository.OrderRepository
	notifier   ComplaintNotifier
	logger     *zap.Logger
}

// NewComplaintService creates a new ComplaintService. notifier may be nil.
func NewComplaintService(
	complaints repository.ComplaintRepository,
	orders repository.OrderRepository,
	notifier ComplaintNotifier,
	logger *zap.Logger,
) ComplaintService {
	return &complaintServiceImpl{complaints: complaints, orders: orders, notifier: notifier, logger: logger}
}

// File opens a complaint. Customers may only complain about their own orders.
func (s *complaintServiceImpl) File(ctx context.Context, actor Actor, input *ComplaintInput) (*models.Complaint, *ServiceError) {
	if !actor.Is(models.RoleCustomer) {
		return nil, errForbidden("Only customers may file complaints")
	}
	if !input.Reason.Valid() {
		return nil, errValidation(fmt.Sprintf("Unknown complaint reason %q", input.Reason))
	}
	if input.Description == "" {
		return nil, errValidation("Description is required")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("Order not found")
	}
	if err != nil {
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, errInternal("Failed to load order")
	}
	if order.CustomerID == nil || *order.CustomerID != actor.ID {
		return nil, errForbidden("Order belongs to another customer")
	}

	complaint := &models.Complaint{
		CustomerID:  actor.ID,
		OrderID:     order.ID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      models.ComplaintNew,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		s.logger.Error("Failed to create complaint", zap.Error(err))
		return nil, errInternal("Failed to file complaint")
	}

	s.logger.Info("Complaint filed",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", string(input.Reason)),
	)
	return complaint, nil
}

func (s *complaintServiceImpl) MyComplaints(ctx context.Context, actor Actor) ([]models.Complaint, *ServiceError) {
	complaints, err := s.complaints.FindByCustomer(ctx, actor.ID)
	if err != nil {
		s.logger.Error("Failed to list complaints", zap.Error(err))
		return nil, errInternal("Failed to list complaints")
	}
	return complaints, nil
}

func (s *complaintServiceImpl) ListComplaints(ctx context.Context, actor Actor, status models.ComplaintStatus) ([]models.Complaint, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may review complaints")
	}
	if status != "" && !status.Valid() {
		return nil, errValidation(fmt.Sprintf("Unknown complaint status %q", status))
	}

	complaints, err := s.complaints.FindAll(ctx, status)
	if err != nil {
		s.logger.Error("Failed to list complaints", zap.Error(err))
		return nil, errInternal("Failed to list complaints")
	}
	return complaints, nil
}

// Respond records a staff answer, stamps the first response time and notifies
// the customer through the notification pipeline.
func (s *complaintServiceImpl) Respond(ctx context.Context, actor Actor, complaintID uuid.UUID, input *ComplaintResponseInput) (*models.Complaint, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may respond to complaints")
	}
	if !input.Status.Valid() || input.Status == models.ComplaintNew {
		return nil, errValidation(fmt.Sprintf("Cannot move complaint to %q", input.Status))
	}
	if input.Response == "" {
		return nil, errValidation("Response text is required")
	}

	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("Complaint not found")
	}
	if err != nil {
		s.logger.Error("Failed to load complaint", zap.Error(err))
		return nil, errInternal("Failed to load complaint")
	}
	if complaint.Status == models.ComplaintClosed {
		return nil, errInvalidState("Complaint is closed")
	}

	handledBy := actor.ID
	complaint.Response = input.Response
	complaint.Status = input.Status
	complaint.HandledByID = &handledBy
	if complaint.RespondedAt == nil {
		now := time.Now()
		complaint.RespondedAt = &now
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		s.logger.Error("Failed to update complaint", zap.Error(err))
		return nil, errInternal("Failed to update complaint")
	}

	s.notify(ctx, complaint)
	s.logger.Info("Complaint responded",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("status", string(complaint.Status)),
	)
	return complaint, nil
}

func (s *complaintServiceImpl) notify(ctx context.Context, complaint *models.Complaint) {
	if s.notifier == nil {
		return
	}

	orderNumber := ""
	if complaint.Order != nil {
		orderNumber = complaint.Order.OrderNumber
	}
	evt := models.ComplaintEvent{
		Event:       "complaint.responded",
		ComplaintID: complaint.ID.String(),
		OrderNumber: orderNumber,
		Status:      string(complaint.Status),
		Timestamp:   time.Now(),
	}
	if err := s.notifier.PublishComplaintEvent(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish complaint event",
			zap.String("complaint_id", complaint.ID.String()),
			zap.Error(err),
		)
	}
}
