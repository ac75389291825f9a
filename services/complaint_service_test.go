package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockComplaintRepo struct {
	complaints map[uuid.UUID]*models.Complaint
}

func newMockComplaintRepo() *mockComplaintRepo {
	return &mockComplaintRepo{complaints: make(map[uuid.UUID]*models.Complaint)}
}

func (m *mockComplaintRepo) Create(_ context.Context, c *models.Complaint) error {
	c.ID = uuid.New()
	m.complaints[c.ID] = c
	return nil
}
func (m *mockComplaintRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Complaint, error) {
	if c, ok := m.complaints[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}
func (m *mockComplaintRepo) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range m.complaints {
		if c.CustomerID == customerID {
			out = append(out, *c)
		}
	}
	return out, nil
}
func (m *mockComplaintRepo) FindAll(_ context.Context, status models.ComplaintStatus) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range m.complaints {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}
func (m *mockComplaintRepo) Update(_ context.Context, c *models.Complaint) error {
	m.complaints[c.ID] = c
	return nil
}

type mockNotifier struct {
	events []models.ComplaintEvent
}

func (m *mockNotifier) PublishComplaintEvent(_ context.Context, event models.ComplaintEvent) error {
	m.events = append(m.events, event)
	return nil
}

func complaintFixture() (*mockComplaintRepo, *mockOrderRepo, *mockNotifier, services.ComplaintService) {
	complaints := newMockComplaintRepo()
	orders := newMockOrderRepo()
	notifier := &mockNotifier{}
	svc := services.NewComplaintService(complaints, orders, notifier, zap.NewNop())
	return complaints, orders, notifier, svc
}

func TestFileComplaint_OwnOrderOnly(t *testing.T) {
	_, orders, _, svc := complaintFixture()
	owner := uuid.New()
	order := seedOrder(orders, models.StatusDelivered)
	order.CustomerID = &owner

	input := &services.ComplaintInput{
		OrderID:     order.ID,
		Reason:      models.ReasonExcessiveDelay,
		Description: "Two hours for a pizza",
	}

	_, svcErr := svc.File(context.Background(), services.Actor{ID: uuid.New(), Role: models.RoleCustomer}, input)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)

	complaint, svcErr := svc.File(context.Background(), services.Actor{ID: owner, Role: models.RoleCustomer}, input)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.ComplaintNew, complaint.Status)
}

func TestFileComplaint_UnknownReason(t *testing.T) {
	_, orders, _, svc := complaintFixture()
	owner := uuid.New()
	order := seedOrder(orders, models.StatusDelivered)
	order.CustomerID = &owner

	_, svcErr := svc.File(context.Background(), services.Actor{ID: owner, Role: models.RoleCustomer}, &services.ComplaintInput{
		OrderID:     order.ID,
		Reason:      "bad_vibes",
		Description: "x",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindValidation, svcErr.Kind)
}

func TestRespond_StampsAndNotifies(t *testing.T) {
	complaints, orders, notifier, svc := complaintFixture()
	owner := uuid.New()
	order := seedOrder(orders, models.StatusDelivered)
	order.CustomerID = &owner

	complaint := &models.Complaint{
		CustomerID:  owner,
		OrderID:     order.ID,
		Order:       order,
		Reason:      models.ReasonWrongOrder,
		Description: "Got fries instead of pizza",
		Status:      models.ComplaintNew,
	}
	_ = complaints.Create(context.Background(), complaint)

	adminActor := admin()
	updated, svcErr := svc.Respond(context.Background(), adminActor, complaint.ID, &services.ComplaintResponseInput{
		Response: "Refund issued",
		Status:   models.ComplaintResolved,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.ComplaintResolved, updated.Status)
	assert.Equal(t, adminActor.ID, *updated.HandledByID)
	assert.NotNil(t, updated.RespondedAt)

	if assert.Len(t, notifier.events, 1) {
		assert.Equal(t, "complaint.responded", notifier.events[0].Event)
		assert.Equal(t, order.OrderNumber, notifier.events[0].OrderNumber)
	}
}

func TestRespond_FirstResponseTimeKept(t *testing.T) {
	complaints, orders, _, svc := complaintFixture()
	owner := uuid.New()
	order := seedOrder(orders, models.StatusDelivered)

	first := time.Now().Add(-time.Hour)
	complaint := &models.Complaint{
		CustomerID:  owner,
		OrderID:     order.ID,
		Reason:      models.ReasonOther,
		Description: "x",
		Status:      models.ComplaintAnswered,
		RespondedAt: &first,
	}
	_ = complaints.Create(context.Background(), complaint)

	updated, svcErr := svc.Respond(context.Background(), admin(), complaint.ID, &services.ComplaintResponseInput{
		Response: "Following up",
		Status:   models.ComplaintResolved,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, first, *updated.RespondedAt)
}

func TestRespond_AdminOnlyAndClosedFrozen(t *testing.T) {
	complaints, orders, _, svc := complaintFixture()
	order := seedOrder(orders, models.StatusDelivered)

	complaint := &models.Complaint{
		CustomerID:  uuid.New(),
		OrderID:     order.ID,
		Reason:      models.ReasonOther,
		Description: "x",
		Status:      models.ComplaintClosed,
	}
	_ = complaints.Create(context.Background(), complaint)

	input := &services.ComplaintResponseInput{Response: "r", Status: models.ComplaintResolved}

	_, svcErr := svc.Respond(context.Background(), services.Actor{ID: uuid.New(), Role: models.RoleCashier}, complaint.ID, input)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)

	_, svcErr = svc.Respond(context.Background(), admin(), complaint.ID, input)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindInvalidState, svcErr.Kind)
}
