package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/pkg/auth"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

func newCustomerServiceFixture(t *testing.T) (*CustomerService, *fakeCustomerStore, *models.User) {
	t.Helper()

	customers := newFakeCustomerStore()
	users := newFakeUserStore()

	hashed, err := auth.HashPassword("root-pass")
	require.NoError(t, err)
	root := users.add(models.NewUser("Root", "root@oms.local", hashed, models.RoleSuperAdmin))

	return NewCustomerService(customers, users, logger.New("error")), customers, root
}

func TestCreateCustomerDuplicatePhoneIsConflict(t *testing.T) {
	svc, _, _ := newCustomerServiceFixture(t)
	ctx := context.Background()

	first, err := svc.CreateCustomer(ctx, CreateCustomerRequest{Name: "Nimal", Phone: "0771234567"})
	require.NoError(t, err)
	assert.Equal(t, "Sri Lanka", first.Country)

	_, err = svc.CreateCustomer(ctx, CreateCustomerRequest{Name: "Other", Phone: "0771234567"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.CreateCustomer(ctx, CreateCustomerRequest{Name: "No Phone"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestGetCustomerByPhone(t *testing.T) {
	svc, _, _ := newCustomerServiceFixture(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, CreateCustomerRequest{Name: "Nimal", Phone: "0771234567"})
	require.NoError(t, err)

	found, err := svc.GetCustomerByPhone(ctx, "0771234567")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetCustomerByPhone(ctx, "0000000000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBulkDeleteCustomersRequiresSuperAdminAndPassword(t *testing.T) {
	svc, customers, root := newCustomerServiceFixture(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, CreateCustomerRequest{Name: "Nimal", Phone: "0771234567"})
	require.NoError(t, err)

	agent := models.NewUser("Agent", "agent@oms.local", "x", models.RoleAgent)
	_, err = svc.BulkDeleteCustomers(ctx, agent, "whatever")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.BulkDeleteCustomers(ctx, root, "wrong")
	assert.ErrorIs(t, err, apperrors.ErrAuthFailed)

	count, err := svc.BulkDeleteCustomers(ctx, root, "root-pass")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	all, err := customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
