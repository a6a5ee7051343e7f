package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/utils"
)

func newUserFixture(t *testing.T) (UserServiceInterface, *fakeUserRepo) {
	t.Helper()
	existing := &entities.User{ID: 10, Name: "Jo Customer", Email: "jo@acme.example", Role: constants.RoleCustomer}
	userRepo := newFakeUserRepo(existing)
	companyRepo := newFakeCompanyRepo(&entities.Company{ID: 1, Name: "Acme", TicketLimit: 5})
	svc := NewUserService(userRepo, companyRepo, zap.NewNop())
	return svc, userRepo
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	companyID := int64(1)

	resp, err := svc.Create(context.Background(), dto.CreateUserDTO{
		Name:      "New Customer",
		Email:     "new@acme.example",
		Mobile:    "0771112222",
		Password:  "Valid#Pass1",
		Role:      "customer",
		CompanyID: &companyID,
	})
	require.NoError(t, err)
	assert.Equal(t, "customer", resp.Role)

	stored, err := userRepo.FindByEmail(context.Background(), "new@acme.example")
	require.NoError(t, err)
	assert.NotEqual(t, "Valid#Pass1", stored.Password)
	assert.NoError(t, utils.ComparePasswords(stored.Password, "Valid#Pass1"))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateUserDTO{
		Name:     "Imposter",
		Email:    "jo@acme.example",
		Mobile:   "0771112222",
		Password: "Valid#Pass1",
		Role:     "engineer",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestCreateUser_CustomerNeedsCompany(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateUserDTO{
		Name:     "Orphan",
		Email:    "orphan@acme.example",
		Mobile:   "0771112222",
		Password: "Valid#Pass1",
		Role:     "customer",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)

	unknown := int64(99)
	_, err = svc.Create(context.Background(), dto.CreateUserDTO{
		Name:      "Lost",
		Email:     "lost@acme.example",
		Mobile:    "0771112222",
		Password:  "Valid#Pass1",
		Role:      "customer",
		CompanyID: &unknown,
	})
	require.Error(t, err)
}

func TestCreateUser_WeakPasswordRejected(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateUserDTO{
		Name:     "Weak",
		Email:    "weak@acme.example",
		Mobile:   "0771112222",
		Password: "alllowercase",
		Role:     "engineer",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
}

func TestList_ReturnsEveryRole(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	userRepo.users[20] = &entities.User{ID: 20, Name: "Sam Engineer", Email: "sam@support.example", Role: constants.RoleEngineer}

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestListByCompany_OnlyThatCompany(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	acme, other := int64(1), int64(2)
	userRepo.users[11] = &entities.User{ID: 11, Name: "Acme One", Email: "one@acme.example", Role: constants.RoleCustomer, CompanyID: &acme}
	userRepo.users[12] = &entities.User{ID: 12, Name: "Other Co", Email: "two@other.example", Role: constants.RoleCustomer, CompanyID: &other}

	users, err := svc.ListByCompany(context.Background(), acme)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Acme One", users[0].Name)
}
