package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"estatehub/internal/model"
)

func newTestUserService(repo *MockUserRepository) UserService {
	// nil cache: the client degrades to a no-op, same as running without redis.
	return NewUserService(repo, newTestPolicy(), nil)
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("rejects weak password before touching the store", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		svc := newTestUserService(mockRepo)
		_, err := svc.CreateUser(context.Background(), CreateUserInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Password:  "weak",
		})
		httpErr := requireHTTPErrorStatus(t, err, http.StatusBadRequest)
		assert.Contains(t, httpErr.Message, "Password must be at least")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		svc := newTestUserService(mockRepo)
		_, err := svc.CreateUser(context.Background(), CreateUserInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Password:  "Abc123!@",
		})
		requireHTTPError(t, err, http.StatusBadRequest, "Email already exists")
	})

	t.Run("hashes the password and defaults the role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		var created *model.User
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*model.User) }).
			Return(nil)

		svc := newTestUserService(mockRepo)
		user, err := svc.CreateUser(context.Background(), CreateUserInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Password:  "Abc123!@",
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, model.RoleUser, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "Abc123!@", created.PasswordHash)
		assert.True(t, newTestPolicy().Verify("Abc123!@", created.PasswordHash))
	})
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	id := uuid.New()
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestUserService(mockRepo)
	_, err := svc.GetUser(context.Background(), id)
	requireHTTPError(t, err, http.StatusNotFound, "User not found")
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("applies only the provided fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		user := &model.User{ID: uuid.New(), FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("Update", mock.Anything, user).Return(nil)

		svc := newTestUserService(mockRepo)
		updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{FirstName: "Janet"})
		require.NoError(t, err)

		assert.Equal(t, "Janet", updated.FirstName)
		assert.Equal(t, "Doe", updated.LastName)
		assert.Equal(t, "jane@example.com", updated.Email)
	})

	t.Run("moving to a taken email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		user := &model.User{ID: uuid.New(), Email: "jane@example.com"}
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("Update", mock.Anything, user).Return(gorm.ErrDuplicatedKey)

		svc := newTestUserService(mockRepo)
		_, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{Email: "taken@example.com"})
		requireHTTPError(t, err, http.StatusBadRequest, "Email already exists")
	})
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	id := uuid.New()
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestUserService(mockRepo)
	err := svc.DeleteUser(context.Background(), id)
	requireHTTPError(t, err, http.StatusNotFound, "User not found")
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserService_SetPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	user := &model.User{ID: uuid.New(), Email: "jane@example.com"}
	mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	var storedHash string
	mockRepo.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(nil)

	svc := newTestUserService(mockRepo)
	require.NoError(t, svc.SetPassword(context.Background(), user.ID, "Newpass1!"))
	assert.True(t, newTestPolicy().Verify("Newpass1!", storedHash))

	err := svc.SetPassword(context.Background(), user.ID, "weak")
	httpErr := requireHTTPErrorStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, httpErr.Message, "Password must be at least")
}
