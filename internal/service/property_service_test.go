package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"estatehub/internal/model"
	"estatehub/internal/repository"
)

func newTestPropertyService(repo *MockPropertyRepository, images *MockImageStore) PropertyService {
	return NewPropertyService(repo, images, nil)
}

func TestPropertyService_Create(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleUser}

	t.Run("invalid property type", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)

		svc := newTestPropertyService(mockRepo, new(MockImageStore))
		_, err := svc.Create(context.Background(), owner, PropertyInput{
			PropertyTitle: "Loft",
			Price:         decimal.NewFromInt(100000),
			PropertyType:  "castle",
		})
		requireHTTPError(t, err, http.StatusBadRequest, "Invalid property type")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("defaults type and stamps the owner", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Property")).Return(nil)

		svc := newTestPropertyService(mockRepo, new(MockImageStore))
		property, err := svc.Create(context.Background(), owner, PropertyInput{
			PropertyTitle: "Loft",
			Price:         decimal.NewFromInt(100000),
			Location:      "Springfield",
		})
		require.NoError(t, err)

		assert.Equal(t, model.PropertyTypeHouse, property.PropertyType)
		assert.Equal(t, owner.ID, property.CreatedBy)
		assert.NotNil(t, property.Images)
	})
}

func TestPropertyService_Update_Ownership(t *testing.T) {
	ownerID := uuid.New()
	listing := func() *model.Property {
		return &model.Property{ID: uuid.New(), PropertyTitle: "Loft", CreatedBy: ownerID}
	}

	tests := []struct {
		name      string
		principal *model.User
		allowed   bool
	}{
		{
			name:      "owner may update",
			principal: &model.User{ID: ownerID, Role: model.RoleUser},
			allowed:   true,
		},
		{
			name:      "admin may update any listing",
			principal: &model.User{ID: uuid.New(), Role: model.RoleAdmin},
			allowed:   true,
		},
		{
			name:      "stranger is rejected",
			principal: &model.User{ID: uuid.New(), Role: model.RoleUser},
			allowed:   false,
		},
		{
			name:      "manager gets no special treatment",
			principal: &model.User{ID: uuid.New(), Role: model.RoleManager},
			allowed:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPropertyRepository)
			property := listing()
			mockRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
			if tt.allowed {
				mockRepo.On("Update", mock.Anything, property).Return(nil)
			}

			svc := newTestPropertyService(mockRepo, new(MockImageStore))
			_, err := svc.Update(context.Background(), tt.principal, property.ID, PropertyInput{PropertyTitle: "Penthouse"})
			if tt.allowed {
				require.NoError(t, err)
			} else {
				requireHTTPError(t, err, http.StatusForbidden, "Not authorized to update this property")
			}
		})
	}
}

func TestPropertyService_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)
		id := uuid.New()
		mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestPropertyService(mockRepo, new(MockImageStore))
		err := svc.Delete(context.Background(), &model.User{ID: uuid.New(), Role: model.RoleAdmin}, id)
		requireHTTPError(t, err, http.StatusNotFound, "Property not found")
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)
		property := &model.Property{ID: uuid.New(), CreatedBy: uuid.New()}
		mockRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)

		svc := newTestPropertyService(mockRepo, new(MockImageStore))
		err := svc.Delete(context.Background(), &model.User{ID: uuid.New(), Role: model.RoleUser}, property.ID)
		requireHTTPError(t, err, http.StatusForbidden, "Not authorized to delete this property")
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("image cleanup failure does not block the delete", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)
		owner := &model.User{ID: uuid.New(), Role: model.RoleUser}
		property := &model.Property{
			ID:        uuid.New(),
			CreatedBy: owner.ID,
			Images:    []string{"https://cdn.example.com/property-images/a.jpg"},
		}
		mockRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
		mockRepo.On("Delete", mock.Anything, property.ID).Return(nil)

		images := new(MockImageStore)
		images.On("Delete", mock.Anything, property.Images[0]).Return(assert.AnError)

		svc := newTestPropertyService(mockRepo, images)
		require.NoError(t, svc.Delete(context.Background(), owner, property.ID))
		mockRepo.AssertExpectations(t)
	})
}

func TestPropertyService_List_Pagination(t *testing.T) {
	mockRepo := new(MockPropertyRepository)
	filter := repository.PropertyFilter{Limit: 10, Page: 2}
	mockRepo.On("List", mock.Anything, filter).Return([]model.Property{{PropertyTitle: "Loft"}}, int64(25), nil)

	svc := newTestPropertyService(mockRepo, new(MockImageStore))
	page, err := svc.List(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Properties, 1)
}

func TestPropertyService_UploadImages(t *testing.T) {
	property := &model.Property{ID: uuid.New(), Images: []string{"https://cdn.example.com/property-images/old.png"}}

	t.Run("no files", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)
		mockRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)

		svc := newTestPropertyService(mockRepo, new(MockImageStore))
		_, err := svc.UploadImages(context.Background(), property.ID, nil)
		requireHTTPError(t, err, http.StatusBadRequest, "No files uploaded")
	})

	t.Run("rejects non-image files", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)
		mockRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)

		svc := newTestPropertyService(mockRepo, new(MockImageStore))
		_, err := svc.UploadImages(context.Background(), property.ID, []ImageUpload{
			{Filename: "contract.pdf", Content: strings.NewReader("%PDF")},
		})
		requireHTTPError(t, err, http.StatusBadRequest, "Only image files are allowed!")
	})

	t.Run("appends new urls to the listing", func(t *testing.T) {
		mockRepo := new(MockPropertyRepository)
		existing := &model.Property{ID: property.ID, Images: []string{"https://cdn.example.com/property-images/old.png"}}
		mockRepo.On("FindByID", mock.Anything, property.ID).Return(existing, nil)

		var stored []string
		mockRepo.On("UpdateImages", mock.Anything, property.ID, mock.AnythingOfType("[]string")).
			Run(func(args mock.Arguments) { stored = args.Get(2).([]string) }).
			Return(nil)

		images := new(MockImageStore)
		images.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return("https://cdn.example.com/property-images/new.jpg", nil)

		svc := newTestPropertyService(mockRepo, images)
		urls, err := svc.UploadImages(context.Background(), property.ID, []ImageUpload{
			{Filename: "photo.JPG", Content: strings.NewReader("jpeg-bytes")},
		})
		require.NoError(t, err)

		assert.Equal(t, stored, urls)
		assert.Len(t, urls, 2)
		assert.Equal(t, "https://cdn.example.com/property-images/old.png", urls[0])
		assert.Equal(t, "https://cdn.example.com/property-images/new.jpg", urls[1])
	})
}
