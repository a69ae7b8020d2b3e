// internal/service/resource_service_test.go
package service

import (
	"context"
	"testing"

	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBResource() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_resourceService_CreateResource(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBResource()

	req := &model.PostResourceRequest{
		Title:           "夢への誘導瞑想",
		ProtocolType:    model.ProtocolDreamNavigation,
		DurationSeconds: 600,
		FilePath:        "/audio/dream-navigation-01.mp3",
	}

	t.Run("正常系: 管理者はリソースを作成できる", func(t *testing.T) {
		resourceRepo := new(mocks.ResourceRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewResourceService(db, resourceRepo, userRepo)

		adminID := uuid.New()
		userRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), adminID).
			Return(&model.User{UserID: adminID, IsAdmin: true}, nil).Once()
		resourceRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.AudioResource")).
			Run(func(args mock.Arguments) {
				resource := args.Get(2).(*model.AudioResource)
				assert.Equal(t, req.Title, resource.Title)
				assert.NotEqual(t, uuid.Nil, resource.ResourceID)
			}).Return(nil).Once()

		resource, err := svc.CreateResource(ctx, adminID, req)

		require.NoError(t, err)
		assert.Equal(t, req.FilePath, resource.FilePath)
		resourceRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("異常系: 一般ユーザーはErrForbidden", func(t *testing.T) {
		resourceRepo := new(mocks.ResourceRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewResourceService(db, resourceRepo, userRepo)

		memberID := uuid.New()
		userRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), memberID).
			Return(&model.User{UserID: memberID, IsAdmin: false}, nil).Once()

		_, err := svc.CreateResource(ctx, memberID, req)

		assert.ErrorIs(t, err, model.ErrForbidden)
		resourceRepo.AssertNotCalled(t, "Create")
		userRepo.AssertExpectations(t)
	})
}

func Test_resourceService_DeleteResource(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBResource()
	resourceID := uuid.New()

	t.Run("異常系: 存在しないリソースの削除はErrNotFound", func(t *testing.T) {
		resourceRepo := new(mocks.ResourceRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewResourceService(db, resourceRepo, userRepo)

		adminID := uuid.New()
		userRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), adminID).
			Return(&model.User{UserID: adminID, IsAdmin: true}, nil).Once()
		resourceRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), resourceID).
			Return(model.ErrNotFound).Once()

		err := svc.DeleteResource(ctx, adminID, resourceID)

		assert.ErrorIs(t, err, model.ErrNotFound)
		resourceRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})
}

func Test_resourceService_ListResources(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBResource()

	// 閲覧は認証不要なのでユーザーリポジトリには触れない
	resourceRepo := new(mocks.ResourceRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewResourceService(db, resourceRepo, userRepo)

	resourceRepo.On("List", ctx, mock.AnythingOfType("*gorm.DB"), model.ProtocolSynchronicity).
		Return([]*model.AudioResource{
			{ResourceID: uuid.New(), Title: "シンクロニシティ・ウォーク", ProtocolType: model.ProtocolSynchronicity},
		}, nil).Once()

	resources, err := svc.ListResources(ctx, model.ProtocolSynchronicity)

	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, model.ProtocolSynchronicity, resources[0].ProtocolType)
	userRepo.AssertNotCalled(t, "FindByID")
	resourceRepo.AssertExpectations(t)
}
