// internal/service/journal_service_test.go
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

func setupTestDBJournal() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

// --- Test CreateEntry ---
func Test_journalService_CreateEntry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("正常系: エントリとタグが同一トランザクションで作成される", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		level := 7
		req := &model.PostJournalRequest{
			Title:          "空を飛ぶ夢",
			Content:        "手を見たら指が6本あった",
			DreamDate:      "2026-08-28",
			LucidityLevel:  &level,
			DreamSigns:     []string{"flying"},
			TechniquesUsed: []string{"MILD"},
			Tags:           []string{"flying", "lucid"},
		}

		journalRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.DreamJournal")).
			Run(func(args mock.Arguments) {
				entry := args.Get(2).(*model.DreamJournal)
				assert.Equal(t, userID, entry.UserID)
				assert.Equal(t, "空を飛ぶ夢", entry.Title)
				assert.Equal(t, 7, entry.LucidityLevel)
				assert.Equal(t, model.DateOnly(entry.DreamDate), entry.DreamDate)
				assert.NotEqual(t, uuid.Nil, entry.DreamID)
			}).Return(nil).Once()
		journalRepo.On("ReplaceTags", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("uuid.UUID"), []string{"flying", "lucid"}).
			Return(nil).Once()

		entry, err := svc.CreateEntry(ctx, userID, req)

		require.NoError(t, err)
		assert.Equal(t, []string{"flying", "lucid"}, entry.Tags)
		journalRepo.AssertExpectations(t)
	})

	t.Run("正常系: 明晰度未指定時は0になる", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		req := &model.PostJournalRequest{
			Title:     "覚えていない夢",
			Content:   "断片だけ",
			DreamDate: "2026-08-28",
		}

		journalRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.DreamJournal")).
			Run(func(args mock.Arguments) {
				entry := args.Get(2).(*model.DreamJournal)
				assert.Equal(t, 0, entry.LucidityLevel)
			}).Return(nil).Once()
		journalRepo.On("ReplaceTags", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("uuid.UUID"), []string(nil)).
			Return(nil).Once()

		entry, err := svc.CreateEntry(ctx, userID, req)

		require.NoError(t, err)
		// タグ未指定でもnilではなく空スライスが返る
		assert.Equal(t, []string{}, entry.Tags)
		journalRepo.AssertExpectations(t)
	})
}

// --- Test GetEntry ---
func Test_journalService_GetEntry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	dreamID := uuid.New()

	t.Run("正常系: TagRowsからTagsが組み立てられる", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		stored := &model.DreamJournal{
			DreamID: dreamID,
			UserID:  userID,
			Title:   "test",
			TagRows: []model.DreamTag{
				{DreamID: dreamID, TagName: "nightmare"},
				{DreamID: dreamID, TagName: "recurring"},
			},
		}
		journalRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, dreamID).
			Return(stored, nil).Once()

		entry, err := svc.GetEntry(ctx, userID, dreamID)

		require.NoError(t, err)
		assert.Equal(t, []string{"nightmare", "recurring"}, entry.Tags)
		journalRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないエントリはErrNotFound", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		journalRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, dreamID).
			Return(nil, model.ErrNotFound).Once()

		_, err := svc.GetEntry(ctx, userID, dreamID)

		assert.ErrorIs(t, err, model.ErrNotFound)
		journalRepo.AssertExpectations(t)
	})
}

// --- Test UpdateEntry ---
func Test_journalService_UpdateEntry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	dreamID := uuid.New()

	t.Run("正常系: 全フィールドとタグが置き換えられる", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		existing := &model.DreamJournal{
			DreamID:       dreamID,
			UserID:        userID,
			Title:         "old title",
			Content:       "old content",
			LucidityLevel: 9,
		}
		journalRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, dreamID).
			Return(existing, nil).Once()
		journalRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.DreamJournal")).
			Run(func(args mock.Arguments) {
				entry := args.Get(2).(*model.DreamJournal)
				assert.Equal(t, "new title", entry.Title)
				// 明晰度未指定のPUTでは0にリセットされる
				assert.Equal(t, 0, entry.LucidityLevel)
			}).Return(nil).Once()
		journalRepo.On("ReplaceTags", ctx, mock.AnythingOfType("*gorm.DB"), dreamID, []string{"new"}).
			Return(nil).Once()

		entry, err := svc.UpdateEntry(ctx, userID, dreamID, &model.PutJournalRequest{
			Title:     "new title",
			Content:   "new content",
			DreamDate: "2026-08-27",
			Tags:      []string{"new"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"new"}, entry.Tags)
		journalRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないエントリの更新はErrNotFound", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		journalRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, dreamID).
			Return(nil, model.ErrNotFound).Once()

		_, err := svc.UpdateEntry(ctx, userID, dreamID, &model.PutJournalRequest{
			Title:     "x",
			Content:   "y",
			DreamDate: "2026-08-27",
		})

		assert.ErrorIs(t, err, model.ErrNotFound)
		journalRepo.AssertNotCalled(t, "Update")
		journalRepo.AssertExpectations(t)
	})
}

// --- Test DeleteEntry ---
func Test_journalService_DeleteEntry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	dreamID := uuid.New()

	t.Run("正常系: タグと本体が削除される", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		journalRepo.On("ReplaceTags", ctx, mock.AnythingOfType("*gorm.DB"), dreamID, []string(nil)).
			Return(nil).Once()
		journalRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), userID, dreamID).
			Return(nil).Once()

		err := svc.DeleteEntry(ctx, userID, dreamID)

		require.NoError(t, err)
		journalRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないエントリの削除はErrNotFound", func(t *testing.T) {
		db := setupTestDBJournal()
		journalRepo := new(mocks.JournalRepository)
		svc := NewJournalService(db, journalRepo)

		journalRepo.On("ReplaceTags", ctx, mock.AnythingOfType("*gorm.DB"), dreamID, []string(nil)).
			Return(nil).Once()
		journalRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), userID, dreamID).
			Return(model.ErrNotFound).Once()

		err := svc.DeleteEntry(ctx, userID, dreamID)

		assert.ErrorIs(t, err, model.ErrNotFound)
		journalRepo.AssertExpectations(t)
	})
}
