package service

import (
	"context"
	"errors"
	"time"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JournalService interface {
	CreateEntry(ctx context.Context, userID uuid.UUID, req *model.PostJournalRequest) (*model.DreamJournal, error)
	GetEntry(ctx context.Context, userID, dreamID uuid.UUID) (*model.DreamJournal, error)
	ListEntries(ctx context.Context, userID uuid.UUID) ([]*model.DreamJournal, error)
	UpdateEntry(ctx context.Context, userID, dreamID uuid.UUID, req *model.PutJournalRequest) (*model.DreamJournal, error)
	DeleteEntry(ctx context.Context, userID, dreamID uuid.UUID) error
}

type journalService struct {
	db          *gorm.DB
	journalRepo repository.JournalRepository
}

func NewJournalService(db *gorm.DB, journalRepo repository.JournalRepository) JournalService {
	return &journalService{
		db:          db,
		journalRepo: journalRepo,
	}
}

// CreateEntry は夢日記エントリとそのタグを1トランザクションで作成します
func (s *journalService) CreateEntry(ctx context.Context, userID uuid.UUID, req *model.PostJournalRequest) (*model.DreamJournal, error) {
	logger := middleware.GetLogger(ctx)

	dreamDate, err := time.Parse("2006-01-02", req.DreamDate)
	if err != nil {
		// validatorのdatetimeタグを通過していれば到達しないはず
		return nil, model.NewAppError("INVALID_INPUT", "夢を見た日付の形式が正しくありません。", "dream_date", model.ErrInvalidInput)
	}

	entry := &model.DreamJournal{
		DreamID:        uuid.New(),
		UserID:         userID,
		Title:          req.Title,
		Content:        req.Content,
		DreamDate:      model.DateOnly(dreamDate),
		DreamSigns:     datatypes.NewJSONSlice(emptyIfNil(req.DreamSigns)),
		TechniquesUsed: datatypes.NewJSONSlice(emptyIfNil(req.TechniquesUsed)),
	}
	if req.LucidityLevel != nil {
		entry.LucidityLevel = *req.LucidityLevel
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.journalRepo.Create(ctx, tx, entry); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "夢日記の作成に失敗しました。", "", err)
		}
		if err := s.journalRepo.ReplaceTags(ctx, tx, entry.DreamID, req.Tags); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "タグの保存に失敗しました。", "tags", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry.Tags = emptyIfNil(req.Tags)
	logger.Info("Journal entry created", "dream_id", entry.DreamID, "user_id", userID)
	return entry, nil
}

func (s *journalService) GetEntry(ctx context.Context, userID, dreamID uuid.UUID) (*model.DreamJournal, error) {
	entry, err := s.journalRepo.FindByID(ctx, s.db, userID, dreamID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("JOURNAL_NOT_FOUND", "指定された夢日記が見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "夢日記の取得に失敗しました。", "", err)
	}
	fillTags(entry)
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, userID uuid.UUID) ([]*model.DreamJournal, error) {
	entries, err := s.journalRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "夢日記一覧の取得に失敗しました。", "", err)
	}
	for _, entry := range entries {
		fillTags(entry)
	}
	return entries, nil
}

// UpdateEntry はエントリの全フィールドとタグを置き換えます
func (s *journalService) UpdateEntry(ctx context.Context, userID, dreamID uuid.UUID, req *model.PutJournalRequest) (*model.DreamJournal, error) {
	logger := middleware.GetLogger(ctx)

	dreamDate, err := time.Parse("2006-01-02", req.DreamDate)
	if err != nil {
		return nil, model.NewAppError("INVALID_INPUT", "夢を見た日付の形式が正しくありません。", "dream_date", model.ErrInvalidInput)
	}

	var updated *model.DreamJournal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.journalRepo.FindByID(ctx, tx, userID, dreamID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("JOURNAL_NOT_FOUND", "指定された夢日記が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "夢日記の取得に失敗しました。", "", err)
		}

		entry.Title = req.Title
		entry.Content = req.Content
		entry.DreamDate = model.DateOnly(dreamDate)
		entry.LucidityLevel = 0
		if req.LucidityLevel != nil {
			entry.LucidityLevel = *req.LucidityLevel
		}
		entry.DreamSigns = datatypes.NewJSONSlice(emptyIfNil(req.DreamSigns))
		entry.TechniquesUsed = datatypes.NewJSONSlice(emptyIfNil(req.TechniquesUsed))
		// Saveにリレーションを誤って書かせないためTagRowsは空にしておく
		entry.TagRows = nil

		if err := s.journalRepo.Update(ctx, tx, entry); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "夢日記の更新に失敗しました。", "", err)
		}
		if err := s.journalRepo.ReplaceTags(ctx, tx, entry.DreamID, req.Tags); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "タグの保存に失敗しました。", "tags", err)
		}

		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated.Tags = emptyIfNil(req.Tags)
	logger.Info("Journal entry updated", "dream_id", dreamID, "user_id", userID)
	return updated, nil
}

// DeleteEntry はタグとエントリ本体を1トランザクションで削除します
func (s *journalService) DeleteEntry(ctx context.Context, userID, dreamID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.journalRepo.ReplaceTags(ctx, tx, dreamID, nil); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "タグの削除に失敗しました。", "", err)
		}
		if err := s.journalRepo.Delete(ctx, tx, userID, dreamID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("JOURNAL_NOT_FOUND", "指定された夢日記が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "夢日記の削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Journal entry deleted", "dream_id", dreamID, "user_id", userID)
	return nil
}

// --- ヘルパー関数 ---

// fillTags はPreloadしたTagRowsからレスポンス用のTagsを組み立てます
func fillTags(entry *model.DreamJournal) {
	tags := make([]string, 0, len(entry.TagRows))
	for _, row := range entry.TagRows {
		tags = append(tags, row.TagName)
	}
	entry.Tags = tags
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
