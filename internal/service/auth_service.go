package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_lucid_keep/internal/config"
	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// Register は新しいユーザーとそのプロフィールを作成し、アクセストークンを返します
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	logger := middleware.GetLogger(ctx)
	var newUser *model.User
	var profile *model.UserProfile

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Emailでの重複チェック
		_, err := s.userRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			logger.Warn("Email already exists", "email", req.Email)
			return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		// ユーザー名での重複チェック
		_, err = s.userRepo.FindByUsername(ctx, tx, req.Username)
		if err == nil {
			logger.Warn("Username already exists", "username", req.Username)
			return model.NewAppError("DUPLICATE_USERNAME", "そのユーザー名は既に使用されています。", "username", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check username existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		// パスワードのハッシュ化
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
		}

		user := &model.User{
			UserID:       uuid.New(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hashedPassword),
			// 設定された管理者メールアドレスと一致する場合のみ管理者になる
			IsAdmin: s.cfg.App.AdminEmail != "" && req.Email == s.cfg.App.AdminEmail,
		}

		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			// Create内で重複エラーが検知された場合 (レースコンディション対策)
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user creation (race condition)", "error", err)
				return model.NewAppError("DUPLICATE_ENTRY", "指定されたユーザー名またはメールアドレスは既に使用されています。", "username,email", model.ErrConflict)
			}
			logger.Error("Failed to create user in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}

		// 表示用プロフィールはユーザー名を初期値として作成する
		profile = &model.UserProfile{
			UserID:      user.UserID,
			DisplayName: req.Username,
		}
		if err := s.userRepo.CreateProfile(ctx, tx, profile); err != nil {
			logger.Error("Failed to create user profile in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "プロフィールの作成に失敗しました。", "", err)
		}

		newUser = user
		return nil // トランザクション成功
	})

	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, newUser)
	if err != nil {
		return nil, err
	}

	// ウェルカムメールはベストエフォート。失敗しても登録自体は成功として扱う
	if mailErr := s.sendWelcomeEmail(ctx, newUser); mailErr != nil {
		logger.Warn("Failed to send welcome email", "error", mailErr, "email", newUser.Email)
	}

	logger.Info("User registered", "user_id", newUser.UserID, "email", newUser.Email, "is_admin", newUser.IsAdmin)
	return &model.AuthResponse{
		AccessToken: token,
		User:        toUserResponse(newUser, profile),
	}, nil
}

// Login はユーザーを認証し、JWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)
		}
		logger.Error("Login failed: db error on FindByEmail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.UserID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	// プロフィールが欠けていてもログイン自体は成功させる
	profile, err := s.userRepo.FindProfile(ctx, s.db, user.UserID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		logger.Warn("Failed to load user profile on login", "error", err)
	}

	logger.Info("Login successful", "user_id", user.UserID)
	return &model.AuthResponse{
		AccessToken: token,
		User:        toUserResponse(user, profile),
	}, nil
}

// GetCurrentUser はトークンのユーザーIDから現在のユーザー情報を返します
func (s *authService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found", "user_id", userID.String())
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	profile, err := s.userRepo.FindProfile(ctx, s.db, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		logger.Warn("Failed to load user profile", "error", err)
	}

	return toUserResponse(user, profile), nil
}

// --- ヘルパー関数 ---

func (s *authService) issueToken(ctx context.Context, user *model.User) (string, error) {
	logger := middleware.GetLogger(ctx)

	claims := &jwt.RegisteredClaims{
		Issuer:    s.cfg.App.Name,
		Subject:   user.UserID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWT.AccessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}
	return signedToken, nil
}

func (s *authService) sendWelcomeEmail(ctx context.Context, user *model.User) error {
	subject := "【Lucid】ご登録ありがとうございます"
	body := fmt.Sprintf(
		"%s さん\n\nLucidへのご登録ありがとうございます。\n夢日記と練習セッションを記録して、あなたの進捗を確認しましょう:\n%s\n",
		user.Username, s.cfg.App.FrontendURL,
	)
	return s.mailer.Send(ctx, user.Email, subject, body)
}

func toUserResponse(user *model.User, profile *model.UserProfile) *model.UserResponse {
	resp := &model.UserResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.Username,
		CreatedAt:   user.CreatedAt,
	}
	if profile != nil {
		if profile.DisplayName != "" {
			resp.DisplayName = profile.DisplayName
		}
		resp.AvatarURL = profile.AvatarURL
	}
	return resp
}
