// internal/handlers/api_integration_test.go
package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go_5_lucid_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerUser はテスト用ユーザーを登録し、レスポンスを返します。
func registerUser(t *testing.T, server *httptest.Server, username, email string) *model.AuthResponse {
	t.Helper()

	body := sendRequest(t, server, httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/register",
		Body: model.RegisterRequest{
			Username: username,
			Email:    email,
			Password: "password123",
		},
	}, http.StatusCreated)

	var resp model.AuthResponse
	decodeBody(t, body, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return &resp
}

// --- 認証フロー ---
func TestAPI_AuthFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	auth := registerUser(t, server, "auth_flow_user", "auth_flow@example.com")

	t.Run("同じメールアドレスでの再登録は409", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/register",
			Body: model.RegisterRequest{
				Username: "another_name",
				Email:    "auth_flow@example.com",
				Password: "password123",
			},
		}, http.StatusConflict)
	})

	t.Run("バリデーションエラーは400", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/register",
			Body: model.RegisterRequest{
				Username: "short_pw_user",
				Email:    "short_pw@example.com",
				Password: "short",
			},
		}, http.StatusBadRequest)
	})

	t.Run("ログイン成功", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/login",
			Body: model.LoginRequest{
				Email:    "auth_flow@example.com",
				Password: "password123",
			},
		}, http.StatusOK)

		var resp model.AuthResponse
		decodeBody(t, body, &resp)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "auth_flow_user", resp.User.Username)
	})

	t.Run("パスワード不一致は400", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/login",
			Body: model.LoginRequest{
				Email:    "auth_flow@example.com",
				Password: "wrong-password",
			},
		}, http.StatusBadRequest)
	})

	t.Run("トークン付きで自分の情報を取得できる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/auth/me",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var user model.UserResponse
		decodeBody(t, body, &user)
		assert.Equal(t, auth.User.UserID, user.UserID)
	})

	t.Run("トークンなしの保護ルートは403", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method: http.MethodGet,
			Path:   "/api/v1/auth/me",
		}, http.StatusForbidden)
	})
}

// --- 夢日記フロー ---
func TestAPI_JournalFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	auth := registerUser(t, server, "journal_user", "journal@example.com")
	other := registerUser(t, server, "journal_other", "journal_other@example.com")

	level := 8
	createBody := sendRequest(t, server, httpRequestDetails{
		Method:  http.MethodPost,
		Path:    "/api/v1/journals",
		Headers: authHeader(auth.AccessToken),
		Body: model.PostJournalRequest{
			Title:         "空を飛ぶ夢",
			Content:       "街の上を滑空していた",
			DreamDate:     "2026-08-28",
			LucidityLevel: &level,
			Tags:          []string{"flying", "lucid"},
		},
	}, http.StatusCreated)

	var created model.DreamJournal
	decodeBody(t, createBody, &created)
	assert.Equal(t, "空を飛ぶ夢", created.Title)
	assert.ElementsMatch(t, []string{"flying", "lucid"}, created.Tags)

	t.Run("一覧にタグ付きで含まれる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/journals",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var entries []model.DreamJournal
		decodeBody(t, body, &entries)
		require.Len(t, entries, 1)
		assert.ElementsMatch(t, []string{"flying", "lucid"}, entries[0].Tags)
	})

	t.Run("他ユーザーのエントリは404", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    fmt.Sprintf("/api/v1/journals/%s", created.DreamID),
			Headers: authHeader(other.AccessToken),
		}, http.StatusNotFound)
	})

	t.Run("PUTで全フィールドとタグが置き換わる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPut,
			Path:    fmt.Sprintf("/api/v1/journals/%s", created.DreamID),
			Headers: authHeader(auth.AccessToken),
			Body: model.PutJournalRequest{
				Title:     "改題した夢",
				Content:   "内容も書き直した",
				DreamDate: "2026-08-27",
				Tags:      []string{"rewritten"},
			},
		}, http.StatusOK)

		var updated model.DreamJournal
		decodeBody(t, body, &updated)
		assert.Equal(t, "改題した夢", updated.Title)
		// 明晰度未指定のPUTでは0にリセットされる
		assert.Equal(t, 0, updated.LucidityLevel)
		assert.Equal(t, []string{"rewritten"}, updated.Tags)
	})

	t.Run("削除後は404", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodDelete,
			Path:    fmt.Sprintf("/api/v1/journals/%s", created.DreamID),
			Headers: authHeader(auth.AccessToken),
		}, http.StatusNoContent)

		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    fmt.Sprintf("/api/v1/journals/%s", created.DreamID),
			Headers: authHeader(auth.AccessToken),
		}, http.StatusNotFound)
	})

	t.Run("夢日記の作成だけでは進捗集計は作られない", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress?timeRange=year",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		assert.Empty(t, metrics)
	})
}

// --- セッションと進捗フロー ---
func TestAPI_SessionAndProgressFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	auth := registerUser(t, server, "session_user", "session@example.com")

	createBody := sendRequest(t, server, httpRequestDetails{
		Method:  http.MethodPost,
		Path:    "/api/v1/sessions",
		Headers: authHeader(auth.AccessToken),
		Body: model.PostSessionRequest{
			ProtocolType:    model.ProtocolDreamNavigation,
			ProtocolName:    "MILD",
			DurationMinutes: 25,
		},
	}, http.StatusCreated)

	var session model.PracticeSession
	decodeBody(t, createBody, &session)
	assert.Equal(t, 25, session.DurationMinutes)
	assert.Equal(t, 5, session.EffectivenessRating)

	t.Run("セッション作成で当日の集計行ができる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		require.Len(t, metrics, 1)
		assert.Equal(t, 25, metrics[0].PracticeMinutes)
		assert.InDelta(t, 25.0/30.0, metrics[0].ConsistencyScore, 0.001)
	})

	t.Run("2本目のセッションで集計行は増えず分数が加算される", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/v1/sessions",
			Headers: authHeader(auth.AccessToken),
			Body: model.PostSessionRequest{
				ProtocolType:    model.ProtocolIntentionAmplification,
				ProtocolName:    "Intention Setting",
				DurationMinutes: 10,
			},
		}, http.StatusCreated)

		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		require.Len(t, metrics, 1)
		assert.Equal(t, 35, metrics[0].PracticeMinutes)
		// 35分 / 30分 → 上限1.0
		assert.Equal(t, 1.0, metrics[0].ConsistencyScore)
	})

	t.Run("サマリーと連続日数が取得できる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress/summary",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var summary model.ProgressSummary
		decodeBody(t, body, &summary)
		assert.Equal(t, 35, summary.TotalPracticeMinutes)

		body = sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress/streak",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var streak model.StreakResponse
		decodeBody(t, body, &streak)
		assert.Equal(t, 1, streak.Current)
		assert.Equal(t, 1, streak.Longest)
	})

	t.Run("未知のtimeRangeは全件を返す", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress?timeRange=decade",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		assert.Len(t, metrics, 1)
	})

	t.Run("PUTでは集計は変わらない", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPut,
			Path:    fmt.Sprintf("/api/v1/sessions/%s", session.SessionID),
			Headers: authHeader(auth.AccessToken),
			Body: model.PutSessionRequest{
				ProtocolType:    model.ProtocolDreamNavigation,
				ProtocolName:    "MILD",
				DurationMinutes: 25,
				Notes:           "メモを追記",
			},
		}, http.StatusOK)

		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		require.Len(t, metrics, 1)
		assert.Equal(t, 35, metrics[0].PracticeMinutes)
	})

	t.Run("セッションを全て削除しても集計行はゼロ値で残る", func(t *testing.T) {
		// 一覧を取って全削除
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/sessions",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var sessions []model.PracticeSession
		decodeBody(t, body, &sessions)
		require.Len(t, sessions, 2)

		for _, s := range sessions {
			sendRequest(t, server, httpRequestDetails{
				Method:  http.MethodDelete,
				Path:    fmt.Sprintf("/api/v1/sessions/%s", s.SessionID),
				Headers: authHeader(auth.AccessToken),
			}, http.StatusNoContent)
		}

		body = sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		require.Len(t, metrics, 1)
		assert.Equal(t, 0, metrics[0].PracticeMinutes)
		assert.Equal(t, 0.0, metrics[0].ConsistencyScore)

		// 活動がなくなったのでストリークは0
		body = sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress/streak",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var streak model.StreakResponse
		decodeBody(t, body, &streak)
		assert.Equal(t, 0, streak.Current)
	})

	t.Run("不正なプロトコル種別は400", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/v1/sessions",
			Headers: authHeader(auth.AccessToken),
			Body: model.PostSessionRequest{
				ProtocolType:    "astral_projection",
				ProtocolName:    "Unknown",
				DurationMinutes: 10,
			},
		}, http.StatusBadRequest)
	})
}

// --- 音声リソースフロー ---
func TestAPI_ResourceFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	// config.Cfg.App.AdminEmail と一致するメールアドレスで登録すると管理者になる
	admin := registerUser(t, server, "resource_admin", "admin@example.com")
	member := registerUser(t, server, "resource_member", "member@example.com")

	req := model.PostResourceRequest{
		Title:           "夢への誘導瞑想",
		Description:     "入眠時に聴く誘導音声",
		ProtocolType:    model.ProtocolDreamNavigation,
		DurationSeconds: 600,
		FilePath:        "/audio/dream-navigation-01.mp3",
	}

	t.Run("一般ユーザーの登録は403", func(t *testing.T) {
		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/v1/resources",
			Headers: authHeader(member.AccessToken),
			Body:    req,
		}, http.StatusForbidden)
	})

	var created model.AudioResource
	t.Run("管理者は登録できる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/v1/resources",
			Headers: authHeader(admin.AccessToken),
			Body:    req,
		}, http.StatusCreated)
		decodeBody(t, body, &created)
		assert.Equal(t, req.Title, created.Title)
	})

	t.Run("一覧は認証なしで取得できる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodGet,
			Path:   "/api/v1/resources",
		}, http.StatusOK)

		var resources []model.AudioResource
		decodeBody(t, body, &resources)
		require.Len(t, resources, 1)
	})

	t.Run("カテゴリフィルタ", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodGet,
			Path:   "/api/v1/resources?category=" + model.ProtocolSynchronicity,
		}, http.StatusOK)

		var resources []model.AudioResource
		decodeBody(t, body, &resources)
		assert.Empty(t, resources)

		body = sendRequest(t, server, httpRequestDetails{
			Method: http.MethodGet,
			Path:   "/api/v1/resources?category=all",
		}, http.StatusOK)
		decodeBody(t, body, &resources)
		assert.Len(t, resources, 1)
	})

	t.Run("管理者は更新・削除できる", func(t *testing.T) {
		updated := req
		updated.Title = "改訂版 誘導瞑想"
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodPut,
			Path:    fmt.Sprintf("/api/v1/resources/%s", created.ResourceID),
			Headers: authHeader(admin.AccessToken),
			Body:    updated,
		}, http.StatusOK)

		var resource model.AudioResource
		decodeBody(t, body, &resource)
		assert.Equal(t, "改訂版 誘導瞑想", resource.Title)

		sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodDelete,
			Path:    fmt.Sprintf("/api/v1/resources/%s", created.ResourceID),
			Headers: authHeader(admin.AccessToken),
		}, http.StatusNoContent)

		sendRequest(t, server, httpRequestDetails{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/api/v1/resources/%s", created.ResourceID),
		}, http.StatusNotFound)
	})
}

// 日付をまたいだ集計行が期間フィルタで絞られること
func TestAPI_ProgressTimeRange(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	auth := registerUser(t, server, "range_user", "range@example.com")

	// 古い集計行を直接DBに仕込む (APIからは過去日付のセッションを作れないため)
	old := model.ProgressMetric{
		MetricID:        uuid.New(),
		UserID:          auth.User.UserID,
		Date:            model.DateOnly(time.Now().AddDate(0, 0, -60)),
		PracticeMinutes: 30,
		LucidDreams:     1,
	}
	require.NoError(t, testDB.Create(&old).Error)

	t.Run("weekでは60日前の行は含まれない", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress?timeRange=week",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		assert.Empty(t, metrics)
	})

	t.Run("yearでは含まれる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress?timeRange=year",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		require.Len(t, metrics, 1)
		assert.Equal(t, 30, metrics[0].PracticeMinutes)
	})

	t.Run("timeRange未指定でも含まれる", func(t *testing.T) {
		body := sendRequest(t, server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/v1/progress",
			Headers: authHeader(auth.AccessToken),
		}, http.StatusOK)

		var metrics []model.ProgressMetric
		decodeBody(t, body, &metrics)
		require.Len(t, metrics, 1)
		assert.Equal(t, 1, metrics[0].LucidDreams)
	})
}
