package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/dbx"
	"github.com/pawmate/pawmate/internal/logging"
	"github.com/pawmate/pawmate/internal/server/llm"
	"github.com/pawmate/pawmate/internal/server/models"
	chatmessagesrepo "github.com/pawmate/pawmate/internal/server/repositories/chatmessages"
	emailverificationsrepo "github.com/pawmate/pawmate/internal/server/repositories/emailverifications"
	llmconfigsrepo "github.com/pawmate/pawmate/internal/server/repositories/llmconfigs"
	profilesrepo "github.com/pawmate/pawmate/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/pawmate/pawmate/internal/server/repositories/refreshtokens"
	usersrepo "github.com/pawmate/pawmate/internal/server/repositories/users"
)

// --- shared test doubles ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeMailer struct {
	sentTo    []string
	sentToken string
	err       error
}

func (f *fakeMailer) SendVerification(to, token string) error {
	f.sentTo = append(f.sentTo, to)
	f.sentToken = token
	return f.err
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byID    map[string]*models.User
	byName  map[string]*models.User
	byEmail map[string]*models.User
	getErr  error

	updatedNames    bool
	updatedPassword string
	listOut         []models.User
	deleteErr       error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-new"
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byName[username]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateNames(ctx context.Context, id, firstName, lastName string) error {
	f.updatedNames = true
	return nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.updatedPassword = passwordHash
	return nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) { return f.listOut, nil }
func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error     { return f.deleteErr }

type fakeProfilesRepo struct {
	profile *models.Profile

	createErr   error
	getErr      error
	updateErr   error
	avatarKey   string
	verified    bool
	loginUser   string
	loginIP     string
	recordedErr error
}

func (f *fakeProfilesRepo) Create(ctx context.Context, userID string) (*models.Profile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Profile{ID: "p-1", UserID: userID}, nil
}

func (f *fakeProfilesRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return &models.Profile{ID: "p-1", UserID: userID}, nil
}

func (f *fakeProfilesRepo) Update(ctx context.Context, profile *models.Profile) error {
	f.profile = profile
	return f.updateErr
}

func (f *fakeProfilesRepo) SetAvatarKey(ctx context.Context, userID, key string) error {
	f.avatarKey = key
	return nil
}

func (f *fakeProfilesRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	f.verified = true
	return nil
}

func (f *fakeProfilesRepo) RecordLogin(ctx context.Context, userID, ip string) error {
	f.loginUser, f.loginIP = userID, ip
	return f.recordedErr
}

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error

	created        string
	deleted        string
	deletedForUser string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.created = token
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = token
	return f.delErr
}

func (f *fakeRefreshRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	f.deletedForUser = userID
	return nil
}

type fakeVerificationsRepo struct {
	createOut *models.EmailVerification
	createErr error
	findOut   *models.EmailVerification
	findErr   error
	usedToken string
}

func (f *fakeVerificationsRepo) Create(ctx context.Context, userID string, validity time.Duration) (*models.EmailVerification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return &models.EmailVerification{ID: "v-1", UserID: userID, Token: "tok-1",
		ExpiresAt: time.Now().Add(validity)}, nil
}

func (f *fakeVerificationsRepo) Find(ctx context.Context, token string) (*models.EmailVerification, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeVerificationsRepo) MarkUsed(ctx context.Context, token string) error {
	f.usedToken = token
	return nil
}

type fakeChatRepo struct {
	created []models.ChatMessage

	history    []models.ChatMessage
	historyErr error

	sessions   []models.SessionSummary
	deletedN   int64
	deleteErr  error
	statistics *models.ChatStatistics

	listedSession string
	listedAll     bool
	listedLimit   int
}

func (f *fakeChatRepo) Create(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	f.created = append(f.created, *msg)
	return msg, nil
}

func (f *fakeChatRepo) ListBySession(ctx context.Context, userID, sessionID string, limit int) ([]models.ChatMessage, error) {
	f.listedSession = sessionID
	f.listedLimit = limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeChatRepo) ListRecent(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	f.listedAll = true
	f.listedLimit = limit
	return f.history, nil
}

func (f *fakeChatRepo) ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	return f.sessions, nil
}

func (f *fakeChatRepo) DeleteSession(ctx context.Context, userID, sessionID string) (int64, error) {
	return f.deletedN, f.deleteErr
}

func (f *fakeChatRepo) Statistics(ctx context.Context, userID string) (*models.ChatStatistics, error) {
	return f.statistics, nil
}

type fakeLLMConfigsRepo struct {
	activeOut *models.LLMConfig
	activeErr error

	byID map[string]*models.LLMConfig

	createOut *models.LLMConfig
	createErr error

	listOut []models.LLMConfig

	updated       *models.LLMConfig
	setActiveID   string
	setActiveVal  bool
	deactivatedAt int
	deletedID     string
}

func (f *fakeLLMConfigsRepo) Create(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	cfg.ID = "cfg-new"
	return cfg, nil
}

func (f *fakeLLMConfigsRepo) GetByID(ctx context.Context, id string) (*models.LLMConfig, error) {
	if cfg, ok := f.byID[id]; ok {
		return cfg, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeLLMConfigsRepo) GetActive(ctx context.Context) (*models.LLMConfig, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.activeOut, nil
}

func (f *fakeLLMConfigsRepo) List(ctx context.Context) ([]models.LLMConfig, error) {
	return f.listOut, nil
}

func (f *fakeLLMConfigsRepo) Update(ctx context.Context, cfg *models.LLMConfig) error {
	f.updated = cfg
	if f.byID == nil {
		f.byID = map[string]*models.LLMConfig{}
	}
	f.byID[cfg.ID] = cfg
	return nil
}

func (f *fakeLLMConfigsRepo) SetActive(ctx context.Context, id string, active bool) error {
	f.setActiveID, f.setActiveVal = id, active
	return nil
}

func (f *fakeLLMConfigsRepo) DeactivateAll(ctx context.Context) error {
	f.deactivatedAt++
	return nil
}

func (f *fakeLLMConfigsRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	p  *fakeProfilesRepo
	r  *fakeRefreshRepo
	ev *fakeVerificationsRepo
	cm *fakeChatRepo
	lc *fakeLLMConfigsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository { return m.p }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *fakeRepoManager) EmailVerifications(db dbx.DBTX) emailverificationsrepo.Repository {
	return m.ev
}
func (m *fakeRepoManager) ChatMessages(db dbx.DBTX) chatmessagesrepo.Repository { return m.cm }
func (m *fakeRepoManager) LLMConfigs(db dbx.DBTX) llmconfigsrepo.Repository     { return m.lc }

type fakeLLMClient struct {
	completeOut string
	completeErr error
	gotMessages []llm.Message

	analyzeOut *llm.ImageAnalysis
	analyzeErr error
}

func (f *fakeLLMClient) Complete(ctx context.Context, s llm.Settings, messages []llm.Message) (string, error) {
	f.gotMessages = messages
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.completeOut, nil
}

func (f *fakeLLMClient) AnalyzeImage(ctx context.Context, s llm.Settings, imageData string) (*llm.ImageAnalysis, error) {
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analyzeOut, nil
}
