package httpapi

import (
	"context"

	"github.com/pawmate/pawmate/internal/logging"
	"github.com/pawmate/pawmate/internal/server/llm"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/services"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeUserService struct {
	registerOut *services.Account
	registerErr error

	loginUser *models.User
	loginPair *services.TokenPair
	loginErr  error
	gotIP     string

	logoutErr error

	refreshOut *services.TokenPair
	refreshErr error

	verifyErr      error
	verifiedToken  string
	account        *services.Account
	accountErr     error
	updateOut      *services.Account
	updateErr      error
	changeErr      error
	listOut        []models.User
	deleteErr      error
	deletedUserIDs []string
}

func (f *fakeUserService) Register(ctx context.Context, p services.RegisterParams) (*services.Account, *services.TokenPair, error) {
	if f.registerErr != nil {
		return nil, nil, f.registerErr
	}
	return f.registerOut, &services.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeUserService) Login(ctx context.Context, login, password, clientIP string) (*models.User, *services.TokenPair, error) {
	f.gotIP = clientIP
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return f.loginUser, f.loginPair, nil
}

func (f *fakeUserService) Logout(ctx context.Context, refreshToken string) error { return f.logoutErr }

func (f *fakeUserService) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshOut, nil
}

func (f *fakeUserService) VerifyEmail(ctx context.Context, token string) error {
	f.verifiedToken = token
	return f.verifyErr
}

func (f *fakeUserService) GetAccount(ctx context.Context, userID string) (*services.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.account, nil
}

func (f *fakeUserService) UpdateAccount(ctx context.Context, userID string, upd services.ProfileUpdate) (*services.Account, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeUserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return f.changeErr
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.listOut, nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, userID string) error {
	f.deletedUserIDs = append(f.deletedUserIDs, userID)
	return f.deleteErr
}

type fakeAvatarService struct {
	uploadOut *services.AvatarUpload
	uploadErr error
	confirmed string
	url       string
	urlErr    error
	removed   bool
}

func (f *fakeAvatarService) BeginUpload(ctx context.Context, userID string) (*services.AvatarUpload, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadOut, nil
}

func (f *fakeAvatarService) Confirm(ctx context.Context, userID, key string) error {
	f.confirmed = key
	return nil
}

func (f *fakeAvatarService) DownloadURL(ctx context.Context, userID string) (string, error) {
	return f.url, f.urlErr
}

func (f *fakeAvatarService) Remove(ctx context.Context, userID string) error {
	f.removed = true
	return nil
}

type fakeChatService struct {
	chatOut *llm.Reply
	chatErr error
	gotChat services.ChatParams

	messages   []models.ChatMessage
	gotSession string
	gotLimit   int

	sessions []models.SessionSummary

	deletedSession string
	deletedN       int64

	stats *models.ChatStatistics
}

func (f *fakeChatService) Chat(ctx context.Context, p services.ChatParams) (*llm.Reply, error) {
	f.gotChat = p
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chatOut, nil
}

func (f *fakeChatService) Messages(ctx context.Context, userID, sessionID string, limit int) ([]models.ChatMessage, error) {
	f.gotSession = sessionID
	f.gotLimit = limit
	return f.messages, nil
}

func (f *fakeChatService) Sessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	return f.sessions, nil
}

func (f *fakeChatService) DeleteSession(ctx context.Context, userID, sessionID string) (int64, error) {
	f.deletedSession = sessionID
	return f.deletedN, nil
}

func (f *fakeChatService) Statistics(ctx context.Context, userID string) (*models.ChatStatistics, error) {
	return f.stats, nil
}

type fakeLLMConfigService struct {
	createOut *models.LLMConfig
	createErr error
	getOut    *models.LLMConfig
	getErr    error
	listOut   []models.LLMConfig
	updateOut *models.LLMConfig
	updateErr error

	activatedID   string
	deactivatedID string
	deletedID     string
	opErr         error
}

func (f *fakeLLMConfigService) Create(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeLLMConfigService) Get(ctx context.Context, id string) (*models.LLMConfig, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeLLMConfigService) List(ctx context.Context) ([]models.LLMConfig, error) {
	return f.listOut, nil
}

func (f *fakeLLMConfigService) Update(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeLLMConfigService) Activate(ctx context.Context, id string) error {
	f.activatedID = id
	return f.opErr
}

func (f *fakeLLMConfigService) Deactivate(ctx context.Context, id string) error {
	f.deactivatedID = id
	return f.opErr
}

func (f *fakeLLMConfigService) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return f.opErr
}
