package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/server/auth"
	"github.com/pawmate/pawmate/internal/server/config"
	"github.com/pawmate/pawmate/internal/server/models"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	return h
}

func TestRegister_Success(t *testing.T) {
	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{},
		p:  &fakeProfilesRepo{},
		r:  &fakeRefreshRepo{},
		ev: &fakeVerificationsRepo{},
	}
	mailer := &fakeMailer{}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour,
		RefreshTokenValidityDuration: time.Hour, EmailTokenValidityDuration: 24 * time.Hour}
	svc := NewUserService(db, rm, mailer, nopLogger{}, cfg)

	account, pair, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "sup3rsecret",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if account.User.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", account.User.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("token pair not issued: %+v", pair)
	}
	if len(mailer.sentTo) != 1 || mailer.sentTo[0] != "alice@example.com" {
		t.Fatalf("verification mail not sent: %+v", mailer.sentTo)
	}
	if mailer.sentToken != "tok-1" {
		t.Fatalf("unexpected token: %s", mailer.sentToken)
	}
}

func TestRegister_MailFailureIsNotFatal(t *testing.T) {
	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{},
		p:  &fakeProfilesRepo{},
		r:  &fakeRefreshRepo{},
		ev: &fakeVerificationsRepo{},
	}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour,
		RefreshTokenValidityDuration: time.Hour, EmailTokenValidityDuration: 24 * time.Hour}
	svc := NewUserService(db, rm, &fakeMailer{err: errors.New("relay down")}, nopLogger{}, cfg)

	if _, _, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice", Email: "alice@example.com", Password: "sup3rsecret",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}, ev: &fakeVerificationsRepo{}}
	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{})

	tests := []struct {
		name   string
		params RegisterParams
	}{
		{"missing username", RegisterParams{Email: "a@b.com", Password: "sup3rsecret"}},
		{"bad email", RegisterParams{Username: "alice", Email: "not-an-email", Password: "sup3rsecret"}},
		{"short password", RegisterParams{Username: "alice", Email: "a@b.com", Password: "short"}},
		{"numeric password", RegisterParams{Username: "alice", Email: "a@b.com", Password: "12345678"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Register(context.Background(), tt.params); !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	rm := &fakeRepoManager{
		u:  &fakeUsersRepo{createErr: common.ErrorAlreadyExists},
		p:  &fakeProfilesRepo{},
		r:  &fakeRefreshRepo{},
		ev: &fakeVerificationsRepo{},
	}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	_, _, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice", Email: "a@b.com", Password: "sup3rsecret",
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestLogin_WithUsername(t *testing.T) {
	hash := mustHash(t, "sup3rsecret")
	user := &models.User{ID: "u-1", Username: "alice", PasswordHash: hash, IsActive: true}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byName: map[string]*models.User{"alice": user}},
		p: &fakeProfilesRepo{},
		r: &fakeRefreshRepo{},
	}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: time.Hour}
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, cfg)

	got, pair, err := svc.Login(context.Background(), "alice", "sup3rsecret", "203.0.113.7")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if got.ID != "u-1" || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("unexpected result: %+v %+v", got, pair)
	}
	if rm.p.loginIP != "203.0.113.7" {
		t.Fatalf("login not recorded, ip=%q", rm.p.loginIP)
	}
}

func TestLogin_WithEmail(t *testing.T) {
	hash := mustHash(t, "sup3rsecret")
	user := &models.User{ID: "u-1", Email: "alice@example.com", PasswordHash: hash, IsActive: true}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmail: map[string]*models.User{"alice@example.com": user}},
		p: &fakeProfilesRepo{},
		r: &fakeRefreshRepo{},
	}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: time.Hour}
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, cfg)

	if _, _, err := svc.Login(context.Background(), "Alice@Example.com", "sup3rsecret", ""); err != nil {
		t.Fatalf("Login error: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash := mustHash(t, "sup3rsecret")
	user := &models.User{ID: "u-1", Username: "alice", PasswordHash: hash, IsActive: true}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byName: map[string]*models.User{"alice": user}},
		p: &fakeProfilesRepo{},
		r: &fakeRefreshRepo{},
	}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	_, _, err := svc.Login(context.Background(), "alice", "nope", "")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}, r: &fakeRefreshRepo{}}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	_, _, err := svc.Login(context.Background(), "ghost", "whatever1", "")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	hash := mustHash(t, "sup3rsecret")
	user := &models.User{ID: "u-1", Username: "alice", PasswordHash: hash, IsActive: false}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byName: map[string]*models.User{"alice": user}},
		p: &fakeProfilesRepo{},
		r: &fakeRefreshRepo{},
	}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	_, _, err := svc.Login(context.Background(), "alice", "sup3rsecret", "")
	if !errors.Is(err, common.ErrorInactiveAccount) {
		t.Fatalf("expected inactive account, got %v", err)
	}
}

func TestRefreshToken_Success(t *testing.T) {
	user := &models.User{ID: "u-1", IsActive: true}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byID: map[string]*models.User{"u-1": user}},
		r: &fakeRefreshRepo{
			findOut: &models.RefreshToken{UserID: "u-1", Expires: time.Now().Add(10 * time.Minute)},
		},
	}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: time.Hour}
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, cfg)

	pair, err := svc.RefreshToken(context.Background(), "refresh-xyz")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a fresh token pair")
	}
	if rm.r.deleted != "refresh-xyz" {
		t.Fatalf("old token not rotated out, deleted=%q", rm.r.deleted)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{},
		r: &fakeRefreshRepo{
			findOut: &models.RefreshToken{UserID: "u-1", Expires: time.Now().Add(-time.Minute)},
		},
	}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	_, err := svc.RefreshToken(context.Background(), "refresh-xyz")
	if !errors.Is(err, common.ErrRefreshTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestRefreshToken_Unknown(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{},
		r: &fakeRefreshRepo{findErr: common.ErrorNotFound},
	}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	_, err := svc.RefreshToken(context.Background(), "who-dis")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogout_UnknownTokenIsFine(t *testing.T) {
	rm := &fakeRepoManager{r: &fakeRefreshRepo{delErr: common.ErrorNotFound}}

	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	if err := svc.Logout(context.Background(), "gone"); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
}

func TestVerifyEmail_Success(t *testing.T) {
	rm := &fakeRepoManager{
		p: &fakeProfilesRepo{},
		ev: &fakeVerificationsRepo{
			findOut: &models.EmailVerification{
				UserID: "u-1", Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour),
			},
		},
	}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	if err := svc.VerifyEmail(context.Background(), "tok-1"); err != nil {
		t.Fatalf("VerifyEmail error: %v", err)
	}
	if !rm.p.verified {
		t.Fatal("profile not marked verified")
	}
	if rm.ev.usedToken != "tok-1" {
		t.Fatalf("token not marked used: %q", rm.ev.usedToken)
	}
}

func TestVerifyEmail_ExpiredAndUsed(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	expired := &models.EmailVerification{UserID: "u-1", ExpiresAt: time.Now().Add(-time.Hour)}
	used := &models.EmailVerification{UserID: "u-1", Used: true, ExpiresAt: time.Now().Add(time.Hour)}

	tests := []struct {
		name    string
		out     *models.EmailVerification
		wantErr error
	}{
		{"expired", expired, common.ErrVerificationExpired},
		{"used", used, common.ErrVerificationUsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &fakeRepoManager{p: &fakeProfilesRepo{}, ev: &fakeVerificationsRepo{findOut: tt.out}}
			svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})
			if err := svc.VerifyEmail(context.Background(), "tok"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestChangePassword_Flow(t *testing.T) {
	hash := mustHash(t, "oldpassword1")
	user := &models.User{ID: "u-1", Username: "alice", PasswordHash: hash}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byID: map[string]*models.User{"u-1": user}},
		r: &fakeRefreshRepo{},
	}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	if err := svc.ChangePassword(context.Background(), "u-1", "wrong", "newpassword1"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), "u-1", "oldpassword1", "short"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), "u-1", "oldpassword1", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}
	if rm.u.updatedPassword == "" || rm.u.updatedPassword == hash {
		t.Fatal("password hash not replaced")
	}
	if rm.r.deletedForUser != "u-1" {
		t.Fatal("refresh tokens were not revoked")
	}
}

func TestUpdateAccount_AppliesFields(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "alice", FirstName: "A"}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byID: map[string]*models.User{"u-1": user}},
		p: &fakeProfilesRepo{profile: &models.Profile{ID: "p-1", UserID: "u-1"}},
	}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := NewUserService(db, rm, &fakeMailer{}, nopLogger{}, &config.Config{SecretKey: "k"})

	bio := "hello"
	first := "Alice"
	if _, err := svc.UpdateAccount(context.Background(), "u-1", ProfileUpdate{
		FirstName: &first, Bio: &bio,
	}); err != nil {
		t.Fatalf("UpdateAccount error: %v", err)
	}
	if !rm.u.updatedNames {
		t.Fatal("names not updated")
	}
	if rm.p.profile.Bio != "hello" {
		t.Fatalf("bio not applied: %+v", rm.p.profile)
	}
}
