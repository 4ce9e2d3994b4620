package repomanager

import (
	"context"
	"database/sql"

	"github.com/pawmate/pawmate/internal/dbx"
	"github.com/pawmate/pawmate/internal/server/repositories/chatmessages"
	"github.com/pawmate/pawmate/internal/server/repositories/emailverifications"
	"github.com/pawmate/pawmate/internal/server/repositories/llmconfigs"
	"github.com/pawmate/pawmate/internal/server/repositories/profiles"
	"github.com/pawmate/pawmate/internal/server/repositories/refreshtokens"
	"github.com/pawmate/pawmate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	EmailVerifications(db dbx.DBTX) emailverifications.Repository
	ChatMessages(db dbx.DBTX) chatmessages.Repository
	LLMConfigs(db dbx.DBTX) llmconfigs.Repository
}
