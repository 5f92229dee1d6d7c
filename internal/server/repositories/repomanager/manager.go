package repomanager

import (
	"context"
	"database/sql"

	"github.com/publiceyeusa/publiceye/internal/dbx"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/affiliations"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/profiles"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/tokens"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Affiliations(db dbx.DBTX) affiliations.Repository
}
