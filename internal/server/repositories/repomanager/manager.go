// Package repomanager vends the repositories of the development server bound
// to either the database handle or a transaction.
package repomanager

import (
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/catalogue"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/reports"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/userexercises"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Catalogue(db dbx.DBTX) catalogue.Repository
	UserExercises(db dbx.DBTX) userexercises.Repository
	Reports(db dbx.DBTX) reports.Repository
}
