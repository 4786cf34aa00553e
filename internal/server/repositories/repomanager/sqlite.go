package repomanager

import (
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/catalogue"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/reports"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/userexercises"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Catalogue(db dbx.DBTX) catalogue.Repository {
	return catalogue.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) UserExercises(db dbx.DBTX) userexercises.Repository {
	return userexercises.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Reports(db dbx.DBTX) reports.Repository {
	return reports.NewSQLiteRepository(db)
}
