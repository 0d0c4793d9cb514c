package repository

import "github.com/krxsh13/ScamGuard/internal/infrastructure/database"

// Repositories groups every repository built on one pool
type Repositories struct {
	Audits   *AuditRepository
	Verdicts *VerdictRepository
}

// NewRepositories creates all repository instances from a database handle
func NewRepositories(db database.DBTX) *Repositories {
	return &Repositories{
		Audits:   NewAuditRepository(db),
		Verdicts: NewVerdictRepository(db),
	}
}
