package mysql

import (
	"database/sql"

	"github.com/bryanwahyu/estatehub/internal/domain/properties"
)

// Repositories bundles every repository over one pool.
type Repositories struct {
	Users      *UserRepository
	Properties *PropertyRepository
	Saved      *SavedRepository
	Enquiries  *EnquiryRepository
	Analyses   *InvestmentRepository
	Activity   *ActivityRepository
}

func NewRepositories(db *sql.DB) *Repositories { return NewRepositoriesWith(db, translate, Dialect{}) }

// NewRepositoriesWith builds the repositories for any driver that accepts
// this package's SQL, translating its errors with tr and rendering filters with d.
func NewRepositoriesWith(db *sql.DB, tr Translator, d properties.Dialect) *Repositories {
	b := base{db: db, tr: tr, dialect: d}
	return &Repositories{
		Users:      &UserRepository{b},
		Properties: &PropertyRepository{b},
		Saved:      &SavedRepository{b},
		Enquiries:  &EnquiryRepository{b},
		Analyses:   &InvestmentRepository{b},
		Activity:   &ActivityRepository{b},
	}
}
