package postgres

import "database/sql"

// Repositories bundles every repository over one pool.
type Repositories struct {
	Users      *UserRepository
	Properties *PropertyRepository
	Saved      *SavedRepository
	Enquiries  *EnquiryRepository
	Analyses   *InvestmentRepository
	Activity   *ActivityRepository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Properties: NewPropertyRepository(db),
		Saved:      NewSavedRepository(db),
		Enquiries:  NewEnquiryRepository(db),
		Analyses:   NewInvestmentRepository(db),
		Activity:   NewActivityRepository(db),
	}
}
