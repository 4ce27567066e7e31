package library

import "github.com/rs/zerolog"

// Store bundles every repository over one Conn.
type Store struct {
	Users              *UserRepository
	Administrators     *AdministratorRepository
	Categories         *CategoryRepository
	MembershipTypes    *MembershipTypeRepository
	ResourceTypes      *ResourceTypeRepository
	Resources          *ResourceRepository
	Transactions       *TransactionRepository
	Fines              *FineRepository
	Reservations       *ReservationRepository
	FundRequests       *FundRequestRepository
	BorrowingHistories *BorrowingHistoryRepository
}

func NewStore(conn Conn, log zerolog.Logger) *Store {
	return &Store{
		Users:              NewUserRepository(conn, log),
		Administrators:     NewAdministratorRepository(conn, log),
		Categories:         NewCategoryRepository(conn, log),
		MembershipTypes:    NewMembershipTypeRepository(conn, log),
		ResourceTypes:      NewResourceTypeRepository(conn, log),
		Resources:          NewResourceRepository(conn, log),
		Transactions:       NewTransactionRepository(conn, log),
		Fines:              NewFineRepository(conn, log),
		Reservations:       NewReservationRepository(conn, log),
		FundRequests:       NewFundRequestRepository(conn, log),
		BorrowingHistories: NewBorrowingHistoryRepository(conn, log),
	}
}
