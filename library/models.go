package library

// DateLayout is the layout of every date column (issue_date, due_date, ...).
const DateLayout = "2006-01-02"

// Transaction states stored in transactions.transaction_status.
const (
	TransactionActive   = "ACTIVE"
	TransactionOverdue  = "OVERDUE"
	TransactionReturned = "RETURNED"
)

// Reservation states stored in reservations.status.
const (
	ReservationPending   = "PENDING"
	ReservationFulfilled = "FULFILLED"
	ReservationCancelled = "CANCELLED"
	ReservationExpired   = "EXPIRED"
)

// Fund request states stored in fund_requests.status.
const (
	FundRequestPending  = "Pending"
	FundRequestApproved = "Approved"
	FundRequestRejected = "Rejected"
)

// Defaults applied by the schema and by NewMembershipType / NewResourceType.
const (
	DefaultMaxBorrowingLimit     = 2
	DefaultBorrowingDurationDays = 14
	DefaultFinePerDay            = 5.00
	DefaultMaxRenewals           = 2
)

// Person holds the account fields shared by users and administrators.
type Person struct {
	Username  string `json:"username"`
	Password  string `json:"-"` // bcrypt hash once registered through LibraryManager
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
}

// FullName joins the first and last name.
func (p Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// User is a library member. Balance goes negative when fines are owed.
type User struct {
	ID Identity `json:"id"`
	Person
	Address          string  `json:"address"`
	Phone            string  `json:"phone"`
	Balance          float64 `json:"balance"`
	MembershipTypeID int64   `json:"membership_type_id"`
	RegistrationDate string  `json:"registration_date"`
}

// Administrator approves fund requests and manages the catalogue.
type Administrator struct {
	ID Identity `json:"id"`
	Person
	CreatedDate string `json:"created_date"`
}

type Category struct {
	ID          Identity `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// MembershipType carries the borrowing policy of every user holding it.
type MembershipType struct {
	ID                    Identity `json:"id"`
	Name                  string   `json:"name"`
	DurationDays          int      `json:"duration_days"`
	Price                 float64  `json:"price"`
	MaxBorrowingLimit     int      `json:"max_borrowing_limit"`
	BorrowingDurationDays int      `json:"borrowing_duration_days"`
	FinePerDay            float64  `json:"fine_per_day"`
	Description           string   `json:"description"`
}

// NewMembershipType returns a new membership type with the default borrowing policy.
func NewMembershipType(name string, durationDays int, price float64) MembershipType {
	return MembershipType{
		Name:                  name,
		DurationDays:          durationDays,
		Price:                 price,
		MaxBorrowingLimit:     DefaultMaxBorrowingLimit,
		BorrowingDurationDays: DefaultBorrowingDurationDays,
		FinePerDay:            DefaultFinePerDay,
	}
}

// ResourceType classifies resources (book, journal, DVD...) and limits renewals.
type ResourceType struct {
	ID                    Identity `json:"id"`
	Name                  string   `json:"name"`
	BorrowingDurationDays int      `json:"borrowing_duration_days"`
	MaxRenewals           int      `json:"max_renewals"`
	FinePerDay            float64  `json:"fine_per_day"`
	Description           string   `json:"description"`
}

// NewResourceType returns a new resource type with default limits.
func NewResourceType(name string) ResourceType {
	return ResourceType{
		Name:                  name,
		BorrowingDurationDays: DefaultBorrowingDurationDays,
		MaxRenewals:           DefaultMaxRenewals,
		FinePerDay:            DefaultFinePerDay,
	}
}

// Resource is a catalogue entry. AvailableCopies stays within [0, TotalCopies]
// as long as copies move through LibraryManager.
type Resource struct {
	ID              Identity `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Publisher       string   `json:"publisher"`
	PublicationYear int      `json:"publication_year"`
	ISBN            string   `json:"isbn"`
	CategoryID      int64    `json:"category_id"`
	ResourceTypeID  int64    `json:"resource_type_id"`
	TotalCopies     int      `json:"total_copies"`
	AvailableCopies int      `json:"available_copies"`
	Description     string   `json:"description"`
	AddedDate       string   `json:"added_date"`
	IsActive        bool     `json:"is_active"`
}

// Transaction is one borrow of one resource. ReturnDate stays "" until returned.
type Transaction struct {
	ID           Identity `json:"id"`
	UserID       int64    `json:"user_id"`
	ResourceID   int64    `json:"resource_id"`
	IssueDate    string   `json:"issue_date"`
	DueDate      string   `json:"due_date"`
	ReturnDate   string   `json:"return_date"`
	FineAmount   float64  `json:"fine_amount"`
	IsReturned   bool     `json:"is_returned"`
	IsOverdue    bool     `json:"is_overdue"`
	RenewalCount int      `json:"renewal_count"`
	Status       string   `json:"transaction_status"`
}

type Fine struct {
	ID            Identity `json:"id"`
	TransactionID int64    `json:"transaction_id"`
	UserID        int64    `json:"user_id"`
	DaysOverdue   int      `json:"days_overdue"`
	Amount        float64  `json:"fine_amount"`
	FineDate      string   `json:"fine_date"`
	IsPaid        bool     `json:"is_paid"`
	PaymentDate   string   `json:"payment_date"`
}

type Reservation struct {
	ID              Identity `json:"id"`
	UserID          int64    `json:"user_id"`
	ResourceID      int64    `json:"resource_id"`
	ReservationDate string   `json:"reservation_date"`
	ExpiryDate      string   `json:"expiry_date"`
	IsFulfilled     bool     `json:"is_fulfilled"`
	IsCancelled     bool     `json:"is_cancelled"`
	Status          string   `json:"status"`
}

// FundRequest asks an administrator to credit a user's balance.
// AdminID 0 means no administrator has decided it yet.
type FundRequest struct {
	ID              Identity `json:"id"`
	UserID          int64    `json:"user_id"`
	RequestedAmount float64  `json:"requested_amount"`
	RequestDate     string   `json:"request_date"`
	Status          string   `json:"status"`
	AdminID         int64    `json:"admin_id"`
	ApprovalDate    string   `json:"approval_date"`
	AdminNotes      string   `json:"admin_notes"`
}

// BorrowingHistory archives a closed transaction.
type BorrowingHistory struct {
	ID         Identity `json:"id"`
	UserID     int64    `json:"user_id"`
	ResourceID int64    `json:"resource_id"`
	IssueDate  string   `json:"issue_date"`
	DueDate    string   `json:"due_date"`
	ReturnDate string   `json:"return_date"`
	FineAmount float64  `json:"fine_amount"`
}
