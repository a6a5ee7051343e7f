package constants

//============== TICKET STATUSES ==============

// Ticket lifecycle is one-directional: Pending -> Ongoing -> Closed.
const (
	StatusPending = "Pending"
	StatusOngoing = "Ongoing"
	StatusClosed  = "Closed"
)

//============== TICKET TYPES ==============

const (
	TicketTypeServiceRequest = "Service Request"
	TicketTypeFaultyTicket   = "Faulty Ticket"
)

//============== PRIORITIES ==============

const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

var Priorities = []string{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

func IsValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

//============== ROLES ==============

type Role string

const (
	RoleCustomer       Role = "customer"
	RoleEngineer       Role = "engineer"
	RoleAdmin          Role = "admin"
	RoleAccountManager Role = "accountmanager"
)

func (r Role) String() string { return string(r) }

//============== BUNDLE SOURCES ==============

const (
	BundleSourceManual = "manual"
	BundleSourceCarry  = "carry"
)

//============== COMMENT ATTACHMENTS ==============

const (
	AttachmentTypeImage    = "image"
	AttachmentTypeDocument = "document"
)

//============== UPLOAD CONTEXTS ==============

type UploadContext string

const (
	UploadContextTicketDocument    UploadContext = "documents"
	UploadContextCommentAttachment UploadContext = "attachments"
	UploadContextProfilePhoto      UploadContext = "profile_images"
)

func (uc UploadContext) String() string { return string(uc) }

//============== CACHE KEYS ==============

// Redis key formats.
const (
	// login_attempts:<role>:<email> -> failure count inside the attempt window
	CacheKeyLoginAttempts = "login_attempts:%s:%s"

	// lockout:<role>:<email> -> "locked" while the account is locked out
	CacheKeyLockout = "lockout:%s:%s"

	// otp:<purpose>:<email> -> 6-digit code
	CacheKeyOTP = "otp:%s:%s"

	// reset_token:<token> -> email allowed to reset its password
	CacheKeyResetToken = "reset_token:%s"
)

// OTP purposes used in CacheKeyOTP.
const (
	OTPPurposeAdminLogin    = "admin_login"
	OTPPurposePasswordReset = "password_reset"
)
