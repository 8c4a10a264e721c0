package entity

// Status constants for ExeatRequest. The vocabulary mirrors the stage keys of
// the approval pipeline plus the terminal and in-transit states.
const (
	StatusPending          = "pending"
	StatusCMDReview        = "cmd_review"
	StatusDeputyDeanReview = "deputy_dean_review"
	StatusParentConsent    = "parent_consent"
	StatusDeanReview       = "dean_review"
	StatusHostelSignout    = "hostel_signout"
	StatusHostelSignin     = "hostel_signin"
	StatusSecuritySignout  = "security_signout"
	StatusSecuritySignin   = "security_signin"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusCompleted        = "completed"
)

// Role constants for acting parties. RoleUnknown is the role parent consent
// entries are recorded under; it is not a staff role.
const (
	RoleCMD         = "cmd"
	RoleDeputyDean  = "deputy_dean"
	RoleDean        = "dean"
	RoleHostelAdmin = "hostel_admin"
	RoleSecurity    = "security"
	RoleAdmin       = "admin"
	RoleUnknown     = "unknown"
)

// Approval decision constants
const (
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
	ApprovalPending  = "pending"
)

// Audit action constants
const (
	ActionSubmitted       = "submitted"
	ActionApproved        = "approved"
	ActionRejected        = "rejected"
	ActionParentConsent   = "parent_consent"
	ActionHostelSignout   = "hostel_signout"
	ActionSecuritySignout = "security_signout"
	ActionDeparted        = "departed_school"
	ActionSecuritySignin  = "security_signin"
	ActionOverdueFlagged  = "overdue_flagged"
)

// Debt status constants
const (
	DebtOutstanding = "outstanding"
	DebtCleared     = "cleared"
)

// Parent consent method constants
const (
	ConsentMethodCall = "call"
	ConsentMethodSMS  = "sms"
	ConsentMethodLink = "link"
)
