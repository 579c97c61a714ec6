package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailNotRegistered ErrCode = "EMAIL_NOT_REGISTERED"
	ErrEmailNotVerified   ErrCode = "EMAIL_NOT_VERIFIED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrVerificationToken  ErrCode = "VERIFICATION_TOKEN_INVALID"
	ErrInvalidRole        ErrCode = "INVALID_ROLE"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrTutorAccessOnly   ErrCode = "TUTOR_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrAccountNotFound    ErrCode = "ACCOUNT_NOT_FOUND"
	ErrClassroomNotFound  ErrCode = "CLASSROOM_NOT_FOUND"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrClassroomCodeTaken ErrCode = "CLASSROOM_CODE_TAKEN"

	// ─── Notification ──────────────────────────────────────────────────
	ErrNotificationFailed ErrCode = "NOTIFICATION_FAILED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// Type tags let clients branch on a failure without parsing messages.
const (
	TypeEmail  = "email"
	TypeVerify = "verify"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrEmailNotRegistered:
		return "No account with this email could be found."
	case ErrEmailNotVerified:
		return "Please verify your email address before logging in."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrVerificationToken:
		return "Invalid or expired verification link."
	case ErrInvalidRole:
		return "Invalid account role."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrTutorAccessOnly:
		return "This resource is restricted to tutors."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrAccountNotFound:
		return "Account not found."
	case ErrClassroomNotFound:
		return "Classroom not found."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrClassroomCodeTaken:
		return "This classroom code is already in use."

	// ─── Notification ──────────────────────────────────────────────────
	case ErrNotificationFailed:
		return "Failed to send verification email. Please request a new link."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
