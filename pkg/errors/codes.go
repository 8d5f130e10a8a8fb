package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeValidation         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeSerialization      ErrorCode = "COMMON_010"
	ErrCodeDatabaseError      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_012"
	ErrCodeExternalService    ErrorCode = "COMMON_013"
)

// Entity-resolution error codes
const (
	ErrCodeEntityNotFound      ErrorCode = "ENT_001"
	ErrCodeEntityDuplicate     ErrorCode = "ENT_002"
	ErrCodeResolutionFailed    ErrorCode = "ENT_003"
	ErrCodeResolutionAmbiguous ErrorCode = "ENT_004"
)

// Supplier error codes
const (
	ErrCodeSupplierNotFound  ErrorCode = "SUP_001"
	ErrCodeSupplierDuplicate ErrorCode = "SUP_002"
	ErrCodeImportFailed      ErrorCode = "SUP_003"
)

// Screening / signal error codes
const (
	ErrCodeSignalUnavailable ErrorCode = "SCR_001"
	ErrCodeScreeningFailed   ErrorCode = "SCR_002"
)

// Graph error codes
const (
	ErrCodeGraphUnavailable  ErrorCode = "GRF_001"
	ErrCodeGraphQueryFailed  ErrorCode = "GRF_002"
	ErrCodeGraphWriteFailed  ErrorCode = "GRF_003"
	ErrCodeGraphDepthInvalid ErrorCode = "GRF_004"
)

// Assessment error codes
const (
	ErrCodeConfigMissing      ErrorCode = "ASM_001"
	ErrCodePersistenceFailure ErrorCode = "ASM_002"
	ErrCodeAssessmentNotFound ErrorCode = "ASM_003"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal           = ErrCodeInternal
	CodeValidation         = ErrCodeValidation
	CodeUnauthorized       = ErrCodeUnauthorized
	CodeForbidden          = ErrCodeForbidden
	CodeNotFound           = ErrCodeNotFound
	CodeConflict           = ErrCodeConflict
	CodeDatabaseError      = ErrCodeDatabaseError
	CodeDependencyFailure  = ErrCodeServiceUnavailable
	CodeConfigMissing      = ErrCodeConfigMissing
	CodePersistenceFailure = ErrCodePersistenceFailure
	CodeOK                 = ErrorCode("OK")
	CodeUnknown            = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.  The interfaces
// layer is the only consumer; the core returns codes, never statuses.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeEntityNotFound:      http.StatusNotFound,
	ErrCodeEntityDuplicate:     http.StatusConflict,
	ErrCodeResolutionFailed:    http.StatusInternalServerError,
	ErrCodeResolutionAmbiguous: http.StatusConflict,

	ErrCodeSupplierNotFound:  http.StatusNotFound,
	ErrCodeSupplierDuplicate: http.StatusConflict,
	ErrCodeImportFailed:      http.StatusInternalServerError,

	ErrCodeSignalUnavailable: http.StatusServiceUnavailable,
	ErrCodeScreeningFailed:   http.StatusInternalServerError,

	ErrCodeGraphUnavailable:  http.StatusServiceUnavailable,
	ErrCodeGraphQueryFailed:  http.StatusInternalServerError,
	ErrCodeGraphWriteFailed:  http.StatusInternalServerError,
	ErrCodeGraphDepthInvalid: http.StatusBadRequest,

	ErrCodeConfigMissing:      http.StatusInternalServerError,
	ErrCodePersistenceFailure: http.StatusInternalServerError,
	ErrCodeAssessmentNotFound: http.StatusNotFound,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
