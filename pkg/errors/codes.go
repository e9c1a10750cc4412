package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeTimeout         ErrorCode = "COMMON_009"
	ErrCodeValidation      ErrorCode = "COMMON_010"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeDatabaseError   ErrorCode = "COMMON_012"
	ErrCodeCacheError      ErrorCode = "COMMON_013"
	ErrCodeExternalService ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled ErrorCode = "COMMON_015"
)

// Aliases used by call sites that predate the module-prefixed codes.
const (
	CodeUnknown      = ErrorCode("")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
)

// Corpus Module Error Codes
const (
	ErrCodeCorpusParse    ErrorCode = "CORPUS_001"
	ErrCodeCorpusEmpty    ErrorCode = "CORPUS_002"
	ErrCodeInvalidICDCode ErrorCode = "CORPUS_003"
)

// Test Set / Generation Module Error Codes
const (
	ErrCodeFatalIO          ErrorCode = "GEN_001"
	ErrCodeTestSetParse     ErrorCode = "GEN_002"
	ErrCodeDictionaryFormat ErrorCode = "GEN_003"
)

// Validation Module Error Codes
const (
	ErrCodeValidationFailed ErrorCode = "VAL_001"
	ErrCodeEmptyTestSet     ErrorCode = "VAL_002"
	ErrCodeServiceError     ErrorCode = "VAL_003"
	ErrCodeRAGCheckFailed   ErrorCode = "VAL_004"
)

// Infrastructure Module Error Codes
const (
	ErrCodeStorageError   ErrorCode = "INFRA_001"
	ErrCodeMessagingError ErrorCode = "INFRA_002"
)

// ErrorCodeMessage maps error codes to default human-readable messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "internal error",
	ErrCodeBadRequest:      "bad request",
	ErrCodeNotFound:        "resource not found",
	ErrCodeTimeout:         "operation timed out",
	ErrCodeValidation:      "validation failed",
	ErrCodeSerialization:   "serialization failed",
	ErrCodeDatabaseError:   "database error",
	ErrCodeCacheError:      "cache error",
	ErrCodeExternalService: "external service error",
	ErrCodeFeatureDisabled: "feature disabled",

	ErrCodeCorpusParse:    "corpus line could not be parsed",
	ErrCodeCorpusEmpty:    "corpus contains no documents",
	ErrCodeInvalidICDCode: "malformed ICD-10 code",

	ErrCodeFatalIO:          "fatal I/O error",
	ErrCodeTestSetParse:     "test set record could not be parsed",
	ErrCodeDictionaryFormat: "symptom dictionary is malformed",

	ErrCodeValidationFailed: "one or more test cases failed",
	ErrCodeEmptyTestSet:     "test set contains no cases",
	ErrCodeServiceError:     "diagnosis service call failed",
	ErrCodeRAGCheckFailed:   "one or more keyword coverage checks failed",

	ErrCodeStorageError:   "object storage error",
	ErrCodeMessagingError: "messaging error",
}

// ErrorCodeExitStatus maps error codes to process exit statuses. Codes not
// listed exit with 2.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeValidationFailed: 1,
	ErrCodeEmptyTestSet:     1,
	ErrCodeRAGCheckFailed:   1,
	ErrCodeValidation:       3,
	ErrCodeBadRequest:       3,
}

// DefaultMessageForCode returns the default message for a given error code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ExitStatusForCode returns the process exit status for a given error code.
func ExitStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeExitStatus[code]; ok {
		return status
	}
	return 2
}

// ModuleForCode returns the module prefix of the error code.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
