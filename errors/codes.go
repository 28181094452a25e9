package errors

// ErrorCode identifies an error category in API responses and logs
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

const (
	ErrorCode_INTERNAL         ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND        ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS   ErrorCode = "ALREADY_EXISTS"
	ErrorCode_HTTP_OK          ErrorCode = "OK"

	ErrorCode_INVALID_PAYLOAD   ErrorCode = "INVALID_PAYLOAD"
	ErrorCode_INVALID_SIGNATURE ErrorCode = "INVALID_SIGNATURE"

	ErrorCode_CONVERSATION_NOT_FOUND ErrorCode = "CONVERSATION_NOT_FOUND"
	ErrorCode_ESCALATION_NOT_FOUND   ErrorCode = "ESCALATION_NOT_FOUND"
	ErrorCode_INVALID_STATUS         ErrorCode = "INVALID_STATUS"

	ErrorCode_SYNC_IN_PROGRESS ErrorCode = "SYNC_IN_PROGRESS"

	ErrorCode_STORAGE_FAILED       ErrorCode = "STORAGE_FAILED"
	ErrorCode_VENDOR_API_FAILED    ErrorCode = "VENDOR_API_FAILED"
	ErrorCode_LLM_UNAVAILABLE      ErrorCode = "LLM_UNAVAILABLE"
	ErrorCode_KNOWLEDGE_BASE_ERROR ErrorCode = "KNOWLEDGE_BASE_ERROR"
)
