package models

import "errors"

// Result codes carried in the NetworkStatus envelope.
const (
	CodeSuccess = 200

	codeCommonStart   = 1000
	CodeInternalError = codeCommonStart + 0
	CodeInvalidParams = codeCommonStart + 1
	CodeNotFound      = codeCommonStart + 2
	CodeTooMany       = codeCommonStart + 5
	CodeUnknownError  = codeCommonStart + 7
	CodeDatabaseError = codeCommonStart + 8
)

var (
	errUnknown = errors.New("unknown error")

	codeErrors = map[int32]error{
		CodeSuccess:       errors.New("success"),
		CodeInternalError: errors.New("internal error"),
		CodeInvalidParams: errors.New("invalid param"),
		CodeNotFound:      errors.New("not found"),
		CodeTooMany:       errors.New("too many"),
		CodeUnknownError:  errUnknown,
		CodeDatabaseError: errors.New("database error"),
	}
)

// ErrorFromCode returns the canonical error for a result code.
func ErrorFromCode(code int32) error {
	if err, ok := codeErrors[code]; ok {
		return err
	}
	return errUnknown
}

// Succeeded reports whether the envelope code signals success. Zero means the
// service did not report a code.
func (s *NetworkStatus) Succeeded() bool {
	return s.Code == 0 || s.Code == CodeSuccess
}
