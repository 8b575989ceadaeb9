package service

import (
	"errors"
)

// ErrorKind классифицирует ошибки сервиса для слоя представления
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindStore
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Сообщения показываются пользователю как есть
const (
	MsgRequired         = "Alias and URL are required."
	MsgInvalidAlias     = "Alias must not contain '/'."
	MsgInvalidURL       = "Invalid URL."
	MsgUnreachable      = "URL is not reachable or returned an invalid status code."
	MsgConnectionFailed = "Database connection failed."
	MsgQueryFailed      = "Database query failed."
	MsgAliasTaken       = "Alias already taken."
	MsgInsertFailed     = "DB insert failed."
	MsgAliasNotFound    = "Alias not found."
)

// Error ошибка сервиса. Message безопасно отдавать клиенту, Err только для логов.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf возвращает вид ошибки или KindUnknown для чужих ошибок
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnknown
}
