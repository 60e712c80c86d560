package message

import "strconv"

// ErrorCode is the numeric code of an error body.
type ErrorCode uint16

const (
	CodeTimeout                ErrorCode = 0
	CodeNodeNotFound           ErrorCode = 1
	CodeNotSupported           ErrorCode = 10
	CodeTemporarilyUnavailable ErrorCode = 11
	CodeMalformedRequest       ErrorCode = 12
	CodeCrash                  ErrorCode = 13
	CodeAbort                  ErrorCode = 14
	CodeKeyDoesNotExist        ErrorCode = 20
	CodeKeyAlreadyExists       ErrorCode = 21
	CodePreconditionFailed     ErrorCode = 22
	CodeTxnConflict            ErrorCode = 30
	CodeWrongNode              ErrorCode = 1001
	CodeUninitialised          ErrorCode = 1002
)

var codeNames = map[ErrorCode]string{
	CodeTimeout:                "timeout",
	CodeNodeNotFound:           "node-not-found",
	CodeNotSupported:           "not-supported",
	CodeTemporarilyUnavailable: "temporarily-unavailable",
	CodeMalformedRequest:       "malformed-request",
	CodeCrash:                  "crash",
	CodeAbort:                  "abort",
	CodeKeyDoesNotExist:        "key-does-not-exist",
	CodeKeyAlreadyExists:       "key-already-exists",
	CodePreconditionFailed:     "precondition-failed",
	CodeTxnConflict:            "txn-conflict",
	CodeWrongNode:              "wrong-node",
	CodeUninitialised:          "uninitialised",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "code-" + strconv.Itoa(int(c))
}
