package models

// Result is the synchronous result code returned from the command API and
// marshalled back to callers unchanged. The values are part of the client
// contract.
type Result int32

const (
	ResultOK         Result = 0
	ResultBusy       Result = -1 // play rejected: a session occupies the slot
	ResultNotPlaying Result = -1 // mutating command rejected: nothing playing
	ResultWrongID    Result = -2 // play-ID does not match the active session
)

// ErrorCode is the stable playback error taxonomy reported through the
// Error notification. Resource-domain engine failures map onto the
// enumerated values; core/library/stream-domain failures collapse to
// ErrCodeGeneric.
type ErrorCode int32

const (
	ErrCodeResourceTooLazy ErrorCode = iota
	ErrCodeResourceNotFound
	ErrCodeResourceBusy
	ErrCodeResourceOpenRead
	ErrCodeResourceOpenWrite
	ErrCodeResourceOpenReadWrite
	ErrCodeResourceClosed
	ErrCodeResourceRead
	ErrCodeResourceWrite
	ErrCodeResourceSeek
	ErrCodeResourceSync
	ErrCodeResourceSettings
	ErrCodeResourceNoSpaceLeft

	ErrCodeGeneric ErrorCode = -1
)

func (e ErrorCode) String() string {
	switch e {
	case ErrCodeResourceTooLazy:
		return "resource too lazy"
	case ErrCodeResourceNotFound:
		return "resource not found"
	case ErrCodeResourceBusy:
		return "resource busy"
	case ErrCodeResourceOpenRead:
		return "open for read failed"
	case ErrCodeResourceOpenWrite:
		return "open for write failed"
	case ErrCodeResourceOpenReadWrite:
		return "open for read/write failed"
	case ErrCodeResourceClosed:
		return "resource closed"
	case ErrCodeResourceRead:
		return "read failed"
	case ErrCodeResourceWrite:
		return "write failed"
	case ErrCodeResourceSeek:
		return "seek failed"
	case ErrCodeResourceSync:
		return "sync failed"
	case ErrCodeResourceSettings:
		return "settings failed"
	case ErrCodeResourceNoSpaceLeft:
		return "no space left"
	}
	return "generic error"
}
