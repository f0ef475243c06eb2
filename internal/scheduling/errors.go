package scheduling

import (
	"errors"
	"fmt"
)

// Reason は検証で予約や操作を受け付けなかった理由です
type Reason string

const (
	ReasonIncompleteRequest Reason = "IncompleteRequest"
	ReasonInvalidInterval   Reason = "InvalidInterval"
	ReasonSlotConflict      Reason = "SlotConflict"
	ReasonUnauthorized      Reason = "Unauthorized"
	ReasonMalformedInput    Reason = "MalformedInput"
)

var (
	ErrIncompleteRequest = errors.New("incomplete request")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrSlotConflict      = errors.New("slot conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedInput    = errors.New("malformed input")
)

var sentinels = map[Reason]error{
	ReasonIncompleteRequest: ErrIncompleteRequest,
	ReasonInvalidInterval:   ErrInvalidInterval,
	ReasonSlotConflict:      ErrSlotConflict,
	ReasonUnauthorized:      ErrUnauthorized,
	ReasonMalformedInput:    ErrMalformedInput,
}

// Rejection は想定内の検証失敗を値として返すためのエラー型です
// errors.Is で対応する ErrXxx と一致します
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return sentinels[r.Reason].Error()
	}
	return fmt.Sprintf("%s: %s", sentinels[r.Reason], r.Detail)
}

func (r *Rejection) Is(target error) bool {
	return sentinels[r.Reason] == target
}

func reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf はエラーから Reason を取り出します
func ReasonOf(err error) (Reason, bool) {
	var rj *Rejection
	if errors.As(err, &rj) {
		return rj.Reason, true
	}
	return "", false
}
