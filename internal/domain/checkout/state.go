package checkout

import "fmt"

// チェックアウトの状態機械。
// Idle → SelectingPayment → Processing → Succeeded|Failed
// Succeededから抜けるのは呼び出し側の明示的なAcknowledgeのみ
// （タイマーでの自動遷移はしない）。
type State string

const (
	StateIdle             State = "IDLE"
	StateSelectingPayment State = "SELECTING_PAYMENT"
	StateProcessing       State = "PROCESSING"
	StateSucceeded        State = "SUCCEEDED"
	StateFailed           State = "FAILED"
)

func (s State) Valid() bool {
	switch s {
	case StateIdle, StateSelectingPayment, StateProcessing, StateSucceeded, StateFailed:
		return true
	default:
		return false
	}
}

type InvalidTransitionError struct {
	From  State
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("checkout: cannot %s from %s", e.Event, e.From)
}

type Session struct {
	state State
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Resumeは保存済みの状態から復元する。空文字はIdle扱い。
func Resume(s State) (*Session, error) {
	if s == "" {
		return NewSession(), nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("checkout: unknown state %q", s)
	}
	return &Session{state: s}, nil
}

func (s *Session) State() State {
	return s.state
}

// 支払い方法の選択画面へ
func (s *Session) SelectPayment() error {
	switch s.state {
	case StateIdle, StateFailed, StateSelectingPayment:
		s.state = StateSelectingPayment
		return nil
	default:
		return &InvalidTransitionError{From: s.state, Event: "select payment"}
	}
}

// 確定処理の開始。Processing中の再確定はここで弾く。
func (s *Session) Begin() error {
	switch s.state {
	case StateIdle, StateSelectingPayment, StateFailed:
		s.state = StateProcessing
		return nil
	default:
		return &InvalidTransitionError{From: s.state, Event: "begin commit"}
	}
}

func (s *Session) Succeed() error {
	if s.state != StateProcessing {
		return &InvalidTransitionError{From: s.state, Event: "succeed"}
	}
	s.state = StateSucceeded
	return nil
}

func (s *Session) Fail() error {
	if s.state != StateProcessing {
		return &InvalidTransitionError{From: s.state, Event: "fail"}
	}
	s.state = StateFailed
	return nil
}

// 完了確認。SucceededからIdleへ戻る唯一の遷移。
func (s *Session) Acknowledge() error {
	if s.state != StateSucceeded {
		return &InvalidTransitionError{From: s.state, Event: "acknowledge"}
	}
	s.state = StateIdle
	return nil
}

// カートを編集してよい状態か（処理中・完了未確認の間は編集不可）
func (s *Session) CanModifyCart() bool {
	switch s.state {
	case StateProcessing, StateSucceeded:
		return false
	default:
		return true
	}
}
