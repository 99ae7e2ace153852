package checkout_test

import (
	"testing"

	"pos/internal/domain/checkout"

	"github.com/stretchr/testify/assert"
)

func TestSession_HappyPath(t *testing.T) {
	sm := checkout.NewSession()
	assert.Equal(t, checkout.StateIdle, sm.State())

	assert.NoError(t, sm.SelectPayment())
	assert.Equal(t, checkout.StateSelectingPayment, sm.State())

	assert.NoError(t, sm.Begin())
	assert.Equal(t, checkout.StateProcessing, sm.State())

	assert.NoError(t, sm.Succeed())
	assert.Equal(t, checkout.StateSucceeded, sm.State())

	assert.NoError(t, sm.Acknowledge())
	assert.Equal(t, checkout.StateIdle, sm.State())
}

func TestSession_BeginWithoutSelectingPayment(t *testing.T) {
	//支払い方法選択を飛ばしても確定はできる
	sm := checkout.NewSession()
	assert.NoError(t, sm.Begin())
	assert.Equal(t, checkout.StateProcessing, sm.State())
}

func TestSession_BeginWhileProcessing(t *testing.T) {
	sm := checkout.NewSession()
	assert.NoError(t, sm.Begin())

	err := sm.Begin()
	var ite *checkout.InvalidTransitionError
	assert.ErrorAs(t, err, &ite)
	assert.Equal(t, checkout.StateProcessing, ite.From)
}

func TestSession_RetryAfterFailure(t *testing.T) {
	sm := checkout.NewSession()
	assert.NoError(t, sm.Begin())
	assert.NoError(t, sm.Fail())
	assert.Equal(t, checkout.StateFailed, sm.State())

	//失敗後はそのまま再試行できる
	assert.NoError(t, sm.Begin())
	assert.Equal(t, checkout.StateProcessing, sm.State())
}

func TestSession_AcknowledgeOnlyFromSucceeded(t *testing.T) {
	for _, from := range []checkout.State{
		checkout.StateIdle,
		checkout.StateSelectingPayment,
		checkout.StateProcessing,
		checkout.StateFailed,
	} {
		sm, err := checkout.Resume(from)
		assert.NoError(t, err)
		assert.Error(t, sm.Acknowledge(), "from=%s", from)
	}
}

func TestSession_SucceedRequiresProcessing(t *testing.T) {
	sm := checkout.NewSession()
	assert.Error(t, sm.Succeed())
	assert.Error(t, sm.Fail())
}

func TestSession_CanModifyCart(t *testing.T) {
	cases := map[checkout.State]bool{
		checkout.StateIdle:             true,
		checkout.StateSelectingPayment: true,
		checkout.StateFailed:           true,
		checkout.StateProcessing:       false,
		checkout.StateSucceeded:        false,
	}
	for state, want := range cases {
		sm, err := checkout.Resume(state)
		assert.NoError(t, err)
		assert.Equal(t, want, sm.CanModifyCart(), "state=%s", state)
	}
}

func TestResume(t *testing.T) {
	//空文字はIdle扱い（新規セッション）
	sm, err := checkout.Resume("")
	assert.NoError(t, err)
	assert.Equal(t, checkout.StateIdle, sm.State())

	sm, err = checkout.Resume(checkout.StateSucceeded)
	assert.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, sm.State())

	_, err = checkout.Resume(checkout.State("BOGUS"))
	assert.Error(t, err)
}
