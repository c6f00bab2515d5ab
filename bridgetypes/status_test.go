package bridgetypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusExecuted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusExpired.Terminal())
	assert.False(t, StatusInitiated.Terminal())
	assert.False(t, StatusExecutable.Terminal())
}

func TestStatusKeyDistinguishesByField(t *testing.T) {
	a := ExecutionStatus{Kind: StatusInitiated, SourceTx: "0xaaa"}
	b := ExecutionStatus{Kind: StatusInitiated, SourceTx: "0xbbb"}
	assert.NotEqual(t, a.Key(), b.Key())

	c := ExecutionStatus{Kind: StatusInitiated, SourceTx: "0xaaa"}
	assert.Equal(t, a.Key(), c.Key())
}

func TestRouteCapabilitiesHasStep(t *testing.T) {
	caps := RouteCapabilities{Steps: []RouteStep{StepInitiate, StepExecute}}
	assert.True(t, caps.HasStep(StepInitiate))
	assert.False(t, caps.HasStep(StepProve))
}
