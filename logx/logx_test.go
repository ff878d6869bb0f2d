package logx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_BuildsDevelopmentLogger(t *testing.T) {
	l, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestScopedLoggers_AttachStructuredFields(t *testing.T) {
	base, err := New(true)
	require.NoError(t, err)

	require.NotNil(t, ForHorizon(base, 100, 200))
	require.NotNil(t, ForNode(base, 3, 2))
	require.NotNil(t, ForVehicle(base, "V1"))
}
