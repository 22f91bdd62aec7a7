package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotNil(t *testing.T) {
	var nilPtr *int
	var nilFunc func()

	require.Panics(t, func() { NotNil(nil, "value") })
	require.Panics(t, func() { NotNil(nilPtr, "pointer") })
	require.Panics(t, func() { NotNil(nilFunc, "func") })
	require.NotPanics(t, func() { NotNil(1, "int") })
	require.NotPanics(t, func() { NotNil(&struct{}{}, "struct") })
}

func TestNotEmptyStr(t *testing.T) {
	require.PanicsWithValue(t, "expected username to be non-empty", func() {
		NotEmptyStr("", "username")
	})
	require.NotPanics(t, func() { NotEmptyStr("alice", "username") })
}
