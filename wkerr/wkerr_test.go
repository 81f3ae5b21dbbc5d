package wkerr

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

func TestInternalErrorImplementsError(t *testing.T) {
	var err error = Internal("arm.genBinary", "weight %d exceeds register file", 5)
	be.True(t, errors.As(err, new(*Error)))
}

func TestUnimplementedErrorMessage(t *testing.T) {
	err := Unimplemented("jvm.genRHS", "unsupported RHS kind %d", 9)
	be.True(t, err.Kind == UnimplementedFeature)
	be.True(t, err.Error() != "")
}

func TestKindString(t *testing.T) {
	be.Equal(t, InternalConsistencyViolation.String(), "internal consistency violation")
	be.Equal(t, UnimplementedFeature.String(), "unimplemented feature")
}
