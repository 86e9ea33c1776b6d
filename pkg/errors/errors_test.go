package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeValidationFailed: http.StatusBadRequest,
		CodeTagNotFound:      http.StatusNotFound,
		CodeConflict:         http.StatusConflict,
		CodeGenerationFailed: http.StatusBadGateway,
		CodeParseFailed:      http.StatusBadGateway,
		CodeExportFailed:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, string(code))
	}
}

func TestWithDetail_DoesNotMutateShared(t *testing.T) {
	e := ErrGenerationFailed.WithDetail("timeout")
	assert.Equal(t, "timeout", e.Detail)
	assert.Empty(t, ErrGenerationFailed.Detail)
}

func TestAsAppError_UnwrapsChain(t *testing.T) {
	inner := Wrap(stderrors.New("boom"), CodeParseFailed, "parse")
	wrapped := fmt.Errorf("outer: %w", inner)

	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, CodeParseFailed, AsAppError(wrapped).Code)
	assert.Equal(t, CodeUnknown, AsAppError(stderrors.New("plain")).Code)
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("edit: %w", ErrTagNotFound.WithDetail("hardware[3]"))
	assert.True(t, stderrors.Is(err, ErrTagNotFound))
	assert.False(t, stderrors.Is(err, ErrSectionNotFound))
}
