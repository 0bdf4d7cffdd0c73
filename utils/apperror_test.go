package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrKindHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindBadRequest.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, KindConflict.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.HTTPStatus())
}

func TestAsAppErrorUnwrapsThroughWrapping(t *testing.T) {
	base := NotFound("Post not found")
	wrapped := fmt.Errorf("loading thread: %w", base)

	appErr := AsAppError(wrapped)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Equal(t, "Post not found", appErr.Message)
}

func TestAsAppErrorClassifiesUnknownAsInternal(t *testing.T) {
	appErr := AsAppError(errors.New("disk on fire"))
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, CodeInternal, appErr.Code)
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	appErr := Internal("query failed", cause)
	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "query failed")
	assert.Contains(t, appErr.Error(), "timeout")
}
