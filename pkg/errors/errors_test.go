package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New(ErrCodeSupplierNotFound, "supplier not found")
	assert.Equal(t, "[SUP_001] supplier not found", e.Error())

	withDetail := e.WithDetail("id=42")
	assert.Equal(t, "[SUP_001] supplier not found: id=42", withDetail.Error())
	// Original is untouched.
	assert.Empty(t, e.Detail)
}

func TestWrap_NilPassthrough(t *testing.T) {
	var err error
	assert.Nil(t, Wrap(err, CodeDatabaseError, "query failed"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(ErrCodeEntityDuplicate, "duplicate entity")
	wrapped := Wrap(inner, CodeUnknown, "resolve failed")
	assert.Equal(t, ErrCodeEntityDuplicate, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, wrapped))
	assert.True(t, IsCode(wrapped, ErrCodeEntityDuplicate))
}

func TestWrap_ChainTraversal(t *testing.T) {
	root := stderrors.New("connection refused")
	mid := Wrap(root, CodeDatabaseError, "query failed")
	top := fmt.Errorf("assessment aborted: %w", mid)

	assert.True(t, IsCode(top, CodeDatabaseError))
	assert.False(t, IsCode(top, ErrCodeNotFound))
	assert.Equal(t, CodeDatabaseError, GetCode(top))
	assert.True(t, stderrors.Is(top, root))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeNotFound, "gone")))
	assert.True(t, IsNotFound(New(ErrCodeEntityNotFound, "gone")))
	assert.True(t, IsNotFound(New(ErrCodeSupplierNotFound, "gone")))
	assert.True(t, IsNotFound(New(ErrCodeAssessmentNotFound, "gone")))
	assert.False(t, IsNotFound(New(ErrCodeConflict, "clash")))
	assert.False(t, IsNotFound(nil))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(Conflict("clash")))
	assert.True(t, IsConflict(New(ErrCodeSupplierDuplicate, "dup")))
	assert.False(t, IsConflict(NotFound("gone")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeGraphUnavailable, GetCode(New(ErrCodeGraphUnavailable, "down")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, 404, HTTPStatusForCode(ErrCodeSupplierNotFound))
	assert.Equal(t, 409, HTTPStatusForCode(ErrCodeEntityDuplicate))
	assert.Equal(t, 400, HTTPStatusForCode(ErrCodeValidation))
	assert.Equal(t, 503, HTTPStatusForCode(ErrCodeGraphUnavailable))
	assert.Equal(t, 500, HTTPStatusForCode(ErrorCode("NOPE")))
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeValidation))
	assert.False(t, IsServerError(ErrCodeValidation))
	assert.True(t, IsServerError(ErrCodePersistenceFailure))
}
