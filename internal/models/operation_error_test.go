package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("xref table broken")

	assert.Equal(t, KindInvalidInput, KindOf(InputError(OperationMerge, "no files")))
	assert.Equal(t, KindUnreadableDocument,
		KindOf(NewOperationError(OperationSplit, KindUnreadableDocument, "bad file", cause)))

	// Wrapped errors keep their kind
	wrapped := fmt.Errorf("handler: %w", NewOperationError(OperationJPG, KindWriteFailure, "disk full", cause))
	assert.Equal(t, KindWriteFailure, KindOf(wrapped))

	assert.Equal(t, KindConversionFailure, KindOf(cause))
}

func TestIsUserFixable(t *testing.T) {
	assert.True(t, IsUserFixable(InputError(OperationWatermark, "no text")))
	assert.True(t, IsUserFixable(NewOperationError(OperationMerge, KindUnreadableDocument, "bad", nil)))
	assert.False(t, IsUserFixable(NewOperationError(OperationMerge, KindConversionFailure, "failed", nil)))
	assert.False(t, IsUserFixable(NewOperationError(OperationMerge, KindWriteFailure, "failed", nil)))
	assert.False(t, IsUserFixable(errors.New("plain")))
}

func TestOperationError_Message(t *testing.T) {
	cause := errors.New("boom")
	err := NewOperationError(OperationCompress, KindConversionFailure, "An error occurred", cause)

	assert.Equal(t, "An error occurred: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Please upload", InputError(OperationCompress, "Please upload").Error())
}

func TestOperations(t *testing.T) {
	ops := Operations()
	assert.Len(t, ops, 7)
	for _, op := range ops {
		assert.True(t, op.Valid())
		assert.NotEqual(t, string(op), op.Title())
	}
	assert.True(t, OperationPreview.Valid())
	assert.False(t, Operation("rotate").Valid())
}

func TestArtifactExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Artifact{ExpiresAt: now.Add(-time.Second)}).Expired(now))
	assert.False(t, (&Artifact{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.False(t, (&Artifact{}).Expired(now))
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("page 7 is out of range")

	assert.Equal(t, "Please upload", UserMessage(InputError(OperationMerge, "Please upload")))
	assert.Equal(t, "Invalid selection",
		UserMessage(NewOperationError(OperationSplit, KindInvalidInput, "Invalid selection", cause)))
	assert.Equal(t, "Could not read a.pdf: page 7 is out of range",
		UserMessage(NewOperationError(OperationSplit, KindUnreadableDocument, "Could not read a.pdf", cause)))
	assert.Equal(t, "Conversion failed",
		UserMessage(NewOperationError(OperationWord, KindConversionFailure, "Conversion failed", nil)))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}
