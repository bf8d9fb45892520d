package blob_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/supplysift/supplysift/pkg/blob"
)

func TestGuessContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", blob.GuessContentType("rfi/acme.pdf"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		blob.GuessContentType("acme.docx"))
	assert.Equal(t, "application/octet-stream", blob.GuessContentType("notes.unknown"))
}

func TestNewWithConfigRequiresConnectionString(t *testing.T) {
	_, err := blob.NewWithConfig(blob.StoreConfig{})
	assert.Error(t, err)
}
