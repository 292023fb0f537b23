package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRecipientsDropsEmptySlots(t *testing.T) {
	recipients := SplitRecipients("alice@x.com; ; bob@y.com")
	assert.Equal(t, []string{"alice@x.com", "bob@y.com"}, recipients)
}

func TestSplitRecipientsEmptyInput(t *testing.T) {
	assert.Empty(t, SplitRecipients(""))
	assert.Empty(t, SplitRecipients("; ; "))
}

func TestSplitRecipientsSingle(t *testing.T) {
	assert.Equal(t, []string{"alice@x.com"}, SplitRecipients("alice@x.com"))
}
