package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyButtonsKeepsRowLayout(t *testing.T) {
	rows := [][]string{{"Science", "History"}, {"Nature", "Random"}, {"Stop"}}
	markup := ReplyButtons(rows...)

	assert.True(t, markup.ResizeKeyboard)
	assert.Equal(t, rows, Labels(markup))
}

func TestRemoveKeyboard(t *testing.T) {
	assert.True(t, RemoveKeyboard().RemoveKeyboard)
	assert.Nil(t, Labels(nil))
}
