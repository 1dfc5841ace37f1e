package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestTextInputTyping(t *testing.T) {
	ti := NewTextInput("answer", 10)
	for _, r := range "abate" {
		ti, _ = ti.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	assert.Equal(t, "abate", ti.Value())

	ti.Reset()
	assert.Empty(t, ti.Value())

	ti.SetValue("a very long answer")
	assert.Equal(t, "a very lon", ti.Value(), "char limit applies")
}
