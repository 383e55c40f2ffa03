package handlers

import (
	"bytes"
	"io"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// clearDialog ends the active dialog, keeping calendar view data.
func (h *Handlers) clearDialog(chatID int64) {
	h.stateManager.ResetDialog(chatID)
}
