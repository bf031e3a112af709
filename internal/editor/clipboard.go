package editor

import (
	"github.com/zyedidia/clipboard"
)

// SystemClipboard mirrors kills to the desktop clipboard.
type SystemClipboard struct {
	Register string
}

// NewSystemClipboard returns nil when no clipboard tool is available.
func NewSystemClipboard() *SystemClipboard {
	if err := clipboard.Initialize(); err != nil {
		return nil
	}
	return &SystemClipboard{Register: "clipboard"}
}

func (c *SystemClipboard) Write(p []byte) error {
	return clipboard.WriteAll(string(p), c.Register)
}
