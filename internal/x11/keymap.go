package x11

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const setxkbmapTimeout = 2 * time.Second

// SetKeymap applies an XKB layout to the display with setxkbmap. An empty
// options string clears existing options.
func (c *Connection) SetKeymap(layout, variant, options string) error {
	ctx, cancel := context.WithTimeout(context.Background(), setxkbmapTimeout)
	defer cancel()

	args := keymapArgs(c.XUtil.Conn().DisplayNumber, layout, variant, options)
	out, err := exec.CommandContext(ctx, "setxkbmap", args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("setxkbmap: %w: %s", err, msg)
		}
		return fmt.Errorf("setxkbmap: %w", err)
	}
	return nil
}

func keymapArgs(displayNumber int, layout, variant, options string) []string {
	args := []string{"-display", fmt.Sprintf(":%d", displayNumber)}
	if layout != "" {
		args = append(args, "-layout", layout)
	}
	if variant != "" {
		args = append(args, "-variant", variant)
	}
	// "-option" with an empty value resets options before adding new ones.
	args = append(args, "-option", "")
	if options != "" {
		args = append(args, "-option", options)
	}
	return args
}
