package mdview

// RenderOption configures ANSI output.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8    bool
	focused *ApplyControl
	pending *ApplyControl
}

// WithOSC8 enables or disables OSC 8 hyperlinks.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithFocus highlights the Apply button of the given control, as the sidebar
// does for the block under the cursor.
func WithFocus(control *ApplyControl) RenderOption {
	return func(cfg *renderConfig) {
		cfg.focused = control
	}
}

// WithPending draws the control's button as "[ Applying… ]" even before its
// Click has started, as the sidebar does from the key press onwards.
func WithPending(control *ApplyControl) RenderOption {
	return func(cfg *renderConfig) {
		cfg.pending = control
	}
}
