package reducer

// Defaults used by [DefaultConfig] and the one-shot helpers.
const (
	// DefaultThreshold is the residual tolerance used when none is configured.
	DefaultThreshold = 1e-6

	// DefaultStep is the sampling interval of one frame at 60 fps.
	DefaultStep = float32(1.0 / 60.0)

	// DefaultMode is the mode used for channels without an explicit one.
	DefaultMode = Smooth
)
