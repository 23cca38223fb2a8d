package transcript

// DefaultLimit is the entity cap applied when the console limits the
// transcript to a thousand entities.
const DefaultLimit = 1000

// DefaultFontSize is the nominal font size carried for front-ends that scale
// text.
const DefaultFontSize = 13

// Options control how entities are rendered.
type Options struct {
	Compact         bool
	NetworkExpanded bool
	FontSize        int
	// Limit caps the number of rendered entities; 0 renders everything.
	Limit int
}

// DefaultOptions returns the options a fresh console starts with.
func DefaultOptions() Options {
	return Options{FontSize: DefaultFontSize, Limit: DefaultLimit}
}

func (o Options) separator() string {
	if o.Compact {
		return "\n"
	}
	return "\n\n"
}

func (o Options) truncates(n int) bool {
	return o.Limit > 0 && n > o.Limit
}
