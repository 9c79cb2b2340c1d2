package plasmid

// Font size bounds and default for labels.
const (
	MinFontSize     = 8
	MaxFontSize     = 20
	DefaultFontSize = 11
)

// RenderConfig is the typed configuration supplied by the controls surface.
type RenderConfig struct {
	FontSize    int         `json:"font_size"`
	Orientation Orientation `json:"orientation"`
	ShowSizes   bool        `json:"show_sizes"`
	Region      *Region     `json:"region,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() RenderConfig {
	return RenderConfig{FontSize: DefaultFontSize}
}

// Normalized returns a copy with FontSize defaulted when zero and clamped to
// [MinFontSize, MaxFontSize].
func (c RenderConfig) Normalized() RenderConfig {
	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	c.FontSize = min(max(c.FontSize, MinFontSize), MaxFontSize)
	if c.Region != nil {
		r := *c.Region
		c.Region = &r
	}
	return c
}
