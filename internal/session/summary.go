package session

// ImageSummary describes one image of a session.
type ImageSummary struct {
	Name     string `json:"name" yaml:"name"`
	Format   string `json:"format" yaml:"format"`
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
	MaxValue int    `json:"max_value,omitempty" yaml:"max_value,omitempty"`
}

// Summary describes a session for display.
type Summary struct {
	ID      int            `json:"id" yaml:"id"`
	Active  bool           `json:"active" yaml:"active"`
	Images  []ImageSummary `json:"images" yaml:"images"`
	Pending []string       `json:"pending" yaml:"pending"`
}

func summarize(s *Session, active bool) Summary {
	sum := Summary{
		ID:      s.id,
		Active:  active,
		Images:  make([]ImageSummary, 0, len(s.images)),
		Pending: make([]string, 0, len(s.queue)),
	}
	for _, img := range s.images {
		sum.Images = append(sum.Images, ImageSummary{
			Name:     img.Name,
			Format:   img.Format.String(),
			Width:    img.Width,
			Height:   img.Height,
			MaxValue: img.MaxValue,
		})
	}
	for _, k := range s.queue {
		sum.Pending = append(sum.Pending, k.String())
	}
	return sum
}
