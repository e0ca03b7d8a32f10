package huffpack

// Model is a reusable codebook trained on sample text.
type Model struct {
	config   Config
	codebook *Codebook
}

// NewModel creates an empty model with the provided options.
func NewModel(opts ...Option) *Model {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Model{config: cfg}
}

// TrainModel trains a reusable model from sample text.
func TrainModel(sample string, opts ...Option) (*Model, error) {
	m := NewModel(opts...)
	if err := m.Train(sample); err != nil {
		return nil, err
	}
	return m, nil
}

// Train builds the codebook for subsequent Encode calls. An empty sample
// fails with ErrEmptySample and leaves the model as it was.
func (m *Model) Train(sample string) error {
	if sample == "" {
		return ErrEmptySample
	}
	enc := &Encoder{config: m.config}
	m.codebook = enc.codebook(CountFrequencies([]Symbol(sample)))
	return nil
}

// Encode packs text with the trained codebook. Text containing a symbol the
// sample did not contain fails with ErrMissingCode.
func (m *Model) Encode(text string) (*Archive, error) {
	if m.codebook == nil {
		return nil, ErrUntrainedModel
	}
	data, padding, err := Pack([]Symbol(text), m.codebook)
	if err != nil {
		return nil, err
	}
	return &Archive{Codebook: m.codebook, Padding: padding, Data: data}, nil
}

// Codebook returns the trained codebook, or nil before training.
func (m *Model) Codebook() *Codebook {
	return m.codebook
}

// Trained reports whether the model is ready for Encode.
func (m *Model) Trained() bool {
	return m.codebook != nil
}
