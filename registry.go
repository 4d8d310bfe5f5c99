package docsearch

// Registry maps formats to the extractors that read them.
// A Registry is populated once at startup and only read afterwards.
type Registry struct {
	extractors map[Format]Extractor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[Format]Extractor)}
}

// Register adds an extractor for a format, replacing any previous one.
func (r *Registry) Register(format Format, extractor Extractor) {
	r.extractors[format] = extractor
}

// Resolve returns the extractor for the file at path.
// Returns EUNSUPPORTED if the extension is unknown or nothing is registered.
func (r *Registry) Resolve(path string) (Extractor, Format, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, "", err
	}
	e, ok := r.extractors[format]
	if !ok {
		return nil, "", Errorf(EUNSUPPORTED, "no extractor registered for .%s", format)
	}
	return e, format, nil
}

// Supports reports whether an extractor is registered for the format.
func (r *Registry) Supports(format Format) bool {
	_, ok := r.extractors[format]
	return ok
}

// List returns the registered formats in canonical order.
func (r *Registry) List() []Format {
	var formats []Format
	for _, f := range Formats {
		if r.Supports(f) {
			formats = append(formats, f)
		}
	}
	return formats
}
