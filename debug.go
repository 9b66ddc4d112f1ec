package modelslice

import "fmt"

// Shape describes the slice state document. An unhydrated initial state is
// described with a zero model so the model fields show up.
func (s *Slice[A, M, S]) Shape() (SchemaDocument, error) {
	sample := s.initial.Clone()
	if sample.Model == nil {
		var zero M
		sample.Model = &zero
	}
	doc, err := s.cfg.schema().Generate(sample)
	if err != nil {
		return SchemaDocument{}, fmt.Errorf("modelslice: shape for slice %q: %w", s.Name, err)
	}
	return doc, nil
}

func (s *Slice[A, M, S]) logCreated() {
	defer func() {
		_ = recover()
	}()

	shape, err := s.Shape()
	event := SliceLogEvent{
		Kind:         SliceEventCreated,
		Slice:        s.Name,
		ActionTypes:  s.Actions.Types(),
		Shape:        shape,
		InitialState: s.initial,
		Err:          err,
	}
	var logger SliceLogger = s.cfg.logger
	if logger == nil {
		logger = NewSlogLogger(nil)
	}
	logger.LogSlice(event)
}
