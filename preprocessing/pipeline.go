package preprocessing

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/edago/core/model"
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
)

// PipelineStep is one named stage of a Pipeline.
type PipelineStep struct {
	Name string
	Step model.Transformer
}

// Pipeline chains fit/transform steps. Fit threads the table through each
// step's FitTransform so later steps see the output of earlier ones, which
// matters when an early step drops the columns a later step would learn from.
type Pipeline struct {
	model.BaseEstimator

	Steps []PipelineStep

	logger log.Logger
}

// NewPipeline creates a pipeline from the given steps. Step names must be
// non-empty and unique.
func NewPipeline(steps ...PipelineStep) (*Pipeline, error) {
	seen := make(map[string]struct{}, len(steps))
	for _, st := range steps {
		if st.Name == "" {
			return nil, errors.NewValidationError("steps", "step name must be non-empty", st)
		}
		if st.Step == nil {
			return nil, errors.NewValidationError("steps", "step must be non-nil", st.Name)
		}
		if _, dup := seen[st.Name]; dup {
			return nil, errors.NewValidationError("steps", "duplicate step name", st.Name)
		}
		seen[st.Name] = struct{}{}
	}
	return &Pipeline{
		Steps:  steps,
		logger: log.GetLoggerWithName("preprocessing"),
	}, nil
}

// SetLogger replaces the pipeline's diagnostic sink.
func (p *Pipeline) SetLogger(l log.Logger) { p.logger = l }

// Fit fits every step in order, feeding each step the transformed output of
// the previous one.
func (p *Pipeline) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("Pipeline.Fit", "input table is nil")
	}
	current := df
	for _, st := range p.Steps {
		out, err := st.Step.FitTransform(current)
		if err != nil {
			return errors.Wrapf(err, "pipeline step '%s'", st.Name)
		}
		p.logger.Debug("step fitted",
			log.StepKey, st.Name,
			log.OperationKey, "fit",
			log.RowsKey, out.NumRows(),
			log.ColumnsKey, out.NumCols(),
		)
		current = out
	}
	p.SetFitted()
	return nil
}

// Transform replays every fitted step in order.
func (p *Pipeline) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("Pipeline.Transform", "input table is nil")
	}
	current := df
	for _, st := range p.Steps {
		out, err := st.Step.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step '%s'", st.Name)
		}
		current = out
	}
	return current, nil
}

// FitTransform fits on df and transforms it.
func (p *Pipeline) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := p.Fit(df); err != nil {
		return nil, err
	}
	return p.Transform(df)
}

// GetParams returns the step names in order.
func (p *Pipeline) GetParams() map[string]interface{} {
	names := make([]string, len(p.Steps))
	for i, st := range p.Steps {
		names[i] = st.Name
	}
	return map[string]interface{}{"steps": names}
}

func (p *Pipeline) String() string {
	names := make([]string, len(p.Steps))
	for i, st := range p.Steps {
		names[i] = st.Name
	}
	return fmt.Sprintf("Pipeline(steps=[%s])", strings.Join(names, ", "))
}
