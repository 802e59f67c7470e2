package ml

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/random"
)

var (
	ErrShapeMismatch  = errors.New("tensor shape mismatch")
	ErrNotFitted      = errors.New("classifier not fitted")
	ErrUnknownRuntime = errors.New("unknown ml runtime")
)

// Runtime builds classifiers. The dataset pipeline never depends on a concrete runtime.
type Runtime interface {
	Name() string
	// inputShape excludes the batch axis, e.g. [pointsPerCloud, 3]
	BuildClassifier(inputShape []int, numClasses int) (Classifier, error)
}

// Classifier is not safe for concurrent use. Fit must complete before Evaluate or Predict.
type Classifier interface {
	InputShape() []int
	NumClasses() int
	// Fit streams one EpochLog per epoch. Both channels are closed when training ends; the
	// error channel carries at most one error.
	Fit(ctx context.Context, inputs, labels dataset.Tensor, cfg FitConfig) (<-chan EpochLog, <-chan error)
	Evaluate(ctx context.Context, inputs, labels dataset.Tensor) (Evaluation, error)
	// Predict returns one probability row per input
	Predict(ctx context.Context, inputs dataset.Tensor) ([][]float64, error)
}

type FitConfig struct {
	Epochs         int
	BatchSize      int
	LearningRate   float64
	Shuffle        bool
	ValidationData *ValidationData
}

type ValidationData struct {
	Inputs dataset.Tensor
	Labels dataset.Tensor
}

// Defaults of the training loop: 30 epochs of batch 32 with shuffling
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Epochs:       30,
		BatchSize:    32,
		LearningRate: 0.1,
		Shuffle:      true,
	}
}

type EpochLog struct {
	Epoch         int // 1 based
	Loss          float64
	Accuracy      float64
	HasValidation bool
	ValLoss       float64
	ValAccuracy   float64
}

type Evaluation struct {
	Loss     float64
	Accuracy float64
}

// Per epoch training curves
type History struct {
	Epochs []EpochLog
}

func (h History) Last() (EpochLog, bool) {
	if len(h.Epochs) == 0 {
		return EpochLog{}, false
	}
	return h.Epochs[len(h.Epochs)-1], true
}

// Collect drains a Fit stream, calling onEpoch for every log when not nil
func Collect(logs <-chan EpochLog, errs <-chan error, onEpoch func(EpochLog)) (History, error) {
	var history History
	for l := range logs {
		history.Epochs = append(history.Epochs, l)
		if onEpoch != nil {
			onEpoch(l)
		}
	}
	if err, ok := <-errs; ok && err != nil {
		return history, err
	}
	return history, nil
}

// Names of the runtimes NewRuntime knows
var RuntimeNames = []string{SoftmaxRuntimeName}

// NewRuntime returns the runtime registered under name
func NewRuntime(name string, src random.Source) (Runtime, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SoftmaxRuntimeName, "":
		return NewSoftmaxRuntime(src), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRuntime, name)
}

func checkInputs(inputs dataset.Tensor, inputShape []int) error {
	if len(inputs.Shape) != len(inputShape)+1 {
		return fmt.Errorf("%w: inputs rank %d, expected %d", ErrShapeMismatch, len(inputs.Shape), len(inputShape)+1)
	}
	for i, d := range inputShape {
		if inputs.Shape[i+1] != d {
			return fmt.Errorf("%w: inputs shape %v, expected [N %v]", ErrShapeMismatch, inputs.Shape, inputShape)
		}
	}
	return nil
}

func checkLabels(inputs, labels dataset.Tensor, numClasses int) error {
	if len(labels.Shape) != 2 || labels.Shape[1] != numClasses {
		return fmt.Errorf("%w: labels shape %v, expected [N %d]", ErrShapeMismatch, labels.Shape, numClasses)
	}
	if labels.Len() != inputs.Len() {
		return fmt.Errorf("%w: %d inputs, %d labels", ErrShapeMismatch, inputs.Len(), labels.Len())
	}
	return nil
}
