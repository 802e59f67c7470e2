package ml

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/features"
	"github.com/ecopia-map/shapecloud/internal/random"
)

const (
	SoftmaxRuntimeName = "softmax"

	// L2 weight decay applied on every update
	softmaxWeightDecay = 1e-4
)

// SoftmaxRuntime builds multinomial logistic regressions over cloud descriptors
type SoftmaxRuntime struct {
	src random.Source
}

func NewSoftmaxRuntime(src random.Source) *SoftmaxRuntime {
	return &SoftmaxRuntime{src: src}
}

func (r *SoftmaxRuntime) Name() string {
	return SoftmaxRuntimeName
}

func (r *SoftmaxRuntime) BuildClassifier(inputShape []int, numClasses int) (Classifier, error) {
	if len(inputShape) != 2 || inputShape[0] < 1 || inputShape[1] != 3 {
		return nil, fmt.Errorf("%w: input shape %v, expected [points 3]", ErrShapeMismatch, inputShape)
	}
	if numClasses < 1 {
		return nil, fmt.Errorf("%w: %d classes", ErrShapeMismatch, numClasses)
	}

	shape := make([]int, len(inputShape))
	copy(shape, inputShape)

	weights := make([][]float64, numClasses)
	for c := range weights {
		// last column is the bias
		weights[c] = make([]float64, features.Count+1)
	}

	return &softmaxClassifier{
		src:        r.src,
		inputShape: shape,
		numClasses: numClasses,
		weights:    weights,
	}, nil
}

type softmaxClassifier struct {
	src        random.Source
	inputShape []int
	numClasses int
	weights    [][]float64
	mean       []float64
	scale      []float64
	fitted     bool
}

func (c *softmaxClassifier) InputShape() []int {
	out := make([]int, len(c.inputShape))
	copy(out, c.inputShape)
	return out
}

func (c *softmaxClassifier) NumClasses() int {
	return c.numClasses
}

func (c *softmaxClassifier) Fit(ctx context.Context, inputs, labels dataset.Tensor, cfg FitConfig) (<-chan EpochLog, <-chan error) {
	logs := make(chan EpochLog, max(cfg.Epochs, 0))
	errs := make(chan error, 1)

	fail := func(err error) (<-chan EpochLog, <-chan error) {
		errs <- err
		close(errs)
		close(logs)
		return logs, errs
	}

	if err := checkInputs(inputs, c.inputShape); err != nil {
		return fail(err)
	}
	if err := checkLabels(inputs, labels, c.numClasses); err != nil {
		return fail(err)
	}
	if inputs.Len() == 0 {
		return fail(fmt.Errorf("%w: no training samples", ErrShapeMismatch))
	}

	var val *standardizedSet
	if cfg.ValidationData != nil {
		if err := checkInputs(cfg.ValidationData.Inputs, c.inputShape); err != nil {
			return fail(err)
		}
		if err := checkLabels(cfg.ValidationData.Inputs, cfg.ValidationData.Labels, c.numClasses); err != nil {
			return fail(err)
		}
	}

	train := &standardizedSet{x: features.DescribeTensor(inputs), y: labels}
	c.fitScaler(train.x)
	c.standardize(train.x)
	if cfg.ValidationData != nil {
		val = &standardizedSet{x: features.DescribeTensor(cfg.ValidationData.Inputs), y: cfg.ValidationData.Labels}
		c.standardize(val.x)
	}
	c.fitted = true

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = train.y.Len()
	}
	learningRate := cfg.LearningRate
	if learningRate <= 0 {
		learningRate = DefaultFitConfig().LearningRate
	}

	go func() {
		defer close(errs)
		defer close(logs)

		for epoch := 1; epoch <= cfg.Epochs; epoch++ {
			if err := ctx.Err(); err != nil {
				errs <- err
				return
			}

			order := identity(train.y.Len())
			if cfg.Shuffle {
				order = dataset.Permutation(c.src, train.y.Len())
			}
			for start := 0; start < len(order); start += batchSize {
				end := min(start+batchSize, len(order))
				c.step(train, order[start:end], learningRate)
			}

			l := EpochLog{Epoch: epoch}
			l.Loss, l.Accuracy = c.score(train)
			if val != nil {
				l.HasValidation = true
				l.ValLoss, l.ValAccuracy = c.score(val)
			}
			logs <- l
		}
	}()

	return logs, errs
}

func (c *softmaxClassifier) Evaluate(ctx context.Context, inputs, labels dataset.Tensor) (Evaluation, error) {
	if !c.fitted {
		return Evaluation{}, ErrNotFitted
	}
	if err := checkInputs(inputs, c.inputShape); err != nil {
		return Evaluation{}, err
	}
	if err := checkLabels(inputs, labels, c.numClasses); err != nil {
		return Evaluation{}, err
	}
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}

	set := &standardizedSet{x: features.DescribeTensor(inputs), y: labels}
	c.standardize(set.x)
	loss, acc := c.score(set)
	return Evaluation{Loss: loss, Accuracy: acc}, nil
}

func (c *softmaxClassifier) Predict(ctx context.Context, inputs dataset.Tensor) ([][]float64, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}
	if err := checkInputs(inputs, c.inputShape); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x := features.DescribeTensor(inputs)
	c.standardize(x)
	out := make([][]float64, len(x))
	for i := range x {
		out[i] = c.probabilities(x[i])
	}
	return out, nil
}

type standardizedSet struct {
	x [][]float64
	y dataset.Tensor
}

func (c *softmaxClassifier) fitScaler(x [][]float64) {
	c.mean = make([]float64, features.Count)
	c.scale = make([]float64, features.Count)
	column := make([]float64, len(x))
	for f := 0; f < features.Count; f++ {
		for i := range x {
			column[i] = x[i][f]
		}
		mean, std := stat.Mean(column, nil), 0.0
		if len(column) > 1 {
			std = stat.StdDev(column, nil)
		}
		if std < 1e-12 || math.IsNaN(std) {
			std = 1
		}
		c.mean[f], c.scale[f] = mean, std
	}
}

func (c *softmaxClassifier) standardize(x [][]float64) {
	for i := range x {
		for f := range x[i] {
			x[i][f] = (x[i][f] - c.mean[f]) / c.scale[f]
		}
	}
}

func (c *softmaxClassifier) logits(x []float64) []float64 {
	out := make([]float64, c.numClasses)
	for k, w := range c.weights {
		out[k] = floats.Dot(w[:len(x)], x) + w[len(x)]
	}
	return out
}

func (c *softmaxClassifier) probabilities(x []float64) []float64 {
	z := c.logits(x)
	lse := floats.LogSumExp(z)
	for k := range z {
		z[k] = math.Exp(z[k] - lse)
	}
	return z
}

// one mini-batch gradient step on the averaged cross-entropy
func (c *softmaxClassifier) step(set *standardizedSet, batch []int, learningRate float64) {
	grads := make([][]float64, c.numClasses)
	for k := range grads {
		grads[k] = make([]float64, features.Count+1)
	}

	for _, i := range batch {
		p := c.probabilities(set.x[i])
		target := set.y.Row(i)
		for k := range p {
			g := p[k] - target[k]
			floats.AddScaled(grads[k][:features.Count], g, set.x[i])
			grads[k][features.Count] += g
		}
	}

	n := float64(len(batch))
	for k, w := range c.weights {
		for f := range w {
			decay := 0.0
			if f < features.Count {
				decay = softmaxWeightDecay * w[f]
			}
			w[f] -= learningRate * (grads[k][f]/n + decay)
		}
	}
}

// mean cross-entropy and accuracy over a set
func (c *softmaxClassifier) score(set *standardizedSet) (loss, accuracy float64) {
	n := len(set.x)
	if n == 0 {
		return 0, 0
	}
	hits := 0
	for i, x := range set.x {
		z := c.logits(x)
		lse := floats.LogSumExp(z)
		target := set.y.Row(i)
		truth := floats.MaxIdx(target)
		loss += lse - z[truth]
		if floats.MaxIdx(z) == truth {
			hits++
		}
	}
	return loss / float64(n), float64(hits) / float64(n)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
