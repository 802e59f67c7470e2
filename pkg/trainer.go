package pkg

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/ml"
	"github.com/ecopia-map/shapecloud/internal/normalize"
	"github.com/ecopia-map/shapecloud/internal/perturb"
	"github.com/ecopia-map/shapecloud/pkg/algorithm_manager"
	"github.com/ecopia-map/shapecloud/tools"
)

const (
	DefaultValRatio        = 0.2
	minEvalSamplesPerClass = 60
)

var _ cloudgen.IRunner = (*Trainer)(nil)

var (
	ErrStaleModel      = errors.New("model does not match the active classes")
	ErrDatasetTooSmall = errors.New("dataset too small to train")
)

type EvaluationReport struct {
	Classes     []string
	Evaluation  ml.Evaluation
	Truth       []int
	Predictions []int
	Confusion   [][]int
}

type Prediction struct {
	Label         int
	Class         string
	Probabilities []float64
}

// Trainer keeps the current dataset and model between calls. A dataset built before the last
// accepted class change is stale and rebuilt on demand, a model is rebuilt when the number of
// classes or the cloud size changes.
type Trainer struct {
	algorithmManager algorithm_manager.AlgorithmManager
	dataset          *data.Dataset
	classifier       ml.Classifier
	classes          []string
}

func NewTrainer(algorithmManager algorithm_manager.AlgorithmManager) *Trainer {
	return &Trainer{
		algorithmManager: algorithmManager,
	}
}

// Samples per class of the held out evaluation set: max(60, floor(0.6*samplesPerClass))
func EvalSamplesPerClass(samplesPerClass int) int {
	return max(minEvalSamplesPerClass, int(math.Floor(0.6*float64(samplesPerClass))))
}

// Changes the active classes, returns the accepted set
func (t *Trainer) SetActiveClasses(classes []string) []string {
	return t.algorithmManager.GetRegistry().SetActive(classes)
}

// Current dataset, nil when none was built or when the active classes changed since
func (t *Trainer) Dataset() *data.Dataset {
	if t.dataset == nil || t.dataset.Generation != t.algorithmManager.GetRegistry().Generation() {
		return nil
	}
	return t.dataset
}

func (t *Trainer) Generate(opts *cloudgen.Options) (*data.Dataset, error) {
	ds, err := buildDataset(t.algorithmManager, opts)
	if err != nil {
		return nil, err
	}
	t.dataset = ds
	return ds, nil
}

// Splits the current dataset, building it first if needed, and fits the model on the train part
func (t *Trainer) Train(ctx context.Context, opts *cloudgen.Options) (ml.History, error) {
	ds := t.Dataset()
	if ds == nil || ds.PointsPerCloud() != opts.PointsPerCloud {
		var err error
		if ds, err = t.Generate(opts); err != nil {
			return ml.History{}, err
		}
	}

	valRatio := DefaultValRatio
	if opts.TrainOptions != nil && opts.TrainOptions.ValRatio > 0 {
		valRatio = opts.TrainOptions.ValRatio
	}
	split, err := dataset.SplitDataset(t.algorithmManager.GetRandomSource(), ds, valRatio)
	if err != nil {
		return ml.History{}, err
	}
	if len(split.TrainClouds) == 0 {
		return ml.History{}, fmt.Errorf("%w: %d samples, validation ratio %g", ErrDatasetTooSmall, ds.Len(), valRatio)
	}

	numClasses := len(ds.Classes)
	inputs, labels, err := toTensors(split.TrainClouds, split.TrainLabels, numClasses)
	if err != nil {
		return ml.History{}, err
	}
	valInputs, valLabels, err := toTensors(split.ValClouds, split.ValLabels, numClasses)
	if err != nil {
		return ml.History{}, err
	}

	if !t.modelMatches(numClasses, ds.PointsPerCloud()) {
		runtime, err := t.algorithmManager.GetRuntime()
		if err != nil {
			return ml.History{}, err
		}
		if t.classifier, err = runtime.BuildClassifier([]int{ds.PointsPerCloud(), 3}, numClasses); err != nil {
			return ml.History{}, err
		}
		tools.LogOutput("> built", runtime.Name(), "classifier for", numClasses, "classes")
	}
	t.classes = append([]string(nil), ds.Classes...)

	cfg := fitConfig(opts)
	cfg.ValidationData = &ml.ValidationData{Inputs: valInputs, Labels: valLabels}

	tools.LogOutput("> training on", len(split.TrainClouds), "samples, validating on", len(split.ValClouds))
	logs, errs := t.classifier.Fit(ctx, inputs, labels, cfg)
	history, err := ml.Collect(logs, errs, func(l ml.EpochLog) {
		tools.LogOutput(formatEpoch(l))
	})
	if err != nil {
		return history, fmt.Errorf("training: %w", err)
	}

	tools.LogOutput(">", ml.FormatSummary(history))
	return history, nil
}

// Scores the model on a freshly generated evaluation set
func (t *Trainer) Evaluate(ctx context.Context, opts *cloudgen.Options) (*EvaluationReport, error) {
	if t.classifier == nil {
		return nil, ml.ErrNotFitted
	}
	active := t.algorithmManager.GetRegistry().Active()
	if len(active) != t.classifier.NumClasses() {
		return nil, fmt.Errorf("%w: model has %d classes, %d active", ErrStaleModel, t.classifier.NumClasses(), len(active))
	}

	params := opts.Params()
	params.SamplesPerClass = EvalSamplesPerClass(opts.SamplesPerClass)
	params.PointsPerCloud = t.classifier.InputShape()[0]
	evalSet, err := t.algorithmManager.GetDatasetBuilder().Build(params)
	if err != nil {
		return nil, fmt.Errorf("building evaluation set: %w", err)
	}

	x, y, err := toTensors(evalSet.Clouds, evalSet.Labels, len(evalSet.Classes))
	if err != nil {
		return nil, err
	}
	evaluation, err := t.classifier.Evaluate(ctx, x, y)
	if err != nil {
		return nil, err
	}
	probs, err := t.classifier.Predict(ctx, x)
	if err != nil {
		return nil, err
	}

	preds := dataset.ArgMaxRows(probabilitiesTensor(probs, t.classifier.NumClasses()))

	return &EvaluationReport{
		Classes:     evalSet.Classes,
		Evaluation:  evaluation,
		Truth:       evalSet.Labels,
		Predictions: preds,
		Confusion:   ml.ConfusionMatrix(preds, evalSet.Labels, len(evalSet.Classes)),
	}, nil
}

// Predicts the class of a single cloud. The cloud is centered and resized to the model input.
func (t *Trainer) Classify(ctx context.Context, cloud data.Cloud) (Prediction, error) {
	if t.classifier == nil {
		return Prediction{}, ml.ErrNotFitted
	}

	points := t.classifier.InputShape()[0]
	centered := data.Cloud(perturb.Center(cloud))
	if len(centered) != points {
		centered = normalize.ToCount(t.algorithmManager.GetRandomSource(), centered, points)
	}

	x, err := dataset.CloudsToTensor([]data.Cloud{centered})
	if err != nil {
		return Prediction{}, err
	}
	probs, err := t.classifier.Predict(ctx, x)
	if err != nil {
		return Prediction{}, err
	}

	label := floats.MaxIdx(probs[0])
	class := fmt.Sprintf("class-%d", label)
	if label < len(t.classes) {
		class = t.classes[label]
	}
	return Prediction{Label: label, Class: class, Probabilities: probs[0]}, nil
}

// Generates, trains, evaluates and optionally classifies an imported cloud
func (t *Trainer) Run(opts *cloudgen.Options) error {
	ctx := context.Background()

	if _, err := t.Generate(opts); err != nil {
		return err
	}
	if _, err := t.Train(ctx, opts); err != nil {
		return err
	}

	report, err := t.Evaluate(ctx, opts)
	if err != nil {
		return err
	}
	tools.LogOutput(fmt.Sprintf("> evaluation on %d samples: loss %.4f, accuracy %.2f%%",
		len(report.Truth), report.Evaluation.Loss, report.Evaluation.Accuracy*100))
	tools.LogOutput("> confusion matrix (rows are true classes)\n" + ml.FormatConfusionMatrix(report.Classes, report.Confusion))

	if opts.TrainOptions == nil || opts.TrainOptions.Classify == "" {
		return nil
	}

	importer := newImporter(tools.NewStandardFileFinder(), t.algorithmManager)
	cloud, err := importer.ReadCloud(opts.TrainOptions.Classify, opts.PointsPerCloud)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.TrainOptions.Classify, err)
	}
	prediction, err := t.Classify(ctx, cloud)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s (%.1f%%)\n", opts.TrainOptions.Classify, prediction.Class, prediction.Probabilities[prediction.Label]*100)
	return nil
}

func (t *Trainer) modelMatches(numClasses, points int) bool {
	return t.classifier != nil && t.classifier.NumClasses() == numClasses && t.classifier.InputShape()[0] == points
}

func fitConfig(opts *cloudgen.Options) ml.FitConfig {
	cfg := ml.DefaultFitConfig()
	if opts.TrainOptions == nil {
		return cfg
	}
	if opts.TrainOptions.Epochs > 0 {
		cfg.Epochs = opts.TrainOptions.Epochs
	}
	if opts.TrainOptions.BatchSize > 0 {
		cfg.BatchSize = opts.TrainOptions.BatchSize
	}
	if opts.TrainOptions.LearningRate > 0 {
		cfg.LearningRate = opts.TrainOptions.LearningRate
	}
	return cfg
}

func toTensors(clouds []data.Cloud, labels []int, numClasses int) (dataset.Tensor, dataset.Tensor, error) {
	x, err := dataset.CloudsToTensor(clouds)
	if err != nil {
		return dataset.Tensor{}, dataset.Tensor{}, err
	}
	y, err := dataset.LabelsToOneHot(labels, numClasses)
	if err != nil {
		return dataset.Tensor{}, dataset.Tensor{}, err
	}
	return x, y, nil
}

func probabilitiesTensor(probs [][]float64, numClasses int) dataset.Tensor {
	values := make([]float64, 0, len(probs)*numClasses)
	for _, row := range probs {
		values = append(values, row...)
	}
	return dataset.Tensor{Shape: []int{len(probs), numClasses}, Data: values}
}

func formatEpoch(l ml.EpochLog) string {
	s := fmt.Sprintf("epoch %d: loss %.4f acc %.3f", l.Epoch, l.Loss, l.Accuracy)
	if l.HasValidation {
		s += fmt.Sprintf(" val_loss %.4f val_acc %.3f", l.ValLoss, l.ValAccuracy)
	}
	return s
}
