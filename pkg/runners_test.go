package pkg

import (
	"bytes"
	"context"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/io"
	"github.com/ecopia-map/shapecloud/internal/ml"
	"github.com/ecopia-map/shapecloud/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/shapecloud/tools"
)

func init() {
	tools.DisableLogger()
}

func newTestOptions(classes ...string) *cloudgen.Options {
	return &cloudgen.Options{
		SamplesPerClass: 3,
		PointsPerCloud:  32,
		NoiseStd:        0.01,
		Jitter:          0.01,
		RatioMin:        3,
		RatioMax:        6,
		RatioBounds:     dataset.DefaultRatioBounds,
		Fill:            cloudgen.FillSurface,
		Classes:         classes,
		Seed:            99,
		Workers:         2,
	}
}

func TestGeneratorWritesCsvToStdout(t *testing.T) {
	opts := newTestOptions("box", "cone")
	var buf bytes.Buffer
	g := &Generator{algorithmManager: std_algorithm_manager.NewAlgorithmManager(opts), stdout: &buf}

	require.NoError(t, g.Run(opts))

	ds, err := io.ReadDatasetCSV(&buf, "back")
	require.NoError(t, err)
	assert.Equal(t, []string{"box", "cone"}, ds.Classes)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1}, ds.Labels)
	assert.Equal(t, 32, ds.PointsPerCloud())
}

func TestGeneratorWritesCsvFile(t *testing.T) {
	opts := newTestOptions()
	opts.GenerateOptions = &cloudgen.GenerateOptions{Output: path.Join(t.TempDir(), "nested", "dataset.csv")}

	require.NoError(t, NewGenerator(std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts))

	content, err := os.ReadFile(opts.GenerateOptions.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	// default classes are pyramid, box and cylinder
	assert.Len(t, lines, 1+3*3*32)
	assert.True(t, strings.HasPrefix(lines[1], "0,pyramid,0,"))
}

func TestGeneratorRejectsInvalidParams(t *testing.T) {
	opts := newTestOptions()
	opts.PointsPerCloud = 0
	err := NewGenerator(std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	assert.ErrorIs(t, err, dataset.ErrInvalidParams)
}

func TestExporterWritesPlyTreeAndManifest(t *testing.T) {
	out := t.TempDir()
	opts := newTestOptions("cylinder", "ellipsoid")
	opts.ExportOptions = &cloudgen.ExportOptions{Output: out, Format: io.PlyBinary}

	require.NoError(t, NewExporter(std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts))

	m, err := io.ReadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, 6, m.Samples)
	assert.Equal(t, 32, m.PointsPerCloud)
	assert.Equal(t, map[string]int{"cylinder": 3, "ellipsoid": 3}, m.SamplesByClass)
	assert.Equal(t, "99", m.Params["seed"])
	for _, f := range m.Files {
		assert.FileExists(t, path.Join(out, f.Path))
	}
}

func TestExporterNeedsOutput(t *testing.T) {
	opts := newTestOptions()
	assert.Error(t, NewExporter(std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts))
}

func TestExportReportsWriterErrors(t *testing.T) {
	// a regular file where the class folder should go
	out := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(out, "box"), []byte("x"), 0644))

	ds := data.NewDataset("ds", []string{"box"}, 0)
	ds.Append(data.Cloud{{X: 1}}, 0)
	ds.Append(data.Cloud{{X: 2}}, 0)

	err := exportDatasetAsPly(ds, out, "", io.PlyASCII, 2)
	assert.Error(t, err)
}

func TestImporterConvertsFolder(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(in, "a.csv"), []byte("x,y,z\n1,2,3\n4,5,6\nbad\n"), 0644))
	require.NoError(t, os.WriteFile(path.Join(in, "b.csv"), []byte("0,0,1\n"), 0644))

	opts := newTestOptions()
	opts.PointsPerCloud = 5
	opts.ImportOptions = &cloudgen.ImportOptions{Input: in, Output: out, FolderProcessing: true, Format: io.PlyASCII}

	importer := newImporter(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts))
	require.NoError(t, importer.Run(opts))

	content, err := os.ReadFile(path.Join(out, "a.ply"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "element vertex 5")
	assert.FileExists(t, path.Join(out, "b.ply"))

	cloud, err := importer.ReadCloud(path.Join(in, "a.csv"), 5)
	require.NoError(t, err)
	// cyclic repeat of the two valid rows
	assert.Equal(t, data.Cloud{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 1, Y: 2, Z: 3}}, cloud)
}

func TestImporterEmptyFolder(t *testing.T) {
	opts := newTestOptions()
	opts.ImportOptions = &cloudgen.ImportOptions{Input: t.TempDir(), Output: t.TempDir(), FolderProcessing: true}
	err := NewImporter(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	assert.Error(t, err)
}

func TestEvalSamplesPerClass(t *testing.T) {
	assert.Equal(t, 60, EvalSamplesPerClass(50))
	assert.Equal(t, 60, EvalSamplesPerClass(100))
	assert.Equal(t, 120, EvalSamplesPerClass(200))
	assert.Equal(t, 61, EvalSamplesPerClass(102))
}

type TrainerSuite struct {
	suite.Suite
	opts    *cloudgen.Options
	trainer *Trainer
}

func (s *TrainerSuite) SetupTest() {
	s.opts = newTestOptions("box", "ellipsoid")
	s.opts.SamplesPerClass = 30
	s.opts.PointsPerCloud = 64
	s.opts.TrainOptions = &cloudgen.TrainOptions{Runtime: "softmax", ValRatio: 0.25, Epochs: 25, BatchSize: 16, LearningRate: 0.1}
	s.trainer = NewTrainer(std_algorithm_manager.NewAlgorithmManager(s.opts))
}

func TestTrainerSuite(t *testing.T) {
	suite.Run(t, new(TrainerSuite))
}

func (s *TrainerSuite) TestEvaluateBeforeTraining() {
	_, err := s.trainer.Evaluate(context.Background(), s.opts)
	s.ErrorIs(err, ml.ErrNotFitted)

	_, err = s.trainer.Classify(context.Background(), data.Cloud{{X: 1}})
	s.ErrorIs(err, ml.ErrNotFitted)
}

func (s *TrainerSuite) TestTrainEvaluateClassify() {
	ctx := context.Background()

	history, err := s.trainer.Train(ctx, s.opts)
	s.Require().NoError(err)
	s.Len(history.Epochs, 25)
	last, _ := history.Last()
	s.True(last.HasValidation)
	s.NotNil(s.trainer.Dataset())

	report, err := s.trainer.Evaluate(ctx, s.opts)
	s.Require().NoError(err)
	s.Equal([]string{"box", "ellipsoid"}, report.Classes)
	s.Len(report.Truth, 2*60)

	total := 0
	for _, row := range report.Confusion {
		for _, v := range row {
			total += v
		}
	}
	s.Equal(120, total)
	s.InDelta(report.Evaluation.Accuracy, ml.Accuracy(report.Predictions, report.Truth), 1e-9)
	s.Greater(report.Evaluation.Accuracy, 0.7)

	prediction, err := s.trainer.Classify(ctx, s.trainer.Dataset().Clouds[0][:40])
	s.Require().NoError(err)
	s.Contains([]string{"box", "ellipsoid"}, prediction.Class)
	s.Len(prediction.Probabilities, 2)
}

func (s *TrainerSuite) TestClassChangeInvalidatesDatasetAndModel() {
	ctx := context.Background()
	_, err := s.trainer.Train(ctx, s.opts)
	s.Require().NoError(err)

	// rejected change keeps everything valid
	s.Equal([]string{"box", "ellipsoid"}, s.trainer.SetActiveClasses([]string{"hexagon"}))
	s.NotNil(s.trainer.Dataset())

	s.Equal([]string{"cone"}, s.trainer.SetActiveClasses([]string{"cone"}))
	s.Nil(s.trainer.Dataset())

	_, err = s.trainer.Evaluate(ctx, s.opts)
	s.ErrorIs(err, ErrStaleModel)
}

func (s *TrainerSuite) TestTrainRebuildsStaleDataset() {
	ctx := context.Background()
	first, err := s.trainer.Generate(s.opts)
	s.Require().NoError(err)

	s.trainer.SetActiveClasses([]string{"pyramid", "cone", "paraboloid"})
	s.opts.TrainOptions.Epochs = 2
	_, err = s.trainer.Train(ctx, s.opts)
	s.Require().NoError(err)

	ds := s.trainer.Dataset()
	s.Require().NotNil(ds)
	s.NotEqual(first.ID, ds.ID)
	s.Equal([]string{"pyramid", "cone", "paraboloid"}, ds.Classes)
}

func (s *TrainerSuite) TestTrainTooSmall() {
	s.opts.SamplesPerClass = 1
	s.opts.Classes = []string{"box"}
	trainer := NewTrainer(std_algorithm_manager.NewAlgorithmManager(s.opts))
	_, err := trainer.Train(context.Background(), s.opts)
	s.ErrorIs(err, ErrDatasetTooSmall)
}

func (s *TrainerSuite) TestRunWithClassify() {
	csvPath := path.Join(s.T().TempDir(), "cloud.csv")
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("0.5,-0.5,")
		sb.WriteString(tools.FormatFloat(float64(i) / 10))
		sb.WriteString("\n")
	}
	s.Require().NoError(os.WriteFile(csvPath, []byte(sb.String()), 0644))

	s.opts.TrainOptions.Epochs = 3
	s.opts.TrainOptions.Classify = csvPath
	s.NoError(s.trainer.Run(s.opts))
}
