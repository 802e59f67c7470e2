package pkg

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/golang/glog"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/io"
	"github.com/ecopia-map/shapecloud/pkg/algorithm_manager"
	"github.com/ecopia-map/shapecloud/tools"
)

type Exporter struct {
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewExporter(algorithmManager algorithm_manager.AlgorithmManager) cloudgen.IRunner {
	return &Exporter{
		algorithmManager: algorithmManager,
	}
}

// Builds a dataset and writes it as a folder tree of PLY files, one subfolder per class, plus a
// JSON manifest
func (e *Exporter) Run(opts *cloudgen.Options) error {
	if opts.ExportOptions == nil || opts.ExportOptions.Output == "" {
		return errors.New("export output folder not set")
	}

	ds, err := buildDataset(e.algorithmManager, opts)
	if err != nil {
		return err
	}

	output := opts.ExportOptions.Output
	if err := tools.CreateDirectoryIfDoesNotExist(output); err != nil {
		return err
	}

	tools.LogOutput("> exporting data...")
	if err := exportDatasetAsPly(ds, output, "", opts.ExportOptions.Format, opts.Workers); err != nil {
		return err
	}

	if err := io.WriteManifest(output, io.NewManifest(ds, optionsAsParams(opts))); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	tools.LogOutput("> exported", ds.Len(), "samples to", output)
	return nil
}

// Writes one PLY file per sample using a producer and a pool of consumers
func exportDatasetAsPly(ds *data.Dataset, output string, subfolder string, format io.PlyFormat, workers int) error {
	// a consumer goroutine per CPU unless configured
	numConsumers := workers
	if numConsumers <= 0 {
		numConsumers = runtime.NumCPU()
	}

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)

	// every consumer submits at most one error before quitting
	errorChannel := make(chan error, numConsumers)

	var waitGroup sync.WaitGroup

	// add producer to waitgroup and launch producer goroutine
	waitGroup.Add(1)

	producer := io.NewStandardProducer(output, subfolder)
	go producer.Produce(workChannel, &waitGroup, ds)

	// add consumers to waitgroup and launch them
	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := io.NewStandardConsumer(format)
		go consumer.Consume(workChannel, errorChannel, &waitGroup)
	}

	// wait for producers and consumers to finish
	waitGroup.Wait()

	// close error chan
	close(errorChannel)

	// find if there are errors in the error channel buffer
	var errs []error
	for err := range errorChannel {
		glog.Errorln(err)
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d writers failed during export: %w", len(errs), errors.Join(errs...))
	}

	return nil
}

func optionsAsParams(opts *cloudgen.Options) map[string]string {
	return map[string]string{
		"samples_per_class": fmt.Sprint(opts.SamplesPerClass),
		"points_per_cloud":  fmt.Sprint(opts.PointsPerCloud),
		"noise_std":         tools.FormatFloat(opts.NoiseStd),
		"jitter":            tools.FormatFloat(opts.Jitter),
		"ratio_min":         tools.FormatFloat(opts.RatioMin),
		"ratio_max":         tools.FormatFloat(opts.RatioMax),
		"fill":              opts.Fill.String(),
		"crop_share_min":    tools.FormatFloat(opts.CropShareMin),
		"crop_share_max":    tools.FormatFloat(opts.CropShareMax),
		"seed":              fmt.Sprint(opts.Seed),
	}
}
