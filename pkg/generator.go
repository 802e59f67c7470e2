package pkg

import (
	"fmt"
	stdio "io"
	"os"
	"path/filepath"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/io"
	"github.com/ecopia-map/shapecloud/pkg/algorithm_manager"
	"github.com/ecopia-map/shapecloud/tools"
)

type Generator struct {
	algorithmManager algorithm_manager.AlgorithmManager
	stdout           stdio.Writer
}

func NewGenerator(algorithmManager algorithm_manager.AlgorithmManager) cloudgen.IRunner {
	return &Generator{
		algorithmManager: algorithmManager,
		stdout:           os.Stdout,
	}
}

// Builds a dataset and writes it as CSV to the output file or to stdout
func (g *Generator) Run(opts *cloudgen.Options) error {
	ds, err := buildDataset(g.algorithmManager, opts)
	if err != nil {
		return err
	}

	output := "-"
	if opts.GenerateOptions != nil && opts.GenerateOptions.Output != "" {
		output = opts.GenerateOptions.Output
	}

	if output == "-" {
		return io.WriteDatasetCSV(g.stdout, ds)
	}

	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(output)); err != nil {
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := io.WriteDatasetCSV(f, ds); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	tools.LogOutput("> dataset", ds.ID, "written to", output)
	return nil
}

func buildDataset(algorithmManager algorithm_manager.AlgorithmManager, opts *cloudgen.Options) (*data.Dataset, error) {
	builder := algorithmManager.GetDatasetBuilder()
	classes := builder.Registry().Active()

	tools.LogOutput("> generating", opts.SamplesPerClass, "samples for each of", classes)
	ds, err := builder.Build(opts.Params())
	if err != nil {
		return nil, fmt.Errorf("building dataset: %w", err)
	}
	tools.LogOutput("> generated", ds.Len(), "clouds of", ds.PointsPerCloud(), "points")
	return ds, nil
}
