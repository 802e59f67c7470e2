package pkg

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/golang/glog"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/io"
	"github.com/ecopia-map/shapecloud/internal/normalize"
	"github.com/ecopia-map/shapecloud/pkg/algorithm_manager"
	"github.com/ecopia-map/shapecloud/tools"
)

type Importer struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewImporter(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) cloudgen.IRunner {
	return newImporter(fileFinder, algorithmManager)
}

func newImporter(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) *Importer {
	return &Importer{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Reads x,y,z csv files, resamples each cloud to the configured point count and writes it as
// <output>/<name>.ply
func (im *Importer) Run(opts *cloudgen.Options) error {
	importOpts := opts.ImportOptions
	if importOpts == nil {
		return errors.New("import options not set")
	}

	tools.LogOutput("Preparing list of files to import...")
	csvFiles, err := im.fileFinder.GetCsvFilesToImport(importOpts.Input, importOpts.FolderProcessing, importOpts.Recursive)
	if err != nil {
		return err
	}
	if len(csvFiles) == 0 {
		return fmt.Errorf("no csv file found in %s", importOpts.Input)
	}

	if err := tools.CreateDirectoryIfDoesNotExist(importOpts.Output); err != nil {
		return err
	}

	for i, filePath := range csvFiles {
		tools.LogOutput("Processing file " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(csvFiles)))
		cloud, err := im.ReadCloud(filePath, opts.PointsPerCloud)
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}

		outPath := path.Join(importOpts.Output, tools.GetFilenameWithoutExtension(filePath)+".ply")
		if err := writeCloudPly(outPath, importOpts.Format, cloud, filepath.Base(filePath)); err != nil {
			return err
		}
		tools.LogOutput("> done processing", filepath.Base(filePath))
	}
	return nil
}

// Loads a csv cloud and resizes it to points. An empty cloud becomes points origins.
func (im *Importer) ReadCloud(filePath string, points int) (data.Cloud, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cloud, skipped, err := io.ReadCloudCSV(f)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		glog.Warningf("%s: skipped %d malformed rows", filePath, skipped)
	}
	if len(cloud) == 0 {
		glog.Warningf("%s: no valid point, the cloud is filled with origins", filePath)
	}

	return normalize.ToCount(im.algorithmManager.GetRandomSource(), cloud, points), nil
}

func writeCloudPly(outPath string, format io.PlyFormat, cloud data.Cloud, source string) error {
	verts := make([]io.Vertex, len(cloud))
	r, g, b := io.ClassColor("")
	for i, p := range cloud {
		verts[i] = io.Vertex{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z), R: r, G: g, B: b}
	}
	return io.WritePlyFile(outPath, format, []string{"source " + source}, verts)
}
