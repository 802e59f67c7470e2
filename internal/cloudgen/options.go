package cloudgen

import (
	"errors"
	"strings"

	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/io"
)

type Command string
type FillMode string

const (
	CommandGenerate Command = "generate"
	CommandExport   Command = "export"
	CommandImport   Command = "import"
	CommandTrain    Command = "train"
)

const (
	// points are sampled on the boundary of the primitive
	FillSurface FillMode = "SURFACE"

	// points are sampled uniformly inside the primitive
	FillVolume FillMode = "VOLUME"
)

var ErrUnknownCommand = errors.New("unknown command")

var Commands = []Command{CommandGenerate, CommandExport, CommandImport, CommandTrain}

func ParseCommand(value string) (Command, error) {
	normalizedValue := Command(strings.Trim(strings.ToLower(value), " "))
	for _, c := range Commands {
		if c == normalizedValue {
			return c, nil
		}
	}
	return "", ErrUnknownCommand
}

func (e FillMode) String() string {
	if e == FillSurface {
		return "SURFACE"
	} else if e == FillVolume {
		return "VOLUME"
	}
	return ""
}

func (e FillMode) IsVolume() bool {
	return e == FillVolume
}

func ParseFillMode(value string) FillMode {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	if normalizedValue == "SURFACE" {
		return FillSurface
	} else if normalizedValue == "VOLUME" {
		return FillVolume
	}
	return ""
}

func FillModeOf(fill bool) FillMode {
	if fill {
		return FillVolume
	}
	return FillSurface
}

// Contains the options shared by every command
type Options struct {
	SamplesPerClass int                 // Samples generated for each active class
	PointsPerCloud  int                 // Points of every generated or imported cloud
	NoiseStd        float64             // Std deviation of the gaussian noise added per coordinate
	Jitter          float64             // Half width of the uniform jitter added per coordinate
	RatioMin        float64             // Lower height ratio, clamped to RatioBounds
	RatioMax        float64             // Upper height ratio, clamped to RatioBounds
	RatioBounds     dataset.RatioBounds // Clamp range of the height ratio
	Fill            FillMode            // Surface or volume sampling
	CropShareMin    float64             // Lower XY crop share, 0 disables cropping together with CropShareMax
	CropShareMax    float64             // Upper XY crop share
	Classes         []string            // Active classes, empty keeps the registry default
	Seed            int64               // Seed of the random source, 0 seeds from the clock
	Workers         int                 // Number of export consumers, 0 uses one per CPU

	Command         Command
	GenerateOptions *GenerateOptions
	ExportOptions   *ExportOptions
	ImportOptions   *ImportOptions
	TrainOptions    *TrainOptions
}

type GenerateOptions struct {
	Output string // CSV output file, "-" writes to stdout
}

type ExportOptions struct {
	Output string       // Output folder of the PLY tree
	Format io.PlyFormat // PLY encoding
}

type ImportOptions struct {
	Input            string       // Input CSV file/folder
	Output           string       // Output folder of the converted PLY files
	FolderProcessing bool         // Enables the import of all CSV files in Input folder
	Recursive        bool         // Recursive lookup of CSV files in subfolders
	Format           io.PlyFormat // PLY encoding
}

type TrainOptions struct {
	Runtime      string  // Name of the ML runtime
	ValRatio     float64 // Share of the dataset held out for validation
	Epochs       int
	BatchSize    int
	LearningRate float64
	Classify     string // Optional CSV cloud to classify with the trained model
}

// Dataset builder parameters carried by the options
func (opt *Options) Params() dataset.Params {
	return dataset.Params{
		SamplesPerClass: opt.SamplesPerClass,
		PointsPerCloud:  opt.PointsPerCloud,
		NoiseStd:        opt.NoiseStd,
		Jitter:          opt.Jitter,
		RatioMin:        opt.RatioMin,
		RatioMax:        opt.RatioMax,
		Fill:            opt.Fill.IsVolume(),
		CropShareMin:    opt.CropShareMin,
		CropShareMax:    opt.CropShareMax,
	}
}

func (opt *Options) Copy() *Options {
	newOpt := *opt
	newOpt.Classes = append([]string(nil), opt.Classes...)

	if opt.GenerateOptions != nil {
		generateOpt := *opt.GenerateOptions
		newOpt.GenerateOptions = &generateOpt
	}
	if opt.ExportOptions != nil {
		exportOpt := *opt.ExportOptions
		newOpt.ExportOptions = &exportOpt
	}
	if opt.ImportOptions != nil {
		importOpt := *opt.ImportOptions
		newOpt.ImportOptions = &importOpt
	}
	if opt.TrainOptions != nil {
		trainOpt := *opt.TrainOptions
		newOpt.TrainOptions = &trainOpt
	}
	return &newOpt
}

type IRunner interface {
	Run(opts *Options) error
}
