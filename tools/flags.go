package tools

import (
	"flag"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

// Flags common to every command that builds a dataset
type GeneratorFlags struct {
	Samples  *int     `json:"samples"`
	Points   *int     `json:"points"`
	Noise    *float64 `json:"noise"`
	Jitter   *float64 `json:"jitter"`
	RatioMin *float64 `json:"ratio_min"`
	RatioMax *float64 `json:"ratio_max"`
	Fill     *bool    `json:"fill"`
	CropMin  *float64 `json:"crop_min"`
	CropMax  *float64 `json:"crop_max"`
	Classes  *string  `json:"classes"`
	Seed     *int64   `json:"seed"`
}

type OutputFlags struct {
	Silent       *bool
	LogTimestamp *bool
	Help         *bool
	Version      *bool
}

type FlagsForCommandGenerate struct {
	GeneratorFlags
	OutputFlags
	Output *string
}

type FlagsForCommandExport struct {
	GeneratorFlags
	OutputFlags
	Output  *string
	Format  *string
	Workers *int
}

type FlagsForCommandImport struct {
	OutputFlags
	Input                     *string
	Output                    *string
	Points                    *int
	Seed                      *int64
	FolderProcessing          *bool
	RecursiveFolderProcessing *bool
	Format                    *string
}

type FlagsForCommandTrain struct {
	GeneratorFlags
	OutputFlags
	Runtime      *string
	ValRatio     *float64
	Epochs       *int
	BatchSize    *int
	LearningRate *float64
	Classify     *string
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of shapecloud.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineGeneratorFlags(flagCommand *flag.FlagSet, env EnvConfig) GeneratorFlags {
	return GeneratorFlags{
		Samples:  defineIntFlagCommand(flagCommand, "samples", "n", 50, "Number of samples generated for each active class."),
		Points:   defineIntFlagCommand(flagCommand, "points", "p", 256, "Number of points of every cloud."),
		Noise:    defineFloat64FlagCommand(flagCommand, "noise", "", 0.02, "Standard deviation of the gaussian noise added to each coordinate."),
		Jitter:   defineFloat64FlagCommand(flagCommand, "jitter", "", 0.01, "Half width of the uniform jitter added to each coordinate."),
		RatioMin: defineFloat64FlagCommand(flagCommand, "ratio-min", "", 3, "Minimum height to base width ratio."),
		RatioMax: defineFloat64FlagCommand(flagCommand, "ratio-max", "", 6, "Maximum height to base width ratio."),
		Fill:     defineBoolFlagCommand(flagCommand, "fill", "", false, "Samples the volume of the shapes instead of their surface."),
		CropMin:  defineFloat64FlagCommand(flagCommand, "crop-min", "", 0, "Minimum share of the XY domain kept by the random crop, in [0, 0.9]."),
		CropMax:  defineFloat64FlagCommand(flagCommand, "crop-max", "", 0, "Maximum share of the XY domain kept by the random crop, in [0, 0.9]. Cropping is disabled when both shares are 0."),
		Classes:  defineStringFlagCommand(flagCommand, "classes", "c", "", "Comma separated list of active classes among pyramid,box,cylinder,ellipsoid,paraboloid,cone. Default is pyramid,box,cylinder."),
		Seed:     defineInt64FlagCommand(flagCommand, "seed", "", env.Seed, "Seed of the random generator, 0 seeds from the clock."),
	}
}

func defineOutputFlags(flagCommand *flag.FlagSet) OutputFlags {
	return OutputFlags{
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:         defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:      defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of shapecloud."),
	}
}

func ParseFlagsForCommandGenerate(args []string, env EnvConfig) (FlagsForCommandGenerate, *flag.FlagSet) {
	flagCommand := flag.NewFlagSet("command-generate", flag.ExitOnError)

	generatorFlags := defineGeneratorFlags(flagCommand, env)
	output := defineStringFlagCommand(flagCommand, "output", "o", "-", "Specifies the output csv file, - writes to stdout.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandGenerate{
		GeneratorFlags: generatorFlags,
		OutputFlags:    outputFlags,
		Output:         output,
	}, flagCommand
}

func ParseFlagsForCommandExport(args []string, env EnvConfig) (FlagsForCommandExport, *flag.FlagSet) {
	flagCommand := flag.NewFlagSet("command-export", flag.ExitOnError)

	generatorFlags := defineGeneratorFlags(flagCommand, env)
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output folder where to write the ply files.")
	format := defineStringFlagCommand(flagCommand, "format", "", "binary", "Encoding of the ply files, can be 'ascii' or 'binary'.")
	workers := defineIntFlagCommand(flagCommand, "workers", "w", env.Workers, "Number of concurrent ply writers, 0 uses one per CPU.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandExport{
		GeneratorFlags: generatorFlags,
		OutputFlags:    outputFlags,
		Output:         output,
		Format:         format,
		Workers:        workers,
	}, flagCommand
}

func ParseFlagsForCommandImport(args []string, env EnvConfig) (FlagsForCommandImport, *flag.FlagSet) {
	flagCommand := flag.NewFlagSet("command-import", flag.ExitOnError)

	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input csv file/folder.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output folder where to write the ply files.")
	points := defineIntFlagCommand(flagCommand, "points", "p", 256, "Number of points every imported cloud is resampled to.")
	seed := defineInt64FlagCommand(flagCommand, "seed", "", env.Seed, "Seed of the random generator, 0 seeds from the clock.")
	folderProcessing := defineBoolFlagCommand(flagCommand, "folder", "f", false, "Enables processing of all csv files from input folder. Input must be a folder if specified")
	recursiveFolderProcessing := defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for all .csv files inside the subfolders")
	format := defineStringFlagCommand(flagCommand, "format", "", "binary", "Encoding of the ply files, can be 'ascii' or 'binary'.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandImport{
		OutputFlags:               outputFlags,
		Input:                     input,
		Output:                    output,
		Points:                    points,
		Seed:                      seed,
		FolderProcessing:          folderProcessing,
		RecursiveFolderProcessing: recursiveFolderProcessing,
		Format:                    format,
	}, flagCommand
}

func ParseFlagsForCommandTrain(args []string, env EnvConfig) (FlagsForCommandTrain, *flag.FlagSet) {
	flagCommand := flag.NewFlagSet("command-train", flag.ExitOnError)

	generatorFlags := defineGeneratorFlags(flagCommand, env)
	runtime := defineStringFlagCommand(flagCommand, "runtime", "", "softmax", "ML runtime used to build the classifier.")
	valRatio := defineFloat64FlagCommand(flagCommand, "val-ratio", "", 0.2, "Share of the dataset held out for validation.")
	epochs := defineIntFlagCommand(flagCommand, "epochs", "e", 30, "Number of training epochs.")
	batchSize := defineIntFlagCommand(flagCommand, "batch-size", "b", 32, "Mini batch size.")
	learningRate := defineFloat64FlagCommand(flagCommand, "learning-rate", "", 0.1, "Learning rate of the optimizer.")
	classify := defineStringFlagCommand(flagCommand, "classify", "", "", "Optional csv point cloud to classify with the trained model.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandTrain{
		GeneratorFlags: generatorFlags,
		OutputFlags:    outputFlags,
		Runtime:        runtime,
		ValRatio:       valRatio,
		Epochs:         epochs,
		BatchSize:      batchSize,
		LearningRate:   learningRate,
		Classify:       classify,
	}, flagCommand
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineInt64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int64, usage string) *int64 {
	var output int64
	flagCommand.Int64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Int64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
