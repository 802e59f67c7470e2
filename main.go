/*
 * This file is part of the shapecloud distribution, derived from the Go Cesium Point Cloud Tiler
 * (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/io"
	"github.com/ecopia-map/shapecloud/internal/ml"
	"github.com/ecopia-map/shapecloud/internal/shapes"
	"github.com/ecopia-map/shapecloud/pkg"
	"github.com/ecopia-map/shapecloud/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/shapecloud/tools"
)

const VERSION = "0.3.0"

const logo = `
  shapecloud
  Synthetic point cloud datasets of primitive shapes
`

func main() {
	defer glog.Flush()

	// progress goes to the console unless -logtostderr=false is given
	_ = flag.Set("logtostderr", "true")

	flagsGlobal := tools.ParseFlagsGlobal()
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 || *flagsGlobal.Help {
		showHelp(nil)
		if len(args) == 0 && !*flagsGlobal.Help {
			glog.Fatal("Please specify a subcommand [generate|export|import|train].")
		}
		return
	}

	env, err := tools.ParseEnv()
	if err != nil {
		glog.Fatal(err)
	}

	cmd, args := args[0], args[1:]
	command, err := cloudgen.ParseCommand(cmd)
	if err != nil {
		glog.Fatalf("Unrecognized command [%q]. Command must be one of [generate|export|import|train]", cmd)
	}

	switch command {
	case cloudgen.CommandGenerate:
		mainCommandGenerate(args, env)
	case cloudgen.CommandExport:
		mainCommandExport(args, env)
	case cloudgen.CommandImport:
		mainCommandImport(args, env)
	case cloudgen.CommandTrain:
		mainCommandTrain(args, env)
	}
}

func mainCommandGenerate(args []string, env tools.EnvConfig) {
	flags, flagCommand := tools.ParseFlagsForCommandGenerate(args, env)
	glog.V(1).Infoln("flags", tools.FmtJSONString(flags))
	if handled := handleOutputFlags(flags.OutputFlags, flagCommand); handled {
		return
	}

	opts := generatorOptions(flags.GeneratorFlags, env)
	opts.Command = cloudgen.CommandGenerate
	opts.GenerateOptions = &cloudgen.GenerateOptions{
		Output: tools.ResolvePath(*flags.Output),
	}

	// the csv goes to stdout, keep it clean
	if opts.GenerateOptions.Output == "-" {
		tools.DisableLogger()
	}

	if msg, res := validateGeneratorOptions(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}

	runCommand(pkg.NewGenerator(std_algorithm_manager.NewAlgorithmManager(opts)), opts, "generation")
}

func mainCommandExport(args []string, env tools.EnvConfig) {
	flags, flagCommand := tools.ParseFlagsForCommandExport(args, env)
	glog.V(1).Infoln("flags", tools.FmtJSONString(flags))
	if handled := handleOutputFlags(flags.OutputFlags, flagCommand); handled {
		return
	}

	opts := generatorOptions(flags.GeneratorFlags, env)
	opts.Command = cloudgen.CommandExport
	opts.Workers = *flags.Workers
	opts.ExportOptions = &cloudgen.ExportOptions{
		Output: tools.ResolvePath(*flags.Output),
		Format: io.ParsePlyFormat(*flags.Format),
	}

	if msg, res := validateOptionsForCommandExport(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}

	runCommand(pkg.NewExporter(std_algorithm_manager.NewAlgorithmManager(opts)), opts, "export")
}

func mainCommandImport(args []string, env tools.EnvConfig) {
	flags, flagCommand := tools.ParseFlagsForCommandImport(args, env)
	glog.V(1).Infoln("flags", tools.FmtJSONString(flags))
	if handled := handleOutputFlags(flags.OutputFlags, flagCommand); handled {
		return
	}

	opts := &cloudgen.Options{
		PointsPerCloud: *flags.Points,
		Seed:           *flags.Seed,
		Command:        cloudgen.CommandImport,
		ImportOptions: &cloudgen.ImportOptions{
			Input:            tools.ResolvePath(*flags.Input),
			Output:           tools.ResolvePath(*flags.Output),
			FolderProcessing: *flags.FolderProcessing,
			Recursive:        *flags.RecursiveFolderProcessing,
			Format:           io.ParsePlyFormat(*flags.Format),
		},
	}

	if msg, res := validateOptionsForCommandImport(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}

	runCommand(pkg.NewImporter(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)), opts, "import")
}

func mainCommandTrain(args []string, env tools.EnvConfig) {
	flags, flagCommand := tools.ParseFlagsForCommandTrain(args, env)
	glog.V(1).Infoln("flags", tools.FmtJSONString(flags))
	if handled := handleOutputFlags(flags.OutputFlags, flagCommand); handled {
		return
	}

	opts := generatorOptions(flags.GeneratorFlags, env)
	opts.Command = cloudgen.CommandTrain
	opts.TrainOptions = &cloudgen.TrainOptions{
		Runtime:      *flags.Runtime,
		ValRatio:     *flags.ValRatio,
		Epochs:       *flags.Epochs,
		BatchSize:    *flags.BatchSize,
		LearningRate: *flags.LearningRate,
		Classify:     tools.ResolvePath(*flags.Classify),
	}

	if msg, res := validateOptionsForCommandTrain(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}

	runCommand(pkg.NewTrainer(std_algorithm_manager.NewAlgorithmManager(opts)), opts, "training")
}

// Runs a command and exits on failure
func runCommand(runner cloudgen.IRunner, opts *cloudgen.Options, name string) {
	start := time.Now()
	if err := runner.Run(opts); err != nil {
		glog.Fatalf("Error while running %s: %v", opts.Command, err)
	}
	timeTrack(start, name)
	tools.LogOutput(strings.ToUpper(name[:1]) + name[1:] + " Completed")
}

// Applies -help, -version, -silent and -timestamp. Returns true when the command must stop.
func handleOutputFlags(flags tools.OutputFlags, flagCommand *flag.FlagSet) bool {
	if *flags.Help {
		showHelp(flagCommand)
		return true
	}
	if *flags.Version {
		printVersion()
		return true
	}

	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}
	return false
}

func generatorOptions(flags tools.GeneratorFlags, env tools.EnvConfig) *cloudgen.Options {
	return &cloudgen.Options{
		SamplesPerClass: *flags.Samples,
		PointsPerCloud:  *flags.Points,
		NoiseStd:        *flags.Noise,
		Jitter:          *flags.Jitter,
		RatioMin:        *flags.RatioMin,
		RatioMax:        *flags.RatioMax,
		RatioBounds:     dataset.RatioBounds{Min: env.RatioBoundMin, Max: env.RatioBoundMax},
		Fill:            cloudgen.FillModeOf(*flags.Fill),
		CropShareMin:    *flags.CropMin,
		CropShareMax:    *flags.CropMax,
		Classes:         tools.SplitList(*flags.Classes),
		Seed:            *flags.Seed,
		Workers:         env.Workers,
	}
}

// Validates the dataset parameters shared by generate, export and train
func validateGeneratorOptions(opts *cloudgen.Options) (string, bool) {
	if err := opts.Params().Validate(); err != nil {
		return err.Error(), false
	}
	if !opts.RatioBounds.Valid() {
		return fmt.Sprintf("invalid ratio bounds [%g, %g] from environment", opts.RatioBounds.Min, opts.RatioBounds.Max), false
	}
	for _, c := range opts.Classes {
		if _, known := shapes.Parse(c); !known {
			return fmt.Sprintf("unknown class %q, must be one of [%s]", c, strings.Join(shapes.Names(), "|")), false
		}
	}
	return "", true
}

func validateOptionsForCommandExport(opts *cloudgen.Options) (string, bool) {
	if msg, res := validateGeneratorOptions(opts); !res {
		return msg, res
	}
	if opts.ExportOptions.Output == "" {
		return "Output folder not specified", false
	}
	if opts.ExportOptions.Format == "" {
		return "format should be either ascii or binary", false
	}
	return "", true
}

// Validates the input options checking that input files/folders exist
func validateOptionsForCommandImport(opts *cloudgen.Options) (string, bool) {
	importOpts := opts.ImportOptions
	if info, err := os.Stat(importOpts.Input); os.IsNotExist(err) {
		return "Input file/folder not found", false
	} else if err == nil && info.IsDir() != importOpts.FolderProcessing {
		return "Input must be a folder when -folder is set and a file otherwise", false
	}
	if importOpts.Output == "" {
		return "Output folder not specified", false
	}
	if opts.PointsPerCloud < 1 {
		return "points must be at least 1", false
	}
	if importOpts.Format == "" {
		return "format should be either ascii or binary", false
	}
	return "", true
}

func validateOptionsForCommandTrain(opts *cloudgen.Options) (string, bool) {
	if msg, res := validateGeneratorOptions(opts); !res {
		return msg, res
	}
	trainOpts := opts.TrainOptions
	if trainOpts.ValRatio <= 0 || trainOpts.ValRatio >= 1 {
		return "val-ratio must be in (0, 1)", false
	}
	if trainOpts.Epochs < 1 {
		return "epochs must be at least 1", false
	}
	if _, err := ml.NewRuntime(trainOpts.Runtime, nil); err != nil {
		return fmt.Sprintf("%v, must be one of [%s]", err, strings.Join(ml.RuntimeNames, "|")), false
	}
	if trainOpts.Classify != "" {
		if _, err := os.Stat(trainOpts.Classify); os.IsNotExist(err) {
			return "File to classify not found", false
		}
	}
	return "", true
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Fprint(os.Stderr, logo)
}

func showHelp(flagCommand *flag.FlagSet) {
	printLogo()
	fmt.Println("***")
	fmt.Println("shapecloud generates labelled point clouds of primitive shapes, exports them as CSV or PLY, imports CSV clouds and trains a classifier on them")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Commands: generate, export, import, train")
	fmt.Println("Command line flags: ")
	if flagCommand != nil {
		flagCommand.SetOutput(os.Stdout)
		flagCommand.PrintDefaults()
		return
	}
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
