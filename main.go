package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	u "github.com/araddon/gou"
	"github.com/kr/pretty"
	"github.com/rfielding/des-sct/des"
)

var (
	configFile  *string = flag.String("config", "", "model file (confl)")
	exampleName *string = flag.String("example", "", "built-in model ["+strings.Join(ExampleNames(), "|")+"]")
	logLevel    *string = flag.String("loglevel", "", "log level [debug|info|warn|error], overrides the model file")
	opName      *string = flag.String("op", "", "operation, overrides the model file ["+strings.Join(OperationNames(), "|")+"]")
	dotFile     *string = flag.String("dot", "", "write the first resulting automaton as Graphviz DOT to this file")
	mermaid     *bool   = flag.Bool("mermaid", false, "print the resulting automata as Mermaid state diagrams")
	workers     *int    = flag.Int("workers", 0, "exploration workers, overrides the model file; 0 keeps the file setting")
	showMetrics *bool   = flag.Bool("metrics", false, "print exploration counters")
)

func main() {
	flag.Parse()

	conf, err := loadModel()
	if err != nil {
		u.SetupLogging("error")
		u.Errorf("Could not load model: %v", err)
		os.Exit(1)
	}

	level := conf.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if level == "" {
		level = "info"
	}
	u.SetupLogging(level)
	u.SetColorIfTerminal()

	if *opName != "" {
		conf.Operation = *opName
	}
	if *workers != 0 {
		conf.Workers = *workers
	}
	u.Debugf("model: %# v", pretty.Formatter(conf))

	metrics := des.NewMetrics()
	opts := []des.Option{des.WithMetrics(metrics)}
	if conf.Workers != 0 {
		opts = append(opts, des.Parallel(conf.Workers))
	}

	report, err := Run(conf, opts...)
	if err != nil {
		u.Errorf("%v", err)
		os.Exit(1)
	}
	if _, err := report.WriteTo(os.Stdout); err != nil {
		u.Errorf("%v", err)
		os.Exit(1)
	}
	if *mermaid {
		for _, a := range report.Results {
			fmt.Printf("\n%%%% %s\n", a.Name())
			if err := WriteMermaidStateDiagram(a, os.Stdout); err != nil {
				u.Errorf("%v", err)
				os.Exit(1)
			}
		}
	}
	if *showMetrics {
		fmt.Println()
		fmt.Print(metrics.Table())
	}

	if *dotFile != "" {
		if len(report.Results) == 0 {
			u.Warnf("%s produced no automaton, nothing written to %s", report.Operation, *dotFile)
			return
		}
		if err := SaveGraphviz(report.Results[0], *dotFile); err != nil {
			u.Errorf("Could not write %s: %v", *dotFile, err)
			os.Exit(1)
		}
		u.Infof("wrote %s", *dotFile)
	}
}

func loadModel() (*Config, error) {
	switch {
	case *configFile != "" && *exampleName != "":
		return nil, fmt.Errorf("use either -config or -example")
	case *configFile != "":
		return LoadConfigFromFile(*configFile)
	case *exampleName != "":
		return LoadExample(*exampleName)
	}
	return nil, fmt.Errorf("must use a model file (-config) or a built-in model (-example)")
}
