package cmd

import (
	"flag"
	"io"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the yna command line: global
// flags, then Commands and their flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		f.SetOutput(io.Discard)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(f)}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case fl.Name == "config":
			flags[fl.Name] = predict.Or(predict.Files("*.toml"), predict.Files("*.yaml"), predict.Files("*.yml"))
		case fl.Name == "metrics-file":
			flags[fl.Name] = predict.Files("*.prom")
		case isBoolFlag(fl):
			flags[fl.Name] = predict.Nothing
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

func isBoolFlag(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
