package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/env"
	fx "github.com/robotalks/toyctl/pkg/framework"
)

func init() {
	env.SetupFlags()
}

// run serves commands until ctx is done. Servos are centered on return.
func run(ctx context.Context, conf *env.Config) error {
	e, err := conf.NewEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	err = fx.NewLoop().Add(e).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	flag.Parse()

	runner := fx.NewRunner().HandleSignals()
	err := run(runner.Context, env.NewConfig())
	if err != nil {
		glog.Error(err)
	}
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
