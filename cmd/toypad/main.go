package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/client"
	fx "github.com/robotalks/toyctl/pkg/framework"
	"github.com/robotalks/toyctl/pkg/gamepad"
)

var addr = "192.168.4.1:8080"

func init() {
	if val := os.Getenv("TOYCTL_ADDR"); val != "" {
		addr = val
	}
	flag.StringVar(&addr, "addr", addr, "Controller address host:port.")
	gamepad.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := gamepad.Default().Validate(); err != nil {
		glog.Exit(err)
	}
	cli, err := client.Dial(addr)
	if err != nil {
		glog.Exitf("connect %q failed: %v", addr, err)
	}
	defer cli.Close()

	pad, err := gamepad.Default().NewPad(cli)
	if err != nil {
		glog.Exit(err)
	}
	if err := pad.Mapper.Fighter.Guard(); err != nil {
		glog.Errorf("guard failed: %v", err)
	}
	err = fx.NewRunner().HandleSignals().Go(pad).Wait()
	if err != nil {
		glog.Exit(err)
	}
}
