// Package servos provides shell commands moving servos.
package servos

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/toyctl/pkg/cli/sh"
	"github.com/robotalks/toyctl/pkg/client"
	"github.com/robotalks/toyctl/pkg/command"
	"github.com/robotalks/toyctl/pkg/servo"
)

func toyArg(c *ishell.Context) (uint8, bool) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("TOY required"))
		return 0, false
	}
	toy, err := sh.ParseToy(c.Args[0])
	if err != nil {
		c.Err(err)
		return 0, false
	}
	return toy, true
}

var (
	// SetCmd moves a single servo.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "TOY t1|t2|w ANGLE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("TOY ROLE ANGLE required"))
				return
			}
			toy, ok := toyArg(c)
			if !ok {
				return
			}
			role, err := servo.ParseRole(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			angle, err := strconv.Atoi(c.Args[2])
			if err != nil || angle < servo.MinAngle || angle > servo.MaxAngle {
				c.Err(fmt.Errorf("invalid ANGLE %q, expect 0-180", c.Args[2]))
				return
			}
			sh.Report(c, sh.ShellFrom(c).Client.SetServo(toy, role, angle))
		}),
	}

	// RawCmd sends a frame without checking the values, the controller
	// decides whether it's accepted.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "TOYID ROLEID ANGLE, all 0-255",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("TOYID ROLEID ANGLE required"))
				return
			}
			var frame [command.FrameSize]byte
			for n := range frame {
				val, err := strconv.ParseUint(c.Args[n], 0, 8)
				if err != nil {
					c.Err(fmt.Errorf("invalid byte %q", c.Args[n]))
					return
				}
				frame[n] = byte(val)
			}
			cmd, err := command.DecodeFrame(frame[:])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Report(c, sh.ShellFrom(c).Client.Do(cmd))
		}),
	}

	// CenterCmd centers all servos of a toy.
	CenterCmd = ishell.Cmd{
		Name: "center",
		Help: "TOY",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			toy, ok := toyArg(c)
			if !ok {
				return
			}
			cli := sh.ShellFrom(c).Client
			for _, role := range servo.Roles() {
				if err := cli.SetServo(toy, role, servo.Center); err != nil {
					c.Err(err)
					return
				}
			}
			c.Println("OK")
		}),
	}

	// GuardCmd puts a toy in guard.
	GuardCmd = ishell.Cmd{
		Name:    "guard",
		Aliases: []string{"g"},
		Help:    "TOY",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if toy, ok := toyArg(c); ok {
				sh.Report(c, sh.ShellFrom(c).Fighter(toy).Guard())
			}
		}),
	}

	// WeaveCmd leans a toy left or right.
	WeaveCmd = ishell.Cmd{
		Name:    "weave",
		Aliases: []string{"w"},
		Help:    "TOY left|right|middle",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			toy, ok := toyArg(c)
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("direction required"))
				return
			}
			dir, err := client.ParseDirection(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Report(c, sh.ShellFrom(c).Fighter(toy).Weave(dir))
		}),
	}

	// PunchCmd toggles a trigger of a toy.
	PunchCmd = ishell.Cmd{
		Name:    "punch",
		Aliases: []string{"p"},
		Help:    "TOY t1|t2",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			toy, ok := toyArg(c)
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("trigger required"))
				return
			}
			role, err := servo.ParseRole(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Report(c, sh.ShellFrom(c).Fighter(toy).Punch(role))
		}),
	}
)

func init() {
	sh.AddCmds(
		&SetCmd,
		&RawCmd,
		&CenterCmd,
		&GuardCmd,
		&WeaveCmd,
		&PunchCmd,
	)
}
