package sh

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/toyctl/pkg/client"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	Addr        string

	Shell    *ishell.Shell
	Client   *client.Client
	fighters map[uint8]*client.Fighter
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly bool
	addr     = "192.168.4.1:8080"

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	if val := os.Getenv("TOYCTL_ADDR"); val != "" {
		addr = val
	}
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&addr, "addr", addr, "Controller address host:port.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Addr:        addr,
		Shell:       ishell.New(),
		fighters:    make(map[uint8]*client.Fighter),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Client == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Fighter gets the fighter of a toy, keeping its punch state
// across commands.
func (s *Shell) Fighter(toy uint8) *client.Fighter {
	f := s.fighters[toy]
	if f == nil {
		f = client.NewFighter(s.Client, toy)
		s.fighters[toy] = f
	}
	return f
}

// ParseToy parses a 1-based toy number as in "toy1".
func ParseToy(arg string) (uint8, error) {
	n, err := strconv.ParseUint(arg, 10, 8)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid TOY %q, expect 1, 2, ...", arg)
	}
	return uint8(n - 1), nil
}

// Report prints the result of a command.
func Report(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

// Connect connects the controller.
func (s *Shell) Connect(addr string) error {
	cli, err := client.Dial(addr)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Client = cli
	s.Addr = addr
	s.fighters = make(map[uint8]*client.Fighter)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", addr))
	return nil
}

// Disconnect disconnects current controller.
func (s *Shell) Disconnect() {
	if s.Client != nil {
		s.Client.Close()
		s.Client = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Addr != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Addr)
		}
		if err := s.Connect(s.Addr); err != nil {
			if !s.Interactive {
				log.Fatalf("connect %q failed: %v", s.Addr, err)
			}
			s.Shell.Printf("connect %q failed: %v\n", s.Addr, err)
		}
		defer s.Disconnect()
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects a controller.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "HOST:PORT",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			target := s.Addr
			if len(c.Args) > 0 {
				target = c.Args[0]
			}
			if err := s.Connect(target); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current controller.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
