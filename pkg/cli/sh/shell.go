package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/maestro.go/pkg/maestro"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *maestro.Config
	Session *maestro.Session

	prompt string

	cancelLock sync.Mutex
	cancel     context.CancelFunc
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}

	errNotConnected = errors.New("not connected")
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *maestro.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.Interrupt(s.handleInterrupt)
	s.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connected session.
func MustBeConnected(fn func(c *ishell.Context, s *maestro.Session)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		session := ShellFrom(c).Session
		if session == nil {
			c.Err(errNotConnected)
			return
		}
		fn(c, session)
	}
}

// Output prints v as JSON with -json, otherwise the formatted text.
func Output(c *ishell.Context, v interface{}, format string, args ...interface{}) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Printf(format+"\n", args...)
}

// Done reports the result of a command without output.
func Done(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	Output(c, map[string]bool{"ok": true}, "OK")
}

// IntArg parses the n-th argument as an integer.
func IntArg(c *ishell.Context, n int, name string) (int, error) {
	if n >= len(c.Args) {
		return 0, fmt.Errorf("%s required", name)
	}
	v, err := strconv.Atoi(c.Args[n])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

// FloatArg parses the n-th argument as a float.
func FloatArg(c *ishell.Context, n int, name string) (float64, error) {
	if n >= len(c.Args) {
		return 0, fmt.Errorf("%s required", name)
	}
	v, err := strconv.ParseFloat(c.Args[n], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// SetPrompt sets the shell prompt.
func (s *Shell) SetPrompt(prompt string) {
	s.prompt = prompt
	s.Shell.SetPrompt(prompt)
}

// Prompt gets the shell prompt.
func (s *Shell) Prompt() string {
	return s.prompt
}

// CommandContext creates the context of a long running command. It is
// canceled by Interrupt or Ctrl-C, and must be released with the returned
// func.
func (s *Shell) CommandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	s.cancelLock.Lock()
	s.cancel = cancel
	s.cancelLock.Unlock()
	return ctx, func() {
		s.cancelLock.Lock()
		s.cancel = nil
		s.cancelLock.Unlock()
		cancel()
	}
}

// Interrupt cancels the running command. It returns false if no command
// is running.
func (s *Shell) Interrupt() bool {
	s.cancelLock.Lock()
	defer s.cancelLock.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

func (s *Shell) handleInterrupt(c *ishell.Context, count int, input string) {
	if s.Interrupt() {
		return
	}
	if count >= 2 {
		c.Println("Interrupted")
		s.Disconnect()
		os.Exit(1)
	}
	c.Println("Input Ctrl-c once more to exit")
}

// Connect opens a session using the config, replacing the current one.
func (s *Shell) Connect(conf *maestro.Config) error {
	session, err := conf.Open()
	if err != nil {
		return err
	}
	s.Attach(session, conf.Address)
	return nil
}

// Attach makes session the current session.
func (s *Shell) Attach(session *maestro.Session, address string) {
	s.Disconnect()
	s.Session = session
	s.SetPrompt(fmt.Sprintf("%s@%s > ", session.Variant, address))
}

// Disconnect closes the current session.
func (s *Shell) Disconnect() error {
	if s.Session == nil {
		return nil
	}
	err := s.Session.Close()
	s.Session = nil
	s.SetPrompt(unconnectedPrompt)
	return err
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect {
		if err := s.Connect(s.Config); err != nil {
			if !s.Interactive {
				log.Fatalf("connect %s failed: %v", s.Config.Address, err)
			}
			s.Shell.Printf("connect %s failed: %v\n", s.Config.Address, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			s.Disconnect()
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Println("command expected")
}

var (
	// ConnectCmd opens a session.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[VARIANT [PORT]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			conf := *s.Config
			if len(c.Args) > 0 {
				conf.Variant = c.Args[0]
			}
			if len(c.Args) > 1 {
				conf.Address = c.Args[1]
			}
			Done(c, s.Connect(&conf))
		},
	}

	// DisconnectCmd stops all channels and closes the session.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			Done(c, ShellFrom(c).Disconnect())
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(maestro.Default()).WithAutoConnect(true).Run(flag.Args()...)
}
