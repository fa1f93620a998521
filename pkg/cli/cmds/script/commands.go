package script

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/maestro.go/pkg/cli/sh"
	"github.com/robotalks/maestro.go/pkg/maestro"
)

type scriptStatus struct {
	Running bool   `json:"running"`
	Last    string `json:"last,omitempty"`
}

var (
	// RunCmd restarts the script at a subroutine.
	RunCmd = ishell.Cmd{
		Name:    "script.run",
		Aliases: []string{"run"},
		Help:    "SUB [PARAM]",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			sub, err := sh.IntArg(c, 0, "SUB")
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) < 2 {
				sh.Done(c, s.RunScriptSubroutine(sub))
				return
			}
			param, err := sh.IntArg(c, 1, "PARAM")
			if err != nil {
				c.Err(err)
				return
			}
			sh.Done(c, s.RunScriptSubroutineWithParameter(sub, param))
		}),
	}

	// StopCmd stops the script.
	StopCmd = ishell.Cmd{
		Name: "script.stop",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			sh.Done(c, s.StopScript())
		}),
	}

	// StatusCmd shows whether the script is running.
	StatusCmd = ishell.Cmd{
		Name: "script.status",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			running, err := s.ScriptIsRunning()
			if err != nil {
				c.Err(err)
				return
			}
			status := scriptStatus{Running: running}
			text := "stopped"
			if running {
				text = "running"
			}
			if call, ok := s.LastScriptCall(); ok {
				status.Last = call.String()
				text += fmt.Sprintf(" (last: %s)", call)
			}
			sh.Output(c, status, "%s", text)
		}),
	}

	// ErrorsCmd reads and clears the device error register.
	ErrorsCmd = ishell.Cmd{
		Name:    "errors",
		Aliases: []string{"e"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			errs, err := s.GetErrors()
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, map[string][]string{"errors": errs.Names()}, "%s", errs)
		}),
	}
)

func init() {
	sh.AddCmds(
		&RunCmd,
		&StopCmd,
		&StatusCmd,
		&ErrorsCmd,
	)
}
