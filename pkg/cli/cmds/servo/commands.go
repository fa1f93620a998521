package servo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/maestro.go/pkg/cli/sh"
	"github.com/robotalks/maestro.go/pkg/maestro"
	"github.com/robotalks/maestro.go/pkg/maestro/units"
)

type channelValue struct {
	Channel int      `json:"channel"`
	Value   *float64 `json:"value"`
}

func targetPtr(t maestro.Target) *float64 {
	if !t.Known {
		return nil
	}
	us := t.Microseconds
	return &us
}

// ParseTargets parses pairs of CH US.
func ParseTargets(args []string) (map[int]float64, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("expect pairs of CH US")
	}
	targets := make(map[int]float64, len(args)/2)
	for n := 0; n < len(args); n += 2 {
		ch, err := strconv.Atoi(args[n])
		if err != nil {
			return nil, fmt.Errorf("invalid CH %q", args[n])
		}
		us, err := strconv.ParseFloat(args[n+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid US %q", args[n+1])
		}
		targets[ch] = us
	}
	return targets, nil
}

func setRate(c *ishell.Context, set func(ch, v int) error) {
	ch, err := sh.IntArg(c, 0, "CH")
	if err != nil {
		c.Err(err)
		return
	}
	v, err := sh.IntArg(c, 1, "N")
	if err != nil {
		c.Err(err)
		return
	}
	sh.Done(c, set(ch, v))
}

var (
	// TargetCmd sets or shows the target of a channel.
	TargetCmd = ishell.Cmd{
		Name:    "target",
		Aliases: []string{"t"},
		Help:    "CH [US]",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			ch, err := sh.IntArg(c, 0, "CH")
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) > 1 {
				us, err := sh.FloatArg(c, 1, "US")
				if err != nil {
					c.Err(err)
					return
				}
				sh.Done(c, s.SetTarget(ch, us))
				return
			}
			target, err := s.GetTarget(ch)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, channelValue{Channel: ch, Value: targetPtr(target)}, "%d: %s", ch, target)
		}),
	}

	// TargetsCmd sets multiple targets or shows all targets.
	TargetsCmd = ishell.Cmd{
		Name:    "targets",
		Aliases: []string{"ts"},
		Help:    "[CH US ...]",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			if len(c.Args) > 0 {
				targets, err := ParseTargets(c.Args)
				if err != nil {
					c.Err(err)
					return
				}
				sh.Done(c, s.SetTargets(targets))
				return
			}
			targets, err := s.GetTargets(0, s.Channels())
			if err != nil {
				c.Err(err)
				return
			}
			values := make([]*float64, len(targets))
			strs := make([]string, len(targets))
			for n, t := range targets {
				values[n], strs[n] = targetPtr(t), fmt.Sprintf("%d: %s", n, t)
			}
			sh.Output(c, values, "%s", strings.Join(strs, "\n"))
		}),
	}

	// ManualCmd reads CH US pairs line by line until an empty line.
	ManualCmd = ishell.Cmd{
		Name: "manual",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			c.Println("Enter CH US pairs, empty line to finish.")
			shell := sh.ShellFrom(c)
			prompt := shell.Prompt()
			shell.SetPrompt("manual > ")
			defer shell.SetPrompt(prompt)
			for {
				line := strings.TrimSpace(c.ReadLine())
				if line == "" {
					return
				}
				targets, err := ParseTargets(strings.Fields(line))
				if err == nil {
					err = s.SetTargets(targets)
				}
				if err != nil {
					c.Println("Error:", err)
				}
			}
		}),
	}

	// PositionCmd reads the position of a channel.
	PositionCmd = ishell.Cmd{
		Name:    "position",
		Aliases: []string{"p"},
		Help:    "CH",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			ch, err := sh.IntArg(c, 0, "CH")
			if err != nil {
				c.Err(err)
				return
			}
			pos, err := s.GetPosition(ch)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, channelValue{Channel: ch, Value: &pos}, "%d: %v", ch, pos)
		}),
	}

	// PositionsCmd reads positions of all channels.
	PositionsCmd = ishell.Cmd{
		Name:    "positions",
		Aliases: []string{"ps"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			positions, err := s.GetPositions()
			if err != nil {
				c.Err(err)
				return
			}
			strs := make([]string, len(positions))
			for n, pos := range positions {
				strs[n] = fmt.Sprintf("%d: %v", n, pos)
			}
			sh.Output(c, positions, "%s", strings.Join(strs, "\n"))
		}),
	}

	// MovingCmd checks whether a channel or any channel is moving.
	MovingCmd = ishell.Cmd{
		Name:    "moving",
		Aliases: []string{"m"},
		Help:    "[CH | -device]",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			var moving bool
			var err error
			if len(c.Args) > 0 && c.Args[0] == "-device" {
				moving, err = s.ServosAreMoving()
			} else if len(c.Args) > 0 {
				var ch int
				if ch, err = sh.IntArg(c, 0, "CH"); err == nil {
					moving, err = s.IsMoving(ch)
				}
			} else {
				moving, err = s.AnyAreMoving()
			}
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, map[string]bool{"moving": moving}, "%v", moving)
		}),
	}

	// WaitCmd waits until no channel is moving.
	WaitCmd = ishell.Cmd{
		Name:    "wait",
		Aliases: []string{"w"},
		Help:    "[PERIOD]",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			var period time.Duration
			if len(c.Args) > 0 {
				var err error
				if period, err = time.ParseDuration(c.Args[0]); err != nil {
					c.Err(fmt.Errorf("invalid PERIOD: %v", err))
					return
				}
			}
			ctx, done := sh.ShellFrom(c).CommandContext()
			defer done()
			sh.Done(c, s.WaitUntilDoneMoving(ctx, period))
		}),
	}

	// SpeedCmd sets the speed limit of a channel.
	SpeedCmd = ishell.Cmd{
		Name: "speed",
		Help: "CH N (0-255, 0 unlimited)",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			setRate(c, s.SetSpeed)
		}),
	}

	// AccelCmd sets the acceleration limit of a channel.
	AccelCmd = ishell.Cmd{
		Name: "accel",
		Help: "CH N (0-255, 0 unlimited)",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			setRate(c, s.SetAcceleration)
		}),
	}

	// LimitsCmd sets or shows target limits of a channel.
	LimitsCmd = ishell.Cmd{
		Name: "limits",
		Help: "CH [MIN MAX], 0 for no bound",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			ch, err := sh.IntArg(c, 0, "CH")
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) == 1 {
				limits, err := s.GetLimits(ch)
				if err != nil {
					c.Err(err)
					return
				}
				sh.Output(c, limits, "%d: %s", ch, limits)
				return
			}
			min, err := sh.FloatArg(c, 1, "MIN")
			if err != nil {
				c.Err(err)
				return
			}
			max, err := sh.FloatArg(c, 2, "MAX")
			if err != nil {
				c.Err(err)
				return
			}
			limits := units.Limits{Min: min, Max: max, HasMin: min > 0, HasMax: max > 0}
			sh.Done(c, s.SetLimits(ch, limits))
		}),
	}

	// StopCmd stops one or all channels.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"s"},
		Help:    "[CH]",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			if len(c.Args) == 0 {
				sh.Done(c, s.Stop())
				return
			}
			ch, err := sh.IntArg(c, 0, "CH")
			if err != nil {
				c.Err(err)
				return
			}
			sh.Done(c, s.StopChannel(ch))
		}),
	}

	// HomeCmd sends all channels home.
	HomeCmd = ishell.Cmd{
		Name: "home",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			sh.Done(c, s.GoHome())
		}),
	}
)

func init() {
	sh.AddCmds(
		&TargetCmd,
		&TargetsCmd,
		&ManualCmd,
		&PositionCmd,
		&PositionsCmd,
		&MovingCmd,
		&WaitCmd,
		&SpeedCmd,
		&AccelCmd,
		&LimitsCmd,
		&StopCmd,
		&HomeCmd,
	)
}
