package pins

import (
	"github.com/abiosoft/ishell"

	"github.com/robotalks/maestro.go/pkg/cli/sh"
	"github.com/robotalks/maestro.go/pkg/maestro"
)

type analogValue struct {
	Channel int     `json:"channel"`
	Volts   float64 `json:"volts"`
}

type digitalValue struct {
	Channel int  `json:"channel"`
	High    bool `json:"high"`
}

var (
	// PWMCmd sets the PWM output.
	PWMCmd = ishell.Cmd{
		Name: "pwm",
		Help: "ON(us) PERIOD(us)",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			on, err := sh.FloatArg(c, 0, "ON")
			if err != nil {
				c.Err(err)
				return
			}
			period, err := sh.FloatArg(c, 1, "PERIOD")
			if err != nil {
				c.Err(err)
				return
			}
			sh.Done(c, s.SetPWM(on, period))
		}),
	}

	// AnalogCmd reads an analog input.
	AnalogCmd = ishell.Cmd{
		Name:    "analog",
		Aliases: []string{"ai"},
		Help:    "CH",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			ch, err := sh.IntArg(c, 0, "CH")
			if err != nil {
				c.Err(err)
				return
			}
			volts, err := s.GetAnalog(ch)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, analogValue{Channel: ch, Volts: volts}, "%d: %.3fV", ch, volts)
		}),
	}

	// DigitalCmd reads a digital input or drives a digital output.
	DigitalCmd = ishell.Cmd{
		Name:    "digital",
		Aliases: []string{"di"},
		Help:    "CH [0|1]",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *maestro.Session) {
			ch, err := sh.IntArg(c, 0, "CH")
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) > 1 {
				level, err := sh.IntArg(c, 1, "LEVEL")
				if err != nil {
					c.Err(err)
					return
				}
				sh.Done(c, s.SetDigital(ch, level != 0))
				return
			}
			high, err := s.GetDigital(ch)
			if err != nil {
				c.Err(err)
				return
			}
			level := 0
			if high {
				level = 1
			}
			sh.Output(c, digitalValue{Channel: ch, High: high}, "%d: %d", ch, level)
		}),
	}
)

func init() {
	sh.AddCmds(
		&PWMCmd,
		&AnalogCmd,
		&DigitalCmd,
	)
}
