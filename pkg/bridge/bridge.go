// Package bridge exposes a Maestro session over MQTT.
//
// MQTT callbacks never touch the session: commands are posted into the
// control loop and executed in order on the loop goroutine, which also
// publishes replies and periodic status.
package bridge

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/maestro.go/pkg/framework"
	"github.com/robotalks/maestro.go/pkg/maestro"
)

// Meta is published retained on the meta topic while the bridge is online.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Reply reports the result of a command.
type Reply struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// Status is the periodic status report.
type Status struct {
	// Targets are cached targets in µs, null when unknown.
	Targets   []*float64 `json:"targets"`
	Positions []float64  `json:"positions"`
	Moving    bool       `json:"moving"`
	// DeviceMoving is reported by variants with a moving state query.
	DeviceMoving *bool    `json:"device_moving,omitempty"`
	Errors       []string `json:"errors"`
}

// Bridge serves commands for a Session and publishes its state.
type Bridge struct {
	Session        *maestro.Session
	Queue          *Queue
	Publisher      Publisher
	Topics         Topics
	Meta           Meta
	StatusInterval time.Duration

	lastStatus time.Time
}

// New creates a Bridge connected to the broker in conf.
func New(conf *Config, session *maestro.Session) (*Bridge, error) {
	id, err := conf.DeviceID()
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(conf.BrokerURL)
	if err != nil {
		return nil, err
	}
	topics := NewTopics(id)
	opts.SetBinaryWill(topicPrefix+topics.Meta(), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("maestro:" + id)
	}
	b := &Bridge{
		Session:        session,
		Queue:          NewQueue(opts, topicPrefix),
		Topics:         topics,
		Meta:           NewMeta(conf.Description, session.Variant),
		StatusInterval: conf.StatusInterval,
	}
	b.Publisher = b.Queue
	b.Queue.OnConnect = func(*Queue) { b.publishMeta() }
	return b, nil
}

// NewMeta describes a variant.
func NewMeta(description string, variant maestro.Variant) Meta {
	return Meta{
		Description: description,
		Labels: map[string]string{
			"variant":  variant.Name,
			"channels": strconv.Itoa(variant.Channels),
		},
	}
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	loop.AddController(b)
	loop.AddRunnable(b)
}

// Run implements Runnable. It connects the queue and forwards commands to
// the loop until ctx is done, then clears the meta topic.
func (b *Bridge) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	token := b.Queue.Connect()
	if token.Wait(); token.Error() != nil {
		return token.Error()
	}
	sub := b.Queue.Sub(b.Topics.Commands(), func(topic string, payload []byte) {
		path, ok := b.Topics.CommandPath(topic)
		if !ok {
			return
		}
		loopCtl.PostMessage(&Request{Path: path, Payload: payload})
		loopCtl.TriggerNext()
	})
	<-ctx.Done()
	if err := sub.Close(); err != nil {
		glog.Warningf("unsubscribe commands: %v", err)
	}
	b.Publisher.PubWith(b.Topics.Meta(), nil, 1, true).Wait()
	return b.Queue.Close()
}

// Control implements Controller.
func (b *Bridge) Control(cc fx.ControlContext) error {
	cc.ProcessMessages(func(msg fx.Message) bool {
		req, ok := msg.(*Request)
		if ok {
			b.Handle(req)
		}
		return ok
	})
	if b.StatusInterval > 0 && cc.Time().Sub(b.lastStatus) >= b.StatusInterval {
		b.lastStatus = cc.Time()
		return b.PublishStatus()
	}
	return nil
}

// Handle executes a request and publishes the reply.
func (b *Bridge) Handle(req *Request) {
	cmd, err := ParseCommand(req.Path, req.Payload)
	if err == nil {
		err = cmd.Execute(b.Session)
	}
	reply := Reply{Command: req.Path, OK: err == nil}
	if err != nil {
		glog.Warningf("command %s %q failed: %v", req.Path, req.Payload, err)
		reply.Error = err.Error()
	}
	b.publishJSON(b.Topics.Reply(), &reply, false)
}

// CollectStatus queries the session for a status report.
func (b *Bridge) CollectStatus() (*Status, error) {
	s := b.Session
	targets, err := s.GetTargets(0, s.Channels())
	if err != nil {
		return nil, err
	}
	status := &Status{Targets: make([]*float64, len(targets))}
	for n, t := range targets {
		if t.Known {
			us := t.Microseconds
			status.Targets[n] = &us
		}
	}
	if status.Positions, err = s.GetPositions(); err != nil {
		return nil, err
	}
	if status.Moving, err = s.AnyAreMoving(); err != nil {
		return nil, err
	}
	if s.Variant.MovingState {
		moving, err := s.ServosAreMoving()
		if err != nil {
			return nil, err
		}
		status.DeviceMoving = &moving
	}
	devErrs, err := s.GetErrors()
	if err != nil {
		return nil, err
	}
	status.Errors = devErrs.Names()
	return status, nil
}

// PublishStatus publishes the current status.
func (b *Bridge) PublishStatus() error {
	status, err := b.CollectStatus()
	if err != nil {
		return err
	}
	b.publishJSON(b.Topics.Status(), status, false)
	return nil
}

func (b *Bridge) publishMeta() {
	b.publishJSON(b.Topics.Meta(), &b.Meta, true)
}

func (b *Bridge) publishJSON(topic string, v interface{}, retain bool) {
	payload, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	qos := byte(0)
	if retain {
		qos = 1
	}
	b.Publisher.PubWith(topic, payload, qos, retain)
}
