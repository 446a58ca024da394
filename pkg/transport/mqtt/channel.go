package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/command"
	"github.com/robotalks/toyctl/pkg/controller"
	fx "github.com/robotalks/toyctl/pkg/framework"
	"github.com/robotalks/toyctl/pkg/msgs"
	"github.com/robotalks/toyctl/pkg/servo"
)

// Topics under the controller name.
const (
	TopicMeta      = "meta"
	TopicState     = "state"
	TopicAck       = "ack"
	TopicCmdText   = "cmd/text"
	TopicCmdFrame  = "cmd/frame"
	inputQueueSize = 64
)

// Meta describes the controller, published retained on the meta topic.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Layout      servo.Layout      `json:"layout"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Channel receives commands from and publishes state to topics
// under <prefix><name>/.
type Channel struct {
	Queue *Queue
	Name  string
	Meta  Meta

	metaJSON []byte
	inputs   chan *controller.Input
}

// NewChannel creates a Channel. name is usually <type>/<id>.
func NewChannel(brokerURL, name string, meta Meta) (*Channel, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	// meta is cleared by the broker when the controller goes away.
	opts.SetBinaryWill(topicPrefix+name+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("toyctl:" + name)
	}
	c := &Channel{
		Queue:    NewQueue(opts, topicPrefix),
		Name:     name,
		Meta:     meta,
		metaJSON: metaJSON,
		inputs:   make(chan *controller.Input, inputQueueSize),
	}
	c.Queue.OnConnect = func(q *Queue) {
		q.PubWith(c.topic(TopicMeta), c.metaJSON, 1, true)
	}
	c.Queue.Sub(c.topic(TopicCmdText), c.handler(func(source string, payload []byte) *controller.Input {
		return controller.NewTextInput(source, string(payload))
	}))
	c.Queue.Sub(c.topic(TopicCmdFrame), c.handler(controller.NewFrameInput))
	return c, nil
}

func (c *Channel) topic(name string) string {
	return c.Name + "/" + name
}

func (c *Channel) handler(newInput func(string, []byte) *controller.Input) Handler {
	return func(topic string, payload []byte) {
		in := newInput("mqtt:"+topic, append([]byte(nil), payload...))
		select {
		case c.inputs <- in:
		default:
			glog.Warningf("mqtt: input queue full, %s dropped", topic)
		}
	}
}

// AddToLoop implements LoopAdder.
func (c *Channel) AddToLoop(l *fx.Loop) {
	l.AddRunnable(c)
}

// String implements fmt.Stringer.
func (c *Channel) String() string {
	return "mqtt:" + c.Name
}

// Run implements Runnable.
func (c *Channel) Run(ctx context.Context) error {
	token := c.Queue.Connect()
	go func() {
		if token.Wait(); token.Error() != nil {
			glog.Errorf("mqtt connect: %v", token.Error())
		}
	}()
	defer func() {
		c.Queue.PubWith(c.topic(TopicMeta), nil, 1, true).Wait()
		c.Queue.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-c.inputs:
			res := controller.Submit(ctx, in)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Queue.Pub(c.topic(TopicAck), command.Ack(res.OK()))
		}
	}
}

// StateChanged implements controller.StateListener.
func (c *Channel) StateChanged(cc fx.ControlContext, records []servo.Record) {
	payload, err := msgs.EncodeBankState(records)
	if err != nil {
		glog.Errorf("encode state: %v", err)
		return
	}
	if !c.Queue.Client.IsConnected() {
		return
	}
	c.Queue.PubWith(c.topic(TopicState), payload, 1, true)
}
