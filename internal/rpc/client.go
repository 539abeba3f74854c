package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/spinwheel/internal/wheel"
)

// Client calls spinwheel.v1.Wheel and translates replies back into wheel
// types. Status codes map onto the wheel sentinel errors.
type Client struct {
	cc      grpc.ClientConnInterface
	session string
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithSession returns a client bound to a session wheel.
func (c *Client) WithSession(id string) *Client {
	return &Client{cc: c.cc, session: id}
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	if c.session == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, SessionHeader, c.session)
}

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", wheel.ErrEmptyWheel, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", wheel.ErrNoSuchOption, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	}
	return err
}

func (c *Client) invoke(ctx context.Context, method string, in any) (wheel.OptionSet, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(c.outgoing(ctx), method, in, out); err != nil {
		return nil, fromStatus(err)
	}
	return optionsFrom(out)
}

func (c *Client) List(ctx context.Context) (wheel.OptionSet, error) {
	return c.invoke(ctx, methodListOptions, &emptypb.Empty{})
}

func (c *Client) Add(ctx context.Context, o wheel.Option) (wheel.OptionSet, error) {
	fields := map[string]any{}
	if o.Label != "" {
		fields["label"] = o.Label
	}
	if o.Weight != 0 {
		fields["weight"] = o.Weight
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, methodAddOption, in)
}

func (c *Client) update(ctx context.Context, i int, fields map[string]any) (wheel.OptionSet, error) {
	fields["index"] = i
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, methodUpdateOption, in)
}

func (c *Client) SetLabel(ctx context.Context, i int, label string) (wheel.OptionSet, error) {
	return c.update(ctx, i, map[string]any{"label": label})
}

func (c *Client) SetWeight(ctx context.Context, i, weight int) (wheel.OptionSet, error) {
	return c.update(ctx, i, map[string]any{"weight": weight})
}

func (c *Client) Increment(ctx context.Context, i int) (wheel.OptionSet, error) {
	return c.update(ctx, i, map[string]any{"op": "increment"})
}

func (c *Client) Decrement(ctx context.Context, i int) (wheel.OptionSet, error) {
	return c.update(ctx, i, map[string]any{"op": "decrement"})
}

func (c *Client) Delete(ctx context.Context, i int) (wheel.OptionSet, error) {
	in, err := structpb.NewStruct(map[string]any{"index": i})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, methodDeleteOption, in)
}

// Frame is one streamed animation frame.
type Frame struct {
	Angle    float64
	Progress float64
	Spinning bool
}

// Spin starts a spin and blocks until it ends, passing frames to onFrame
// (which may be nil). started is false when the wheel was already spinning.
func (c *Client) Spin(ctx context.Context, onFrame func(Frame)) (sel wheel.Selection, started bool, err error) {
	stream, err := c.cc.NewStream(c.outgoing(ctx), &ServiceDesc.Streams[0], methodSpin)
	if err != nil {
		return wheel.Selection{}, false, fromStatus(err)
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return wheel.Selection{}, false, fromStatus(err)
	}
	if err := stream.CloseSend(); err != nil {
		return wheel.Selection{}, false, fromStatus(err)
	}

	started = true
	got := false
	for {
		m := new(structpb.Struct)
		err := stream.RecvMsg(m)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return wheel.Selection{}, false, fromStatus(err)
		}
		f := m.GetFields()
		switch f["type"].GetStringValue() {
		case typeFrame:
			if onFrame != nil {
				onFrame(Frame{
					Angle:    f["angle"].GetNumberValue(),
					Progress: f["progress"].GetNumberValue(),
					Spinning: f["spinning"].GetBoolValue(),
				})
			}
		case typeSelection:
			sel, got = selectionFrom(m), true
		case typeIgnored:
			started = false
		}
	}
	if started && !got {
		return wheel.Selection{}, true, errors.New("spin stream ended without a selection")
	}
	return sel, started, nil
}
