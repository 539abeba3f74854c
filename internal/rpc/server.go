package rpc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/spinwheel/internal/log"
	"github.com/xtding233/spinwheel/internal/metrics"
	"github.com/xtding233/spinwheel/internal/session"
	"github.com/xtding233/spinwheel/internal/wheel"
)

// SessionHeader selects a session wheel. Without it calls act on the
// shared wheel.
const SessionHeader = "wheel-session"

const transport = "grpc"

type Server struct {
	Sessions *session.Registry
	// Frames paces one spin; nil means a ticker at FrameInterval.
	Frames        func() wheel.FrameSource
	FrameInterval time.Duration
}

var _ WheelServer = (*Server)(nil)

func (s *Server) controller(ctx context.Context) *wheel.Controller {
	id := session.DefaultID
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(SessionHeader); len(v) > 0 && session.Valid(v[0]) {
			id = v[0]
		}
	}
	c, _ := s.Sessions.Get(ctx, id)
	return c
}

func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wheel.ErrEmptyWheel):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, wheel.ErrNoSuchOption):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, wheel.ErrInvalidWeight), errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *Server) reply(ctrl *wheel.Controller) (*structpb.Struct, error) {
	out, err := optionsStruct(ctrl.Options())
	return out, toStatus(err)
}

func (s *Server) ListOptions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.reply(s.controller(ctx))
}

func (s *Server) AddOption(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctrl := s.controller(ctx)
	label, _, err := stringField(in, "label")
	if err != nil {
		return nil, toStatus(err)
	}
	weight, _, err := intField(in, "weight")
	if err != nil {
		return nil, toStatus(err)
	}
	if _, err := ctrl.Add(ctx, wheel.Option{Label: label, Weight: weight}); err != nil {
		return nil, toStatus(err)
	}
	metrics.OptionEditsTotal.WithLabelValues("add").Inc()
	return s.reply(ctrl)
}

func (s *Server) UpdateOption(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctrl := s.controller(ctx)
	i, ok, err := intField(in, "index")
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "index is required")
	}
	if label, ok, err := stringField(in, "label"); err != nil {
		return nil, toStatus(err)
	} else if ok {
		if err := ctrl.SetLabel(ctx, i, label); err != nil {
			return nil, toStatus(err)
		}
		metrics.OptionEditsTotal.WithLabelValues("label").Inc()
	}
	if weight, ok, err := intField(in, "weight"); err != nil {
		return nil, toStatus(err)
	} else if ok {
		if err := ctrl.SetWeight(ctx, i, weight); err != nil {
			return nil, toStatus(err)
		}
		metrics.OptionEditsTotal.WithLabelValues("weight").Inc()
	}
	op, _, err := stringField(in, "op")
	if err != nil {
		return nil, toStatus(err)
	}
	switch op {
	case "":
	case "increment":
		if err := ctrl.Increment(ctx, i); err != nil {
			return nil, toStatus(err)
		}
		metrics.OptionEditsTotal.WithLabelValues(op).Inc()
	case "decrement":
		changed, err := ctrl.Decrement(ctx, i)
		if err != nil {
			return nil, toStatus(err)
		}
		if changed {
			metrics.OptionEditsTotal.WithLabelValues(op).Inc()
		}
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown op %q", op)
	}
	return s.reply(ctrl)
}

func (s *Server) DeleteOption(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctrl := s.controller(ctx)
	i, ok, err := intField(in, "index")
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "index is required")
	}
	if err := ctrl.Delete(ctx, i); err != nil {
		return nil, toStatus(err)
	}
	metrics.OptionEditsTotal.WithLabelValues("delete").Inc()
	return s.reply(ctrl)
}

// streamSender serializes sends on one stream; listeners may fire from
// goroutines other than the handler's.
type streamSender struct {
	mu     sync.Mutex
	stream Wheel_SpinServer
	closed bool
	err    error
}

func (ss *streamSender) send(m *structpb.Struct) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.closed || ss.err != nil {
		return
	}
	ss.err = ss.stream.Send(m)
}

func (ss *streamSender) close() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.closed = true
	return ss.err
}

// Spin runs a spin on the handler goroutine. A client cancelling the call
// fast-forwards the spin; its outcome is still recorded on the wheel.
func (s *Server) Spin(_ *emptypb.Empty, stream Wheel_SpinServer) error {
	ctx := stream.Context()
	ctrl := s.controller(ctx)

	out := &streamSender{stream: stream}
	unsubscribe := ctrl.Subscribe(wheel.ListenerFuncs{
		OnRedraw: func(snap wheel.Snapshot) { out.send(frameStruct(snap)) },
		OnSelect: func(sel wheel.Selection) { out.send(selectionStruct(sel)) },
	})

	src := s.frameSource()
	if st, ok := src.(interface{ Stop() }); ok {
		defer st.Stop()
	}
	begin := time.Now()
	_, started, err := ctrl.Spin(ctx, src)
	unsubscribe()
	metrics.ObserveSpin(transport, started, err)
	if started {
		metrics.SpinSeconds.Observe(time.Since(begin).Seconds())
	}
	if err != nil {
		out.close()
		return toStatus(err)
	}
	if !started {
		out.send(&structpb.Struct{Fields: map[string]*structpb.Value{
			"type": structpb.NewStringValue(typeIgnored),
		}})
	}
	if err := out.close(); err != nil {
		log.Warn(ctx, "spin stream send failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) frameSource() wheel.FrameSource {
	if s.Frames != nil {
		return s.Frames()
	}
	interval := s.FrameInterval
	if interval <= 0 {
		interval = wheel.DefaultFrameInterval
	}
	return wheel.NewTickerFrames(interval)
}

// UnaryLogger logs each unary call with its method, code and latency, and
// hands the handler a context logger tagged with the method.
func UnaryLogger(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx = log.With(ctx, zap.String("grpc.method", info.FullMethod))
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Debug(ctx, "grpc call",
		zap.String("grpc.code", status.Code(err).String()),
		zap.Duration("elapsed", time.Since(start)))
	return resp, err
}

// StreamLogger is UnaryLogger for streams.
func StreamLogger(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)
	log.Debug(ss.Context(), "grpc stream",
		zap.String("grpc.method", info.FullMethod),
		zap.String("grpc.code", status.Code(err).String()),
		zap.Duration("elapsed", time.Since(start)))
	return err
}
