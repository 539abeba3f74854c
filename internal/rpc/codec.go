package rpc

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/spinwheel/internal/wheel"
)

// ErrInvalidArgument is a malformed request field.
var ErrInvalidArgument = errors.New("invalid argument")

// Message types in the Spin stream.
const (
	typeFrame     = "frame"
	typeSelection = "selection"
	typeIgnored   = "ignored"
)

func optionsStruct(set wheel.OptionSet) (*structpb.Struct, error) {
	rows := wheel.ViewModel(set)
	list := make([]any, len(rows))
	for i, r := range rows {
		list[i] = map[string]any{
			"label":   r.Label,
			"weight":  r.Weight,
			"percent": r.Percent,
			"color":   r.Color,
		}
	}
	return structpb.NewStruct(map[string]any{"options": list})
}

func optionsFrom(s *structpb.Struct) (wheel.OptionSet, error) {
	values := s.GetFields()["options"].GetListValue().GetValues()
	set := make(wheel.OptionSet, 0, len(values))
	for i, v := range values {
		o := v.GetStructValue()
		if o == nil {
			return nil, fmt.Errorf("%w: options[%d] is not an object", ErrInvalidArgument, i)
		}
		w, _, err := intField(o, "weight")
		if err != nil {
			return nil, err
		}
		set = append(set, wheel.Option{Label: o.GetFields()["label"].GetStringValue(), Weight: w})
	}
	return set, nil
}

// intField reads an integral number field. ok is false when it is absent.
func intField(s *structpb.Struct, key string) (int, bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false, nil
	}
	n, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, false, fmt.Errorf("%w: %s must be an integer", ErrInvalidArgument, key)
	}
	return int(n.NumberValue), true, nil
}

func stringField(s *structpb.Struct, key string) (string, bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", false, nil
	}
	str, isStr := v.GetKind().(*structpb.Value_StringValue)
	if !isStr {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrInvalidArgument, key)
	}
	return str.StringValue, true, nil
}

func frameStruct(snap wheel.Snapshot) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":     structpb.NewStringValue(typeFrame),
		"angle":    structpb.NewNumberValue(snap.Angle),
		"progress": structpb.NewNumberValue(snap.Progress),
		"spinning": structpb.NewBoolValue(snap.Spinning),
	}}
}

func selectionStruct(sel wheel.Selection) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":   structpb.NewStringValue(typeSelection),
		"index":  structpb.NewNumberValue(float64(sel.Index)),
		"label":  structpb.NewStringValue(sel.Option.Label),
		"weight": structpb.NewNumberValue(float64(sel.Option.Weight)),
		"angle":  structpb.NewNumberValue(sel.Angle),
	}}
}

func selectionFrom(s *structpb.Struct) wheel.Selection {
	f := s.GetFields()
	return wheel.Selection{
		Index: int(f["index"].GetNumberValue()),
		Option: wheel.Option{
			Label:  f["label"].GetStringValue(),
			Weight: int(f["weight"].GetNumberValue()),
		},
		Angle: f["angle"].GetNumberValue(),
	}
}
