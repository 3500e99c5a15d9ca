package grpc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "userapp/pkg/errors"
)

// toStruct encodes v through its JSON form, so field names match the REST API.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("failed to convert %T to struct: %w", v, err)
	}
	return out, nil
}

// toListValue encodes a slice through its JSON form.
func toListValue(v any) (*structpb.ListValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	out := &structpb.ListValue{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("failed to convert %T to list: %w", v, err)
	}
	return out, nil
}

// fromStruct decodes s into v, reporting shape mismatches as invalid arguments.
func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return apperrors.NewValidationError("", "request is not a valid object")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.NewValidationError("", "request does not match the expected shape: "+err.Error())
	}
	return nil
}

// maxExactNumber bounds the integers a Struct number value holds unambiguously.
const maxExactNumber = 1 << 53

// wholeNumber is an integer argument carried in a Struct. Struct numbers are
// doubles, so values beyond 2^53 must be sent as decimal strings.
type wholeNumber int64

func (n *wholeNumber) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not a 64-bit integer", s)
		}
		*n = wholeNumber(v)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("%v is not an integer", f)
	}
	if math.Abs(f) >= maxExactNumber {
		return fmt.Errorf("%v is not exact as a number, send it as a string", f)
	}
	*n = wholeNumber(f)
	return nil
}

func (n wholeNumber) int(field string) (int, error) {
	v := int(n)
	if int64(v) != int64(n) {
		return 0, apperrors.NewValidationError(field, "is out of range")
	}
	return v, nil
}

// pageRequest is the argument object of the paged calls.
type pageRequest struct {
	Query *string      `json:"q"`
	Page  *wholeNumber `json:"page"`
	Size  *wholeNumber `json:"size"`
}

func (r pageRequest) pageAndSize() (int, int, error) {
	if r.Page == nil {
		return 0, 0, apperrors.NewValidationError("page", "is required")
	}
	if r.Size == nil {
		return 0, 0, apperrors.NewValidationError("size", "is required")
	}
	page, err := r.Page.int("page")
	if err != nil {
		return 0, 0, err
	}
	size, err := r.Size.int("size")
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

// updateRequest is the argument object of UpdateUser.
type updateRequest struct {
	ID   *wholeNumber    `json:"id"`
	User json.RawMessage `json:"user"`
}
