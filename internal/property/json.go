package property

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type envelope struct {
	Kind                Kind                 `json:"kind"`
	InsertSelect        *InsertSelect        `json:"insert_select,omitempty"`
	DoubleCreateFailure *DoubleCreateFailure `json:"double_create_failure,omitempty"`
}

func wrap(p Property) (envelope, error) {
	switch v := p.(type) {
	case InsertSelect:
		return envelope{Kind: KindInsertSelect, InsertSelect: &v}, nil
	case DoubleCreateFailure:
		return envelope{Kind: KindDoubleCreateFailure, DoubleCreateFailure: &v}, nil
	default:
		return envelope{}, errors.Errorf("unsupported property type %T", p)
	}
}

// Marshal encodes a property with its kind tag.
func Marshal(p Property) ([]byte, error) {
	env, err := wrap(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// MarshalIndent is Marshal with indentation, used for case files.
func MarshalIndent(p Property) ([]byte, error) {
	env, err := wrap(p)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal decodes a property written by Marshal and checks the
// structural invariants the compiler relies on.
func Unmarshal(data []byte) (Property, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decode property")
	}
	switch env.Kind {
	case KindInsertSelect:
		if env.InsertSelect == nil {
			return nil, errors.New("insert_select property has no payload")
		}
		p := *env.InsertSelect
		if len(p.Insert.Values) == 0 {
			return nil, errors.New("insert_select property has no inserted rows")
		}
		if p.RowIndex < 0 || p.RowIndex >= len(p.Insert.Values) {
			return nil, errors.Errorf("insert_select row_index %d out of range for %d rows", p.RowIndex, len(p.Insert.Values))
		}
		return p, nil
	case KindDoubleCreateFailure:
		if env.DoubleCreateFailure == nil {
			return nil, errors.New("double_create_failure property has no payload")
		}
		return *env.DoubleCreateFailure, nil
	default:
		return nil, errors.Errorf("unknown property kind %q", env.Kind)
	}
}
