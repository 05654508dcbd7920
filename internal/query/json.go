package query

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type envelope struct {
	Kind   Kind    `json:"kind"`
	Insert *Insert `json:"insert,omitempty"`
	Select *Select `json:"select,omitempty"`
	Create *Create `json:"create,omitempty"`
	Delete *Delete `json:"delete,omitempty"`
}

// List is a sequence of queries that serializes with kind tags.
type List []Query

// Marshal encodes a single query with its kind tag.
func Marshal(q Query) ([]byte, error) {
	env, err := wrap(q)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Unmarshal decodes a query written by Marshal.
func Unmarshal(data []byte) (Query, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return env.unwrap()
}

// MarshalJSON implements json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	out := make([]envelope, 0, len(l))
	for _, q := range l {
		env, err := wrap(q)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []envelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(List, 0, len(raw))
	for i, env := range raw {
		q, err := env.unwrap()
		if err != nil {
			return errors.Wrapf(err, "query %d", i)
		}
		out = append(out, q)
	}
	*l = out
	return nil
}

func wrap(q Query) (envelope, error) {
	switch v := q.(type) {
	case Insert:
		return envelope{Kind: KindInsert, Insert: &v}, nil
	case Select:
		return envelope{Kind: KindSelect, Select: &v}, nil
	case Create:
		return envelope{Kind: KindCreate, Create: &v}, nil
	case Delete:
		return envelope{Kind: KindDelete, Delete: &v}, nil
	default:
		return envelope{}, errors.Errorf("unsupported query type %T", q)
	}
}

func (e envelope) unwrap() (Query, error) {
	switch e.Kind {
	case KindInsert:
		if e.Insert != nil {
			return *e.Insert, nil
		}
	case KindSelect:
		if e.Select != nil {
			return *e.Select, nil
		}
	case KindCreate:
		if e.Create != nil {
			return *e.Create, nil
		}
	case KindDelete:
		if e.Delete != nil {
			return *e.Delete, nil
		}
	default:
		return nil, errors.Errorf("unknown query kind %q", e.Kind)
	}
	return nil, errors.Errorf("query kind %q has no payload", e.Kind)
}
