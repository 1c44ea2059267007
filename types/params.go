package types

import (
	"encoding/json"

	"github.com/juju/errors"
	"github.com/spf13/cast"
)

// Params carries executor-specific pass-through options the engine does
// not interpret.
type Params map[string]any

func (p *Params) Get(key string) (any, bool) {
	v, exists := (*p)[key]
	return v, exists
}

func (p *Params) GetString(key string) (string, bool) {
	v, exists := p.Get(key)
	return cast.ToString(v), exists
}

func (p *Params) GetInt(key string) (int, bool) {
	v, exists := p.Get(key)
	return cast.ToInt(v), exists
}

func (p *Params) GetBool(key string) (bool, bool) {
	v, exists := p.Get(key)
	return cast.ToBool(v), exists
}

func (p *Params) GetFloat64(key string) (float64, bool) {
	v, exists := p.Get(key)
	return cast.ToFloat64(v), exists
}

func (p *Params) GetStruct(key string, s any) error {
	v, exists := p.Get(key)
	if !exists {
		return errors.NotFound
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Trace(err)
	}
	return json.Unmarshal(b, s)
}

func (p *Params) Set(key string, value any) {
	(*p)[key] = value
}
