package modules

import (
	"fmt"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// fromGo converts a decoded Go value (from encoding/json.Unmarshal or
// yaml.Unmarshal's interface{} output) into a runtime.Value, grounded on
// the teacher's internal/evaluator/builtins_yaml.go inferFromYaml /
// builtins.go inferFromJson pattern, generalized to also accept yaml.v3's
// map[string]interface{} keys (json.Unmarshal never produces
// map[interface{}]interface{}, only yaml.v3 does).
func fromGo(v interface{}) (runtime.Value, error) {
	switch val := v.(type) {
	case nil:
		return runtime.Null, nil
	case bool:
		return runtime.Bool(val), nil
	case int:
		return runtime.Int(val), nil
	case int64:
		return runtime.Int(val), nil
	case float64:
		if val == float64(int64(val)) {
			return runtime.Int(int64(val)), nil
		}
		return runtime.Float(val), nil
	case string:
		return runtime.Str(val), nil
	case []interface{}:
		elems := make([]runtime.Value, len(val))
		for i, item := range val {
			conv, err := fromGo(item)
			if err != nil {
				return nil, err
			}
			elems[i] = conv
		}
		return runtime.NewList(elems, typesystem.TAny), nil
	case map[string]interface{}:
		obj := runtime.NewObject()
		for k, item := range val {
			conv, err := fromGo(item)
			if err != nil {
				return nil, err
			}
			obj.Properties[k] = conv
		}
		return obj, nil
	case map[interface{}]interface{}:
		obj := runtime.NewObject()
		for k, item := range val {
			conv, err := fromGo(item)
			if err != nil {
				return nil, err
			}
			obj.Properties[fmt.Sprintf("%v", k)] = conv
		}
		return obj, nil
	}
	return nil, fmt.Errorf("unsupported decoded value type: %T", v)
}

// toGo converts a runtime.Value back into a plain Go value suitable for
// encoding/json.Marshal or yaml.Marshal, the inverse of fromGo.
func toGo(v runtime.Value) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case runtime.Bool:
		return bool(val), nil
	case runtime.Int:
		return int64(val), nil
	case runtime.Float:
		return float64(val), nil
	case runtime.Str:
		return string(val), nil
	case *runtime.List:
		elems := val.Get()
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			conv, err := toGo(e)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case *runtime.Map:
		out := map[string]interface{}{}
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			conv, err := toGo(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	case *runtime.Object:
		out := map[string]interface{}{}
		for k, item := range val.Properties {
			conv, err := toGo(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	case *runtime.ClassInstance:
		out := map[string]interface{}{}
		for k, item := range val.Properties() {
			conv, err := toGo(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	}
	if runtime.IsNull(v) {
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported value type for encoding: %s", runtime.TypeOfName(v))
}
