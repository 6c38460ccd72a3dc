package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/types"
	"github.com/go-viper/mapstructure/v2"
)

var policyType = reflect.TypeOf(types.PolicyAsk)

// policyHookFunc decodes "True"/"False"/"None" and native booleans into a
// types.Policy
func policyHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != policyType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return types.ParsePolicy(v)
		case bool:
			if v {
				return types.PolicyAlways, nil
			}
			return types.PolicyNever, nil
		case nil:
			return types.PolicyAsk, nil
		case types.Policy:
			return v, nil
		}
		return nil, fmt.Errorf("invalid policy %v: expected True, False or None", data)
	}
}

// listHookFunc splits comma separated strings into trimmed, non-empty items
func listHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.String {
			return data, nil
		}
		return splitList(reflect.ValueOf(data).String()), nil
	}
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
