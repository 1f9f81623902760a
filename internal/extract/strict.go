package extract

import (
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Strict decodes the response as JSON and resolves keys only inside the
// JSON-RPC "result" member. The key "result" names the member itself.
// Escapes are honoured and a key appearing
// outside "result" (for example in an "error" object) is never matched.
// The search is breadth first, so a shallower key beats a deeper one;
// siblings at the same depth are visited in sorted key order. Duplicate
// keys in one object resolve to the last value.
type Strict struct{}

func (Strict) Hex(buf, key string) uint64 {
	s, ok := lookup(buf, key).(string)
	if !ok || !strings.HasPrefix(s, "0x") {
		return 0
	}
	v, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0
	}
	return v
}

func (Strict) ArrayLen(buf, key string) uint32 {
	arr, ok := lookup(buf, key).([]interface{})
	if !ok {
		return 0
	}
	return uint32(len(arr))
}

func (Strict) Quoted(buf, key string) string {
	s, _ := lookup(buf, key).(string)
	return s
}

func lookup(buf, key string) interface{} {
	var env struct {
		Result jsoniter.RawMessage `json:"result"`
	}
	if err := json.UnmarshalFromString(buf, &env); err != nil || len(env.Result) == 0 {
		return nil
	}
	var result interface{}
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil
	}
	if key == "result" {
		return result
	}
	v, _ := find(result, key)
	return v
}

func find(root interface{}, key string) (interface{}, bool) {
	queue := []interface{}{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		switch n := node.(type) {
		case map[string]interface{}:
			if v, ok := n[key]; ok {
				return v, true
			}
			keys := make([]string, 0, len(n))
			for k := range n {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				queue = append(queue, n[k])
			}
		case []interface{}:
			queue = append(queue, n...)
		}
	}
	return nil, false
}
