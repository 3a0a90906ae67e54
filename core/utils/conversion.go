package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToString converts a decoded JSON value to its string form.
// Numbers keep their integer form (5432, not 5432.000000 or 5.432e+03) and
// nil becomes the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
