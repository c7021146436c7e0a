package checkout

import "strings"

// UppercaseValues returns a copy of obj with every string value upper-cased,
// descending into nested objects. Arrays and non-string scalars are kept
// as they are.
func UppercaseValues(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}

	out := make(map[string]any, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case string:
			out[key] = strings.ToUpper(v)
		case map[string]any:
			out[key] = UppercaseValues(v)
		default:
			out[key] = v
		}
	}
	return out
}
