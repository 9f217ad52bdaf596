package event

import "encoding/json"

// DecodePayload returns the payload as T. In-process publishers pass T
// directly; payloads read back from the dead-letter file arrive as raw JSON
// or generic maps and are decoded.
func DecodePayload[T any](input any) (T, error) {
	var out T
	switch v := input.(type) {
	case T:
		return v, nil
	case json.RawMessage:
		return out, json.Unmarshal(v, &out)
	case []byte:
		return out, json.Unmarshal(v, &out)
	}
	data, err := json.Marshal(input)
	if err != nil {
		return out, err
	}
	return out, json.Unmarshal(data, &out)
}
