package svm

import "encoding/json"

// decodeJSONByteArray parses the `[12,34,...]` JSON array format
// standard SVM keypair files are stored in.
func decodeJSONByteArray(raw []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	return out, nil
}
