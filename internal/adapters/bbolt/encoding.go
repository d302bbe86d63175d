// Gob encoding for stored runs.
//
// Runs are dominated by match records (short strings plus three ints), where
// gob is roughly half the size of JSON and needs no custom format.
package bbolt

import (
	"bytes"
	"encoding/gob"

	"github.com/corey/acscan/internal/ports"
)

func encodeRun(run *ports.Run) ([]byte, error) {
	return encodeGob(run)
}

func decodeRun(data []byte) (*ports.Run, error) {
	var run ports.Run
	if err := decodeGob(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func encodeInfo(info ports.RunInfo) ([]byte, error) {
	return encodeGob(info)
}

func decodeInfo(data []byte) (ports.RunInfo, error) {
	var info ports.RunInfo
	err := decodeGob(data, &info)
	return info, err
}

// encodeGob encodes a value using gob.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
