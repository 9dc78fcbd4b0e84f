// Package codec encodes task snapshots for export and import.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"taskmgr/internal/service"
)

// Snapshot holds both collections, keyed like the storage slots.
type Snapshot struct {
	Active    []service.Task `json:"activeTasks" yaml:"activeTasks" cbor:"activeTasks"`
	Completed []service.Task `json:"completedTasks" yaml:"completedTasks" cbor:"completedTasks"`
}

// Format is a snapshot encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// Formats lists the supported encodings.
var Formats = []Format{JSON, YAML, CBOR}

// ParseFormat accepts a format name, case-insensitively. "yml" is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// encMode uses Core Deterministic Encoding so a snapshot always encodes to
// the same bytes.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	return em
}()

// Marshal encodes a snapshot.
func Marshal(f Format, s Snapshot) ([]byte, error) {
	s = normalize(s)
	switch f {
	case JSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case YAML:
		return yaml.Marshal(s)
	case CBOR:
		return encMode.Marshal(s)
	default:
		return nil, fmt.Errorf("unknown format: %s", f)
	}
}

// Unmarshal decodes a snapshot. Missing collections decode as empty.
func Unmarshal(f Format, data []byte) (Snapshot, error) {
	var s Snapshot
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &s)
	case YAML:
		err = yaml.Unmarshal(data, &s)
	case CBOR:
		err = cbor.Unmarshal(data, &s)
	default:
		return Snapshot{}, fmt.Errorf("unknown format: %s", f)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode %s snapshot: %w", f, err)
	}
	return normalize(s), nil
}

func normalize(s Snapshot) Snapshot {
	if s.Active == nil {
		s.Active = []service.Task{}
	}
	if s.Completed == nil {
		s.Completed = []service.Task{}
	}
	return s
}
