package ingest

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

func ParseJSON(name string, data []byte) (ParsedFile, error) {
	var t types.Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return ParsedFile{Name: name}, err
	}
	return ParsedFile{Name: name, Topology: t}, nil
}

func ParseYAML(name string, data []byte) (ParsedFile, error) {
	var t types.Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return ParsedFile{Name: name}, err
	}
	return ParsedFile{Name: name, Topology: t}, nil
}
