package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed *.json
var FS embed.FS

const EduScriptV01Name = "edu_script_v0.1"

var (
	eduScriptV01Once   sync.Once
	eduScriptV01Schema map[string]any
	eduScriptV01Err    error
)

// EduScriptV01 returns the parsed lesson script schema. The map is shared and
// must not be mutated.
func EduScriptV01() (map[string]any, error) {
	eduScriptV01Once.Do(func() {
		eduScriptV01Schema, eduScriptV01Err = loadJSONSchema(EduScriptV01Name + ".json")
	})
	return eduScriptV01Schema, eduScriptV01Err
}

func loadJSONSchema(name string) (map[string]any, error) {
	b, err := FS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	return m, nil
}
