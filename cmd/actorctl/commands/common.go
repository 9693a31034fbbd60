package commands

import (
	"encoding/json"
	"fmt"
)

// outputJSON prints v as indented JSON, mirroring outputJSON from the
// mail CLI's commands/common.go.
func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
