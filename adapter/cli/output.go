package cli

import (
	"encoding/json"
	"fmt"
)

var jsonOut bool

// OutputJSON prints v as an indented JSON envelope when --json is set.
// It reports whether it printed, so commands can skip their plain-text
// rendering.
func OutputJSON(v any) bool {
	if !jsonOut {
		return false
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf(`{"success": false, "error": %q}`+"\n", err.Error())
		return true
	}
	fmt.Println(string(data))
	return true
}
