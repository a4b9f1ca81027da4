// Package preference contains the preference command group.
package preference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// Cmd is the preference command group
var Cmd = &cobra.Command{
	Use:     "preference",
	Short:   "Manage recommendation preferences",
	Long:    `Set, list, and remove the weighted preferences that bias task recommendations.`,
	Aliases: []string{"pref"},
}

// shortTypes maps CLI-friendly names to preference types.
var shortTypes = map[string]domain.PreferenceType{
	"tag":           domain.PreferenceTag,
	"category":      domain.PreferenceCategory,
	"priority":      domain.PreferencePriority,
	"time-of-day":   domain.PreferenceTimeOfDay,
	"duration":      domain.PreferenceDuration,
	"complexity":    domain.PreferenceComplexity,
	"task-type":     domain.PreferenceTaskType,
	"collaboration": domain.PreferenceCollaboration,
	"learning":      domain.PreferenceLearning,
	"custom":        domain.PreferenceCustom,
}

func parseType(arg string) (domain.PreferenceType, error) {
	if ptype, ok := shortTypes[strings.ToLower(arg)]; ok {
		return ptype, nil
	}
	// Accept the stored type names too.
	for _, ptype := range shortTypes {
		if string(ptype) == arg {
			return ptype, nil
		}
	}
	return "", fmt.Errorf("unknown preference type %q (known: %s)", arg, strings.Join(typeNames(), ", "))
}

func typeNames() []string {
	names := make([]string, 0, len(shortTypes))
	for name := range shortTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(clearCmd)
}
