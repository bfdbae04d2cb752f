package tools

import (
	"fmt"
	"sort"

	"fuelyt/store"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates a new tool registry with every coaching tool wired
// to the given record store.
func NewRegistry(records store.RecordStore) (*Registry, error) {
	all := []Tool{
		NewLogWorkout(records),
		NewLogMeal(records),
		NewCreateOrUpdateGoal(records),
		NewUpdateUserProfile(records),
		NewScheduleWorkout(records),
		NewScheduleMeal(records),
		NewGetSchedule(records),
		NewGetNutritionTargets(records),
	}

	tools := make(map[string]Tool, len(all))
	for _, t := range all {
		if t.Name() == "" {
			return nil, fmt.Errorf("tool %T has an empty name", t)
		}
		if _, dup := tools[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		tools[t.Name()] = t
	}

	registry := Registry(tools)
	return &registry, nil
}

// GetTools returns all tools in the registry, ordered by name.
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
