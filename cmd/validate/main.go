package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/versecraft/engine/pkg/engine"
	"github.com/versecraft/engine/pkg/story"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <story.json|story.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &StoryValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Story file is valid!")
}

type StoryValidator struct {
	errors   []string
	warnings []string
}

func (v *StoryValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var st *story.Story
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		st, err = story.LoadYAML(data)
	case ".json":
		st, err = story.Load(data)
	default:
		return fmt.Errorf("story file must have a .json, .yaml or .yml extension: %s", filepath.Base(filename))
	}
	if err != nil {
		return fmt.Errorf("file %s failed to parse: %w", filename, err)
	}

	v.errors = nil
	v.warnings = nil

	// Loader diagnostics are degradations, not hard failures.
	for _, d := range st.Diagnostics {
		v.addWarning(d)
	}

	v.validateStory(st)

	for _, w := range v.warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *StoryValidator) validateStory(st *story.Story) {
	if st.ID == "" {
		v.addError("story has no id")
	}
	if len(st.Sections) == 0 {
		v.addError("story has no sections")
		return
	}
	if _, ok := st.GetSection(st.StartSectionID); !ok {
		v.addError(fmt.Sprintf("start section '%s' does not exist", st.StartSectionID))
	}

	for id, sec := range st.Sections {
		v.validateSection(st, id, &sec)
	}

	v.checkReachability(st)
}

func (v *StoryValidator) validateSection(st *story.Story, id string, sec *story.Section) {
	if len(sec.Text) == 0 {
		v.addWarning(fmt.Sprintf("section '%s' has no text", id))
	}

	for i, c := range sec.Choices {
		where := fmt.Sprintf("section '%s' choice %d", id, i+1)

		if strings.TrimSpace(c.Label) == "" {
			v.addError(fmt.Sprintf("%s has an empty label", where))
		}

		if c.Destination == "" {
			if !c.ToMenu {
				v.addWarning(fmt.Sprintf("%s has no destination; the player will stay in place", where))
			}
			continue
		}
		if engine.IsReservedTarget(c.Destination) {
			continue
		}
		if _, ok := st.GetSection(c.Destination); !ok {
			if c.Destination == st.FailureSectionID() {
				v.addWarning(fmt.Sprintf("%s points at failure section '%s', which will be synthesized at runtime", where, c.Destination))
			} else {
				v.addError(fmt.Sprintf("%s points at missing section '%s'", where, c.Destination))
			}
		}

		v.validateEffects(c.Effects, where)
		v.validateRequirement(c.Requires, where)
	}
}

func (v *StoryValidator) validateEffects(effects []story.Effect, where string) {
	for _, ef := range effects {
		if ef.AddItem != nil {
			if ef.AddItem.ID == "" {
				v.addError(fmt.Sprintf("%s adds an item with no id", where))
			}
			if !story.ValidCategory(ef.AddItem.Category) {
				v.addError(fmt.Sprintf("%s adds item '%s' with unknown category '%s'", where, ef.AddItem.ID, ef.AddItem.Category))
			}
		}
		if ef.RemoveItem != nil && !story.ValidCategory(ef.RemoveItem.Category) {
			v.addError(fmt.Sprintf("%s removes item '%s' with unknown category '%s'", where, ef.RemoveItem.ID, ef.RemoveItem.Category))
		}
	}
}

func (v *StoryValidator) validateRequirement(req *story.Requirement, where string) {
	if req.IsEmpty() {
		return
	}
	if req.HasItem != nil && !story.ValidCategory(req.HasItem.Category) {
		v.addError(fmt.Sprintf("%s requires item '%s' with unknown category '%s'", where, req.HasItem.ID, req.HasItem.Category))
	}
}

// checkReachability walks the choice graph from the start section and warns
// about sections nothing points at.
func (v *StoryValidator) checkReachability(st *story.Story) {
	visited := map[string]bool{}
	queue := []string{st.StartSectionID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		sec, ok := st.GetSection(id)
		if !ok {
			continue
		}
		for _, c := range sec.Choices {
			if c.Destination == "" || engine.IsReservedTarget(c.Destination) {
				continue
			}
			queue = append(queue, c.Destination)
		}
	}

	for id := range st.Sections {
		if !visited[id] {
			v.addWarning(fmt.Sprintf("section '%s' is unreachable from the start section", id))
		}
	}
}

func (v *StoryValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *StoryValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, msg)
}
