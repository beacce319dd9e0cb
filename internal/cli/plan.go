package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/queue"
	"github.com/figscript/figscript/internal/script"
)

// Plan is a build document: an ordered list of tasks.
type Plan struct {
	Tasks []PlanTask `yaml:"tasks"`
}

// PlanTask is either a catalog reference (Entry plus Vars) or an inline
// template (Template plus Vars). ID and Name override the entry's when set.
type PlanTask struct {
	Entry    string            `yaml:"entry,omitempty"`
	ID       string            `yaml:"id,omitempty"`
	Name     string            `yaml:"name,omitempty"`
	Template string            `yaml:"template,omitempty"`
	Vars     map[string]string `yaml:"vars,omitempty"`
	Comment  string            `yaml:"comment,omitempty"`
	Helpers  []string          `yaml:"helpers,omitempty"`
}

func parsePlan(r io.Reader) (*Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan is empty")
		}
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if len(plan.Tasks) == 0 {
		return nil, fmt.Errorf("plan has no tasks")
	}
	return &plan, nil
}

// resolveTask turns a plan task into a queue task. Advisory problems are
// returned as warnings; structural problems as errors.
func resolveTask(c *catalog.Catalog, pt PlanTask) (queue.Task, []string, error) {
	entryID := strings.TrimSpace(pt.Entry)
	if entryID != "" && strings.TrimSpace(pt.Template) != "" {
		return queue.Task{}, nil, fmt.Errorf("entry %q: set either entry or template, not both", entryID)
	}

	if entryID == "" {
		return resolveInlineTask(pt)
	}

	entry, err := c.Get(entryID)
	if err != nil {
		return queue.Task{}, nil, err
	}

	var warnings []string
	for key := range pt.Vars {
		if _, ok := entry.Input(key); !ok {
			warnings = append(warnings, fmt.Sprintf("%s has no input %q", entry.ID, key))
		}
	}
	task := entry.NewTask(pt.Vars)
	for _, problem := range entry.CheckVars(task.Vars) {
		warnings = append(warnings, fmt.Sprintf("%s: %s", task.ID, problem))
	}

	if id := strings.TrimSpace(pt.ID); id != "" {
		task.ID = id
	}
	if name := strings.TrimSpace(pt.Name); name != "" {
		task.Name = name
	}
	if pt.Comment != "" {
		task.Comment = strings.TrimSpace(pt.Comment)
	}
	return task, warnings, nil
}

func resolveInlineTask(pt PlanTask) (queue.Task, []string, error) {
	if strings.TrimSpace(pt.Template) == "" {
		return queue.Task{}, nil, fmt.Errorf("task needs an entry or a template")
	}
	for _, helper := range pt.Helpers {
		if !script.Known(helper) {
			return queue.Task{}, nil, fmt.Errorf("helper %q: %w", helper, script.ErrUnknownHelper)
		}
	}

	id := strings.TrimSpace(pt.ID)
	if id == "" {
		id = uuid.NewString()
	}
	name := strings.TrimSpace(pt.Name)
	if name == "" {
		name = id
	}

	return queue.Task{
		ID:       id,
		Name:     name,
		Template: pt.Template,
		Vars:     pt.Vars,
		Comment:  strings.TrimSpace(pt.Comment),
		Helpers:  pt.Helpers,
	}, nil, nil
}
