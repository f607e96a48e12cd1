package services

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrEmptyPlan is returned when a skill plan has no entries.
var ErrEmptyPlan = errors.New("skill plan is empty")

// SkillRequirement is one "<skill name> <level>" line of a skill plan.
type SkillRequirement struct {
	Name  string `validate:"required,max=100"`
	Level int    `validate:"min=1,max=5"`
}

var romanLevels = map[string]int{"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5}

// ParseSkillPlan reads one requirement per line. Levels may be arabic or roman
// numerals. Repeated skills keep the highest level.
func ParseSkillPlan(text string) (map[string]int, error) {
	plan := make(map[string]int)
	sc := bufio.NewScanner(strings.NewReader(text))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		req, err := parseRequirement(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if req.Level > plan[req.Name] {
			plan[req.Name] = req.Level
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		return nil, ErrEmptyPlan
	}
	return plan, nil
}

func parseRequirement(line string) (SkillRequirement, error) {
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return SkillRequirement{}, fmt.Errorf("missing level in %q", line)
	}
	name, raw := strings.TrimSpace(line[:i]), line[i+1:]
	level, ok := romanLevels[strings.ToUpper(raw)]
	if !ok {
		var err error
		if level, err = strconv.Atoi(raw); err != nil {
			return SkillRequirement{}, fmt.Errorf("invalid level %q", raw)
		}
	}
	req := SkillRequirement{Name: name, Level: level}
	if err := validate.Struct(req); err != nil {
		return SkillRequirement{}, fmt.Errorf("invalid requirement %q: %w", line, err)
	}
	return req, nil
}

// ParseFitting extracts the distinct item names of an EFT fitting, hull first.
// Empty slot markers, quantities and loaded charges are dropped.
func ParseFitting(text string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			inner := line[1 : len(line)-1]
			if strings.HasPrefix(strings.ToLower(inner), "empty ") {
				continue
			}
			hull, _, _ := strings.Cut(inner, ",")
			add(hull)
		default:
			item, _, _ := strings.Cut(line, ",")
			if i := strings.LastIndex(item, " x"); i > 0 {
				if _, err := strconv.Atoi(item[i+2:]); err == nil {
					item = item[:i]
				}
			}
			add(item)
		}
	}
	return names
}
