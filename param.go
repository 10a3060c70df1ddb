package csvsplit

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder is replaced by the group label in the splitter's output path.
const Placeholder = "{group}"

// GroupSpec selects the column the splitter matches and the pattern it runs.
type GroupSpec struct {
	Column  string
	Pattern *regexp.Regexp
}

// ParseGroupSpec parses "<column>:<pattern>". The first colon separates the
// two parts, so the pattern itself may contain colons. The pattern must have
// at least one capturing group.
func ParseGroupSpec(spec string) (GroupSpec, error) {
	if strings.TrimSpace(spec) == "" {
		return GroupSpec{}, fmt.Errorf("%w: --group must not be blank", ErrConfig)
	}

	column, pattern, ok := strings.Cut(spec, ":")
	if !ok {
		return GroupSpec{}, fmt.Errorf("%w: --group must be <column>:<regex>, got %q", ErrConfig, spec)
	}
	if column == "" {
		return GroupSpec{}, fmt.Errorf("%w: --group has an empty column name: %q", ErrConfig, spec)
	}
	if pattern == "" {
		return GroupSpec{}, fmt.Errorf("%w: --group has an empty pattern: %q", ErrConfig, spec)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return GroupSpec{}, fmt.Errorf("%w: %w", ErrPattern, err)
	}
	if re.NumSubexp() == 0 {
		return GroupSpec{}, fmt.Errorf("%w: pattern %q has no capturing group", ErrPattern, pattern)
	}

	return GroupSpec{Column: column, Pattern: re}, nil
}

func (g GroupSpec) String() string {
	if g.Pattern == nil {
		return g.Column + ":"
	}
	return g.Column + ":" + g.Pattern.String()
}

// ColumnSpec is one projected column of the selector.
type ColumnSpec struct {
	Source string
	Output string
}

// ParseColumnSpec parses "name" or "source:output".
func ParseColumnSpec(spec string) (ColumnSpec, error) {
	if strings.TrimSpace(spec) == "" {
		return ColumnSpec{}, fmt.Errorf("%w: --column must not be blank", ErrConfig)
	}

	switch parts := strings.Split(spec, ":"); len(parts) {
	case 1:
		return ColumnSpec{Source: spec, Output: spec}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return ColumnSpec{}, fmt.Errorf("%w: --column must be <name> or <source>:<output>, got %q", ErrConfig, spec)
		}
		return ColumnSpec{Source: parts[0], Output: parts[1]}, nil
	default:
		return ColumnSpec{}, fmt.Errorf("%w: --column has more than one colon: %q", ErrConfig, spec)
	}
}

// ParseColumnSpecs parses every spec and stops at the first malformed one.
func ParseColumnSpecs(specs []string) ([]ColumnSpec, error) {
	ret := make([]ColumnSpec, 0, len(specs))
	for _, s := range specs {
		c, err := ParseColumnSpec(s)
		if err != nil {
			return nil, err
		}
		ret = append(ret, c)
	}
	return ret, nil
}

type SplitParam struct {
	Verbose          bool
	Input            string
	Output           string
	Group            GroupSpec
	RowPerOutputFile bool
	Compress         string
}

func (p SplitParam) Validate() error {
	if p.Input == "" {
		return fmt.Errorf("%w: --input is required", ErrConfig)
	}
	if p.Output == "" {
		return fmt.Errorf("%w: --output is required", ErrConfig)
	}
	if !strings.Contains(p.Output, Placeholder) {
		return fmt.Errorf("%w: --output must contain %s, got %q", ErrConfig, Placeholder, p.Output)
	}
	if p.Group.Column == "" || p.Group.Pattern == nil {
		return fmt.Errorf("%w: --group is required", ErrConfig)
	}
	if getCompressionType(p.Compress) == CompressionUnknown {
		return fmt.Errorf("%w: unknown compression type: %s", ErrConfig, p.Compress)
	}
	return nil
}

// OutputPath returns the output file for label.
func (p SplitParam) OutputPath(label string) string {
	return strings.ReplaceAll(p.Output, Placeholder, label)
}

type SelectParam struct {
	Verbose  bool
	Input    string
	Output   string
	Columns  []ColumnSpec
	Compress string
}

func (p SelectParam) Validate() error {
	if p.Input == "" {
		return fmt.Errorf("%w: --input is required", ErrConfig)
	}
	if p.Output == "" {
		return fmt.Errorf("%w: --output is required", ErrConfig)
	}
	if len(p.Columns) == 0 {
		return fmt.Errorf("%w: at least one --column is required", ErrConfig)
	}
	if getCompressionType(p.Compress) == CompressionUnknown {
		return fmt.Errorf("%w: unknown compression type: %s", ErrConfig, p.Compress)
	}
	return nil
}
