package ui

import "time"

// FieldType selects the input rendered for a Field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPassword FieldType = "password"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
)

type Option struct {
	Value string
	Label string
}

type Field struct {
	Name        string
	Label       string
	Type        FieldType
	Value       string
	Placeholder string
	Description string
	Required    bool
	Error       string
	Options     []Option
}

type Form struct {
	Action      string
	Method      string
	Title       string
	SubmitLabel string
	CancelURL   string
	Fields      []Field
	Error       string
}

// DateValue formats t for a date input; the zero time yields "".
func DateValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// WithErrors attaches per-field messages, keyed by field name.
func (f Form) WithErrors(errs map[string]string) Form {
	fields := make([]Field, len(f.Fields))
	for i, field := range f.Fields {
		field.Error = errs[field.Name]
		fields[i] = field
	}
	f.Fields = fields
	return f
}

// WithValues fills the fields from values; password fields stay empty.
func (f Form) WithValues(values map[string]string) Form {
	fields := make([]Field, len(f.Fields))
	for i, field := range f.Fields {
		if field.Type != FieldPassword {
			if v, ok := values[field.Name]; ok {
				field.Value = v
			}
		}
		fields[i] = field
	}
	f.Fields = fields
	return f
}
