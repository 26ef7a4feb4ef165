package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetHue
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"hue":   WidgetHue,
	"skip":  WidgetSkip,
}

// Field represents a component field with rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// Section is the fields of one component under its type name.
type Section struct {
	Title  string
	Fields []Field
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar"`
//	`inspect:"bar,min:-1,max:1"`
//	`inspect:"angle"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")
	widget, ok := widgetNames[strings.TrimSpace(parts[0])]
	if !ok {
		widget = WidgetAuto
	}

	for _, part := range parts[1:] {
		k, v, found := strings.Cut(strings.TrimSpace(part), ":")
		if found {
			options[k] = v
		}
	}
	return widget, options
}

// ExtractFields uses reflection to extract the exported fields of a component.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	var fields []Field
	for _, sf := range reflect.VisibleFields(v.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}

		fv := v.FieldByIndex(sf.Index)
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}

		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}
	return fields
}

// ExtractSections builds one section per component, titled by its type name.
// Nil pointers and components without visible fields are skipped.
func ExtractSections(comps ...any) []Section {
	var sections []Section
	for _, c := range comps {
		fields := ExtractFields(c)
		if len(fields) == 0 {
			continue
		}
		title := reflect.Indirect(reflect.ValueOf(c)).Type().Name()
		sections = append(sections, Section{Title: title, Fields: fields})
	}
	return sections
}

// autoDetectWidget chooses a widget based on the field type.
func autoDetectWidget(v reflect.Value) Widget {
	if v.Kind() == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// FormatValue formats a field value as a string.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// GetRange returns the min and max options, defaulting to [0, 1].
func GetRange(options map[string]string) (lo, hi float32) {
	return optFloat(options, "min", 0), optFloat(options, "max", 1)
}

func optFloat(options map[string]string, key string, def float32) float32 {
	if s, ok := options[key]; ok {
		if f, err := strconv.ParseFloat(s, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

// GetFloatValue converts any numeric kind to float32.
func GetFloatValue(value any) (float32, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return float32(v.Float()), true
	case v.CanInt():
		return float32(v.Int()), true
	case v.CanUint():
		return float32(v.Uint()), true
	}
	return 0, false
}
