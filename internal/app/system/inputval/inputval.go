// Package inputval validates request structs using `validate` and `label`
// struct tags.
//
// Supported rules (comma separated):
//
//	required     non-blank string, non-empty slice
//	present      the field was sent; an empty slice passes, a nil one fails
//	max=N        at most N characters (strings) or items (slices)
//	min=N        at least N characters or items
//	len=N        exactly N characters
//	oneof=a b c  value is one of the space separated options
//	email        a plain address, no display name
//	date         a calendar date in YYYY-MM-DD form (each element for []string)
//	objectid     a 24-char hex Mongo ObjectID (each element for []string)
//	digits       only ASCII digits
//
// Rules other than required and present are skipped for empty values, so optional
// fields only need the rules that apply when they are present.
package inputval

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// FieldError is one failed rule.
type FieldError struct {
	Field   string // json name of the field
	Message string
}

// Result collects field errors in declaration order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// Add appends a message for field.
func (r *Result) Add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// Has reports whether field already has an error.
func (r *Result) Has(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the first message per field, keyed by json name.
func (r *Result) Fields() map[string]string {
	out := map[string]string{}
	if r == nil {
		return out
	}
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Validate checks every exported field of the struct v (or *v) that carries
// a validate tag. Only the first failing rule per field is reported.
func Validate(v any) *Result {
	res := &Result{}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		label := sf.Tag.Get("label")
		if label == "" {
			label = sf.Name
		}
		if msg := check(rv.Field(i), tag, label); msg != "" {
			res.Add(name, msg)
		}
	}
	return res
}

func jsonName(sf reflect.StructField) string {
	if j := sf.Tag.Get("json"); j != "" {
		if n, _, _ := strings.Cut(j, ","); n != "" && n != "-" {
			return n
		}
	}
	return sf.Name
}

func check(fv reflect.Value, tag, label string) string {
	rules := strings.Split(tag, ",")
	empty := isEmpty(fv)

	for _, rule := range rules {
		name, arg, _ := strings.Cut(strings.TrimSpace(rule), "=")
		if name == "required" {
			if empty {
				return label + " is required."
			}
			continue
		}
		if name == "present" {
			if isNil(fv) {
				return label + " is required."
			}
			continue
		}
		if empty {
			continue
		}
		if msg := apply(fv, name, arg, label); msg != "" {
			return msg
		}
	}
	return ""
}

func apply(fv reflect.Value, rule, arg, label string) string {
	switch rule {
	case "max", "min", "len":
		n, err := strconv.Atoi(arg)
		if err != nil {
			panic(fmt.Sprintf("inputval: bad %s argument %q", rule, arg))
		}
		size, unit := sizeOf(fv)
		switch {
		case rule == "max" && size > n:
			return fmt.Sprintf("%s must be at most %d %s.", label, n, unit)
		case rule == "min" && size < n:
			return fmt.Sprintf("%s must be at least %d %s.", label, n, unit)
		case rule == "len" && size != n:
			return fmt.Sprintf("%s must be exactly %d %s.", label, n, unit)
		}
	case "oneof":
		opts := strings.Fields(arg)
		s := strings.TrimSpace(fv.String())
		for _, o := range opts {
			if s == o {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(opts, ", "))
	case "email":
		if !IsValidEmail(fv.String()) {
			return "A valid email address is required."
		}
	case "date":
		for _, s := range stringsOf(fv) {
			if !IsValidDate(s) {
				return fmt.Sprintf("%s must be a date in YYYY-MM-DD form.", label)
			}
		}
	case "objectid":
		for _, s := range stringsOf(fv) {
			if !IsValidObjectID(s) {
				return fmt.Sprintf("%s is not a valid id.", label)
			}
		}
	case "digits":
		for _, r := range fv.String() {
			if r < '0' || r > '9' {
				return fmt.Sprintf("%s must contain only digits.", label)
			}
		}
	default:
		panic(fmt.Sprintf("inputval: unknown rule %q", rule))
	}
	return ""
}

func isEmpty(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return strings.TrimSpace(fv.String()) == ""
	case reflect.Slice, reflect.Map:
		return fv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return fv.IsNil()
	default:
		return fv.IsZero()
	}
}

func isNil(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return fv.IsNil()
	default:
		return false
	}
}

func sizeOf(fv reflect.Value) (int, string) {
	if fv.Kind() == reflect.String {
		return utf8.RuneCountInString(strings.TrimSpace(fv.String())), "characters"
	}
	return fv.Len(), "items"
}

func stringsOf(fv reflect.Value) []string {
	if fv.Kind() == reflect.String {
		return []string{fv.String()}
	}
	out := make([]string, 0, fv.Len())
	for i := 0; i < fv.Len(); i++ {
		out = append(out, fv.Index(i).String())
	}
	return out
}

// IsValidEmail accepts a bare address (no display name) whose local part and
// domain have no leading, trailing or repeated dots. Single-label domains
// such as "localhost" are allowed.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return false
	}
	return dotsOK(local) && dotsOK(domain)
}

func dotsOK(s string) bool {
	return s != "" &&
		!strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".") &&
		!strings.Contains(s, "..")
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}
