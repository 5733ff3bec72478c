package importer

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(ut.Translator, validator.FieldError) string { return "this field cannot be blank" },
	)
}

// ValidateCatalogSchema returns every problem found: field-level rules first,
// then cross-reference checks.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error
	if err := validate.Struct(schema); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []error{err}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fmt.Errorf("%s: %s", fieldPath(fe), fe.Translate(translator)))
		}
	}
	return append(errs, validateRefs(schema)...)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validateRefs(schema *CatalogSchema) []error {
	var errs []error
	seen := make(map[string]string)
	claim := func(prefix, ref string) {
		if ref == "" {
			return
		}
		if first, ok := seen[ref]; ok {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q (first used by %s)", prefix, ref, first))
			return
		}
		seen[ref] = prefix
	}

	topicRefs := make(map[string]bool)
	for i, t := range schema.Topics {
		prefix := fmt.Sprintf("topics[%d]", i)
		claim(prefix, t.Ref)
		topicRefs[t.Ref] = true
	}

	courseRefs := make(map[string]bool)
	for i, c := range schema.Courses {
		prefix := fmt.Sprintf("courses[%d]", i)
		claim(prefix, c.Ref)
		courseRefs[c.Ref] = true
		errs = append(errs, validateCourseRefs(prefix, c, topicRefs)...)
	}

	pathRefs := make(map[string]bool)
	for i, p := range schema.LearningPaths {
		prefix := fmt.Sprintf("learning_paths[%d]", i)
		claim(prefix, p.Ref)
		pathRefs[p.Ref] = true
		listed := make(map[string]bool)
		for _, ref := range p.CourseRefs {
			if ref != "" && !courseRefs[ref] {
				errs = append(errs, fmt.Errorf("%s.course_refs: course %q not found", prefix, ref))
			}
			if listed[ref] {
				errs = append(errs, fmt.Errorf("%s.course_refs: course %q listed twice", prefix, ref))
			}
			listed[ref] = true
		}
	}

	for i, e := range schema.Enrollments {
		if e.PathRef != "" && !pathRefs[e.PathRef] {
			errs = append(errs, fmt.Errorf("enrollments[%d].path_ref: learning path %q not found", i, e.PathRef))
		}
	}
	return errs
}

func validateCourseRefs(prefix string, c CourseImport, topicRefs map[string]bool) []error {
	var errs []error
	inCourse := make(map[string]bool, len(c.TopicRefs))
	for _, ref := range c.TopicRefs {
		if ref == "" {
			continue
		}
		if !topicRefs[ref] {
			errs = append(errs, fmt.Errorf("%s.topic_refs: topic %q not found", prefix, ref))
		}
		if inCourse[ref] {
			errs = append(errs, fmt.Errorf("%s.topic_refs: topic %q listed twice", prefix, ref))
		}
		inCourse[ref] = true
	}

	check := func(field string, rel map[string][]string) {
		for _, key := range sortedKeys(rel) {
			if !inCourse[key] {
				errs = append(errs, fmt.Errorf("%s.%s: topic %q is not in this course", prefix, field, key))
				continue
			}
			for _, ref := range rel[key] {
				switch {
				case ref == key:
					errs = append(errs, fmt.Errorf("%s.%s[%s]: topic cannot refer to itself", prefix, field, key))
				case !inCourse[ref]:
					errs = append(errs, fmt.Errorf("%s.%s[%s]: topic %q is not in this course", prefix, field, key, ref))
				}
			}
		}
	}
	check("prerequisites", c.Prerequisites)
	check("corequisites", c.Corequisites)
	return errs
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
