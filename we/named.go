package we

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

type Named interface {
	TypeName() string
}

// NameOf returns the namespaced name of a value. Values implementing Named
// provide their own, otherwise the name is derived from the Go type so that
// counter.IncrementByAmount becomes "counter/incrementByAmount".
func NameOf(value any) string {
	if value == nil {
		return ""
	}

	if typed, ok := value.(Named); ok == true {
		return typed.TypeName()
	}

	split := strings.Split(reflect.TypeOf(value).String(), ".")
	segments := make([]string, len(split))
	for i, segment := range split {
		segments[i] = strings.TrimLeft(segment, "*[]")
	}

	if len(segments) == 1 {
		return segments[0]
	}

	namespace := segments[0]
	name := strcase.ToLowerCamel(strings.Join(segments[1:], ""))

	return namespace + "/" + name
}
