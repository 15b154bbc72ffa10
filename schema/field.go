package schema

import (
	"fmt"
	"strings"

	"github.com/tobsdb/traceeval/types"
)

// field local rules:
// - type must be one of the builtin types
// - name can't contain NUL
// - Dynamic type must have cmp and release callbacks
// - non-Dynamic types can't have callbacks
func CheckFieldRules(field *types.Field) error {
	if !field.Type.IsValid() {
		return fmt.Errorf("field(%s) has invalid type %q", field.Name, field.Type)
	}

	if strings.ContainsRune(field.Name, 0) {
		return fmt.Errorf("field(%q) name cannot contain NUL", field.Name)
	}

	if field.Type == types.FieldTypeDynamic {
		if field.Cmp == nil {
			return fmt.Errorf("field(%s) must have a cmp callback", field)
		}
		if field.Release == nil {
			return fmt.Errorf("field(%s) must have a release callback", field)
		}
	} else if field.Cmp != nil || field.Release != nil || field.Clone != nil {
		return fmt.Errorf("field(%s) cannot have dynamic callbacks", field)
	}

	return nil
}
