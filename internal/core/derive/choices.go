package derive

import (
	"github.com/jhipster/jhipster-go/internal/utils/naming"
)

// NoChoice is the conventional value meaning "feature disabled".
const NoChoice = "no"

// DerivedPropertiesOf explodes a choice value into boolean flags.
//
// For property "databaseType", value "sql" and choices [sql mongodb no] it yields
// databaseTypeAny=true, databaseTypeSql=true, databaseTypeMongodb=false, databaseTypeNo=false.
// List values set the flag of every contained choice.
func DerivedPropertiesOf(property string, value any, choices []string) Data {
	out := make(Data, len(choices)+1)
	out[property+"Any"] = isAny(value)
	for _, choice := range choices {
		out[property+naming.Pascal(choice)] = matches(value, choice)
	}
	return out
}

// PrepareDerivedProperties merges the derived flags of data[property] into data.
func PrepareDerivedProperties(data Data, property string, choices []string) {
	for k, v := range DerivedPropertiesOf(property, data[property], choices) {
		data[k] = v
	}
}

func isAny(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != "" && v != NoChoice
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case bool:
		return v
	default:
		return true
	}
}

func matches(value any, choice string) bool {
	switch v := value.(type) {
	case string:
		return v == choice
	case []string:
		for _, item := range v {
			if item == choice {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == choice {
				return true
			}
		}
	}
	return false
}
