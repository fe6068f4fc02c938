package options

import "sort"

// EntityOption maps a JDL entity option to its key in the entity JSON.
type EntityOption struct {
	// Name is the JDL keyword, e.g. "paginate".
	Name string
	// Key is the entity JSON key, e.g. "pagination".
	Key string
	// Binary options take a value ("dto * with mapstruct"); unary ones do not ("skipClient *").
	Binary bool
	// Values restricts binary values. Empty means any value.
	Values []string
	// Unary options store this value under Key.
	Set any
}

// AcceptsValue reports whether value is allowed for a binary option.
func (o EntityOption) AcceptsValue(value string) bool {
	if len(o.Values) == 0 {
		return true
	}
	for _, v := range o.Values {
		if v == value {
			return true
		}
	}
	return false
}

// JSONValue returns the value to store under Key for a binary option value.
func (o EntityOption) JSONValue(value string) any {
	if !o.Binary {
		return o.Set
	}
	return value
}

var entityOptions = []EntityOption{
	{Name: "skipClient", Key: "skipClient", Set: true},
	{Name: "skipServer", Key: "skipServer", Set: true},
	{Name: "noFluentMethod", Key: "fluentMethods", Set: false},
	{Name: "filter", Key: "jpaMetamodelFiltering", Set: true},
	{Name: "readOnly", Key: "readOnly", Set: true},
	{Name: "embedded", Key: "embedded", Set: true},
	{Name: "dto", Key: "dto", Binary: true, Values: []string{"mapstruct", "no"}},
	{Name: "service", Key: "service", Binary: true, Values: []string{"serviceClass", "serviceImpl", "no"}},
	{Name: "paginate", Key: "pagination", Binary: true, Values: []string{"pagination", "infinite-scroll", "no"}},
	{Name: "search", Key: "searchEngine", Binary: true, Values: []string{"elasticsearch", "couchbase", "no"}},
	{Name: "microservice", Key: "microserviceName", Binary: true},
	{Name: "angularSuffix", Key: "angularJSSuffix", Binary: true},
	{Name: "clientRootFolder", Key: "clientRootFolder", Binary: true},
}

// LookupEntityOption finds an entity option by JDL keyword.
func LookupEntityOption(name string) (EntityOption, bool) {
	for _, o := range entityOptions {
		if o.Name == name {
			return o, true
		}
	}
	return EntityOption{}, false
}

// EntityOptionByKey finds an entity option by entity JSON key.
func EntityOptionByKey(key string) (EntityOption, bool) {
	for _, o := range entityOptions {
		if o.Key == key {
			return o, true
		}
	}
	return EntityOption{}, false
}

// EntityOptions returns every entity option, unary ones first, each group sorted by name.
func EntityOptions() []EntityOption {
	out := append([]EntityOption(nil), entityOptions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Binary != out[j].Binary {
			return !out[i].Binary
		}
		return out[i].Name < out[j].Name
	})
	return out
}
