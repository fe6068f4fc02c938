package entity

import (
	"strconv"
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/utils/naming"
)

var (
	dtoChoices        = []string{"mapstruct", "no"}
	serviceChoices    = []string{"serviceClass", "serviceImpl", "no"}
	paginationChoices = []string{"pagination", "infinite-scroll", "no"}
	searchChoices     = []string{"elasticsearch", "couchbase", "no"}
)

var javaTypes = map[string]string{
	"String":        "String",
	"Integer":       "Integer",
	"Long":          "Long",
	"Float":         "Float",
	"Double":        "Double",
	"BigDecimal":    "BigDecimal",
	"LocalDate":     "LocalDate",
	"Instant":       "Instant",
	"ZonedDateTime": "ZonedDateTime",
	"Duration":      "Duration",
	"UUID":          "UUID",
	"Boolean":       "Boolean",
	"Blob":          "byte[]",
	"AnyBlob":       "byte[]",
	"ImageBlob":     "byte[]",
	"TextBlob":      "String",
}

var tsTypes = map[string]string{
	"Integer":    "number",
	"Long":       "number",
	"Float":      "number",
	"Double":     "number",
	"BigDecimal": "number",
	"Boolean":    "boolean",
}

// Prepare builds the template data of e on top of the application data.
func Prepare(app derive.Data, e *Entity) derive.Data {
	data := app.Clone()

	entityClass := naming.Pascal(e.Name)
	data["entityName"] = e.Name
	data["entityClass"] = entityClass
	data["entityInstance"] = naming.LowerFirst(entityClass)
	data["entityClassPlural"] = naming.Plural(entityClass)
	data["entityInstancePlural"] = naming.Plural(naming.LowerFirst(entityClass))
	data["entityFileName"] = naming.Kebab(entityClass)
	data["entityFolderName"] = naming.Kebab(entityClass)
	data["entityUrl"] = naming.Kebab(entityClass)
	data["entityApiUrl"] = naming.Plural(naming.Kebab(entityClass))
	data["entityNameHumanized"] = naming.Humanize(entityClass)
	data["entityNamePluralHumanized"] = naming.Humanize(naming.Plural(entityClass))
	data["entityAngularName"] = entityClass + naming.UpperFirst(e.AngularJSSuffix)
	data["entityTranslationKey"] = naming.LowerFirst(entityClass)
	data["entityJavadoc"] = e.Javadoc
	data["changelogDate"] = e.ChangelogDate
	data["clientRootFolder"] = e.ClientRootFolder
	data["microserviceName"] = e.MicroserviceName
	data["readOnly"] = e.ReadOnly
	data["embedded"] = e.Embedded
	data["skipClient"] = e.SkipClient || app.Bool("skipClient")
	data["skipServer"] = e.SkipServer || app.Bool("skipServer")
	data["jpaMetamodelFiltering"] = e.JpaMetamodelFiltering
	data["fluentMethods"] = e.FluentMethods == nil || *e.FluentMethods

	tableName := e.EntityTableName
	if tableName == "" {
		tableName = naming.Snake(entityClass)
	}
	if IsReservedTableName(tableName) {
		tableName = naming.Snake(app.String("jhiPrefix")) + "_" + tableName
	}
	data["entityTableName"] = tableName

	derive.MutateData(data, derive.Overrides().
		Set("dto", orNo(e.Dto)).
		Set("service", orNo(e.Service)).
		Set("pagination", orNo(e.Pagination)).
		Set("searchEngine", orNo(e.SearchEngine)))
	derive.PrepareDerivedProperties(data, "dto", dtoChoices)
	derive.PrepareDerivedProperties(data, "service", serviceChoices)
	derive.PrepareDerivedProperties(data, "pagination", paginationChoices)
	derive.PrepareDerivedProperties(data, "searchEngine", searchChoices)

	derive.MutateData(data, derive.Overrides().
		Set("restClass", entityClass+"Resource").
		Set("repositoryClass", entityClass+"Repository").
		Func("serviceClassName", func(d derive.Data) any {
			if d.Bool("serviceServiceImpl") {
				return entityClass + "ServiceImpl"
			}
			return entityClass + "Service"
		}).
		Func("dtoClass", func(d derive.Data) any {
			if !d.Bool("dtoMapstruct") {
				return entityClass
			}
			return entityClass + d.String("dtoSuffix")
		}).
		Func("dtoInstance", func(d derive.Data) any { return naming.LowerFirst(d.String("dtoClass")) }).
		Func("persistClass", func(d derive.Data) any { return entityClass + d.String("entitySuffix") }).
		Func("primaryKeyType", func(d derive.Data) any {
			if d.Bool("databaseTypeSql") {
				return "Long"
			}
			return "String"
		}))

	fields := make([]derive.Data, 0, len(e.Fields))
	var containsLocalDate, containsInstant, containsZoned, containsBigDecimal, containsUUID, containsBlob, containsEnum bool
	var validation bool
	for _, f := range e.Fields {
		fd := PrepareField(f)
		fields = append(fields, fd)
		switch f.FieldType {
		case "LocalDate":
			containsLocalDate = true
		case "Instant":
			containsInstant = true
		case "ZonedDateTime":
			containsZoned = true
		case "BigDecimal":
			containsBigDecimal = true
		case "UUID":
			containsUUID = true
		case "Blob", "AnyBlob", "ImageBlob", "TextBlob":
			containsBlob = true
		}
		if fd.Bool("fieldIsEnum") {
			containsEnum = true
		}
		if fd.Bool("fieldValidate") {
			validation = true
		}
	}
	data["fields"] = fields
	data["fieldsContainLocalDate"] = containsLocalDate
	data["fieldsContainInstant"] = containsInstant
	data["fieldsContainZonedDateTime"] = containsZoned
	data["fieldsContainDate"] = containsLocalDate || containsInstant || containsZoned
	data["fieldsContainBigDecimal"] = containsBigDecimal
	data["fieldsContainUUID"] = containsUUID
	data["fieldsContainBlob"] = containsBlob
	data["fieldsContainEnum"] = containsEnum
	data["validation"] = validation

	relationships := make([]derive.Data, 0, len(e.Relationships))
	var containsOwnerManyToMany, containsManyToOne, containsOneToMany, required bool
	for _, r := range e.Relationships {
		rd := PrepareRelationship(r)
		relationships = append(relationships, rd)
		if rd.Bool("relationshipManyToMany") && rd.Bool("ownerSide") {
			containsOwnerManyToMany = true
		}
		if rd.Bool("relationshipManyToOne") {
			containsManyToOne = true
		}
		if rd.Bool("relationshipOneToMany") {
			containsOneToMany = true
		}
		if rd.Bool("relationshipRequired") {
			required = true
		}
	}
	data["relationships"] = relationships
	data["relationshipsContainOwnerManyToMany"] = containsOwnerManyToMany
	data["relationshipsContainManyToOne"] = containsManyToOne
	data["relationshipsContainOneToMany"] = containsOneToMany
	data["validation"] = validation || required

	return data
}

// PrepareField builds the template data of a field.
func PrepareField(f Field) derive.Data {
	data := derive.Data{
		"fieldName":                 f.FieldName,
		"fieldType":                 f.FieldType,
		"fieldNameCapitalized":      naming.UpperFirst(f.FieldName),
		"fieldNameHumanized":        naming.Humanize(f.FieldName),
		"fieldNameUnderscored":      naming.Snake(f.FieldName),
		"fieldNameKebabCase":        naming.Kebab(f.FieldName),
		"columnName":                naming.Snake(f.FieldName),
		"fieldInJavaBeanMethod":     naming.UpperFirst(f.FieldName),
		"fieldValidate":             len(f.FieldValidateRules) > 0,
		"fieldValidateRules":        f.FieldValidateRules,
		"fieldValidationRequired":   f.HasRule("required"),
		"fieldValidationUnique":     f.HasRule("unique"),
		"fieldValidateRulesPattern": f.FieldValidateRulesPattern,
		"javadoc":                   f.Javadoc,
	}
	for _, rule := range []string{"min", "max", "minlength", "maxlength", "minbytes", "maxbytes"} {
		if v := f.RuleValue(rule); v != nil {
			data["fieldValidateRules"+naming.UpperFirst(rule)] = FormatNumber(*v)
		}
	}

	isEnum := !IsBuiltInFieldType(f.FieldType)
	data["fieldIsEnum"] = isEnum
	derive.PrepareDerivedProperties(data, "fieldType", FieldTypes)
	data["fieldTypeBlobAny"] = data.Bool("fieldTypeBlob") || data.Bool("fieldTypeAnyBlob") || data.Bool("fieldTypeImageBlob") || data.Bool("fieldTypeTextBlob")
	data["fieldTypeNumeric"] = tsTypes[f.FieldType] == "number"
	data["fieldTypeTimed"] = data.Bool("fieldTypeInstant") || data.Bool("fieldTypeZonedDateTime")

	if isEnum {
		values := make([]derive.Data, 0)
		for _, v := range f.EnumValues() {
			values = append(values, derive.Data{"name": v.Name, "value": v.Value})
		}
		data["enumValues"] = values
		data["fieldJavaType"] = f.FieldType
		data["fieldTsType"] = f.FieldType
		data["enumFileName"] = naming.Kebab(f.FieldType)
	} else {
		data["fieldJavaType"] = javaTypes[f.FieldType]
		ts := tsTypes[f.FieldType]
		if ts == "" {
			ts = "string"
		}
		data["fieldTsType"] = ts
	}
	return data
}

// PrepareRelationship builds the template data of a relationship.
func PrepareRelationship(r Relationship) derive.Data {
	otherEntity := naming.Pascal(r.OtherEntityName)
	otherField := r.OtherEntityField
	if otherField == "" {
		otherField = "id"
	}
	data := derive.Data{
		"relationshipName":                  r.RelationshipName,
		"relationshipNameCapitalized":       naming.UpperFirst(r.RelationshipName),
		"relationshipNamePlural":            naming.Plural(r.RelationshipName),
		"relationshipNameCapitalizedPlural": naming.UpperFirst(naming.Plural(r.RelationshipName)),
		"relationshipNameHumanized":         naming.Humanize(r.RelationshipName),
		"relationshipFieldName":             naming.LowerFirst(r.RelationshipName),
		"relationshipFieldNamePlural":       naming.LowerFirst(naming.Plural(r.RelationshipName)),
		"otherEntityName":                   naming.LowerFirst(r.OtherEntityName),
		"otherEntityNameCapitalized":        otherEntity,
		"otherEntityNamePlural":             naming.Plural(naming.LowerFirst(r.OtherEntityName)),
		"otherEntityFileName":               naming.Kebab(otherEntity),
		"otherEntityRelationshipName":       r.OtherEntityRelationshipName,
		"otherEntityField":                  otherField,
		"otherEntityFieldCapitalized":       naming.UpperFirst(otherField),
		"otherEntityUser":                   strings.EqualFold(r.OtherEntityName, BuiltInUser),
		"ownerSide":                         r.IsOwner(),
		"relationshipRequired":              r.Required(),
		"relationshipValidate":              r.Required(),
		"useJPADerivedIdentifier":           r.UseJPADerivedIdentifier,
		"javadoc":                           r.Javadoc,
		"collection":                        r.RelationshipType == OneToMany || r.RelationshipType == ManyToMany,
		"relationshipType":                  r.RelationshipType,
	}
	for k, v := range derive.DerivedPropertiesOf("relationship", r.RelationshipType, RelationshipTypes) {
		data[k] = v
	}
	return data
}

func orNo(v string) string {
	if v == "" {
		return "no"
	}
	return v
}

// FormatNumber formats a validation argument without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
