package omv

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParserVersion is recorded in db_meta so a served database can be
// traced back to the parser that built it.
const ParserVersion = "2.0.0"

// SourcePayload is the parsed form of one OMV XML source.
type SourcePayload struct {
	SourceKey  string
	SourceFile string
	Version    string
	Title      string
	Timestamp  string

	// Suites maps suite name to the class names it groups.
	Suites map[string][]string

	Classes []Class
}

// Class is one classdef: a scripting class or an enumeration.
type Class struct {
	Name            string
	SourceKey       string
	Suite           string
	IsEnum          bool
	IsDynamic       bool
	Description     string
	DescriptionLong string
	SuperclassName  string
	Properties      []PropertyDef
	Methods         []MethodDef
}

// PropertyDef is one property of a class. For enumerations the members
// appear as class-level properties whose DefaultValue carries the
// numeric value.
type PropertyDef struct {
	Name         string
	Description  string
	DataType     string
	DataTypeRef  string
	IsArray      bool
	IsReadonly   bool
	ElementType  string
	DefaultValue string
	MinValue     string
	MaxValue     string
}

// MethodDef is one method of a class.
type MethodDef struct {
	Name          string
	Description   string
	ReturnType    string
	ReturnTypeRef string
	ReturnIsArray bool
	ElementType   string
	Parameters    []ParameterDef
}

// ParameterDef is one method parameter in declaration order.
type ParameterDef struct {
	Name         string
	Description  string
	DataType     string
	DataTypeRef  string
	IsArray      bool
	IsOptional   bool
	DefaultValue string
	SortOrder    int
}

// XML document shapes. Field tags match by local name, so namespaced
// exports parse the same as plain ones.

type omvDocument struct {
	Map     *mapElement     `xml:"map"`
	Package *packageElement `xml:"package"`
}

type mapElement struct {
	Name      string     `xml:"name,attr"`
	Title     string     `xml:"title,attr"`
	Time      string     `xml:"time,attr"`
	Topicrefs []topicref `xml:"topicref"`
}

type topicref struct {
	Navtitle  string     `xml:"navtitle,attr"`
	Href      string     `xml:"href,attr"`
	Topicrefs []topicref `xml:"topicref"`
}

type packageElement struct {
	Classdefs []classdefElement `xml:"classdef"`
}

type classdefElement struct {
	Name        string           `xml:"name,attr"`
	Enumeration string           `xml:"enumeration,attr"`
	Dynamic     string           `xml:"dynamic,attr"`
	Shortdesc   *richText        `xml:"shortdesc"`
	Description *richText        `xml:"description"`
	Superclass  *richText        `xml:"superclass"`
	Elements    []elementsGroup `xml:"elements"`
}

type elementsGroup struct {
	Type       string            `xml:"type,attr"`
	Properties []propertyElement `xml:"property"`
	Methods    []methodElement   `xml:"method"`
}

type propertyElement struct {
	Name        string        `xml:"name,attr"`
	Rwaccess    string        `xml:"rwaccess,attr"`
	Shortdesc   *richText     `xml:"shortdesc"`
	Description *richText     `xml:"description"`
	Datatypes   []datatypeElement `xml:"datatype"`
}

type methodElement struct {
	Name        string            `xml:"name,attr"`
	Shortdesc   *richText         `xml:"shortdesc"`
	Description *richText         `xml:"description"`
	Datatypes   []datatypeElement `xml:"datatype"`
	Parameters  *parametersElement `xml:"parameters"`
}

type parametersElement struct {
	Parameters []parameterElement `xml:"parameter"`
}

type parameterElement struct {
	Name        string            `xml:"name,attr"`
	Optional    string            `xml:"optional,attr"`
	Shortdesc   *richText         `xml:"shortdesc"`
	Description *richText         `xml:"description"`
	Datatypes   []datatypeElement `xml:"datatype"`
}

type datatypeElement struct {
	Type  *typeElement `xml:"type"`
	Array *struct{}    `xml:"array"`
	Value *richText    `xml:"value"`
	Min   *richText    `xml:"min"`
	Max   *richText    `xml:"max"`
}

type typeElement struct {
	Varies string `xml:"varies,attr"`
	Href   string `xml:"href,attr"`
	Raw    string `xml:",innerxml"`
}

// SourceRef names one XML source to parse: a short source key ("dom",
// "javascript", "scriptui") and the file path.
type SourceRef struct {
	Key  string
	Path string
}

// ParseFile parses one OMV XML file into a SourcePayload.
func ParseFile(path, sourceKey string) (*SourcePayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("omv: reading %s: %w", path, err)
	}

	var doc omvDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("omv: parsing %s: %w", path, err)
	}
	if doc.Map == nil {
		return nil, fmt.Errorf("omv: %s: no <map> element found", path)
	}
	if doc.Package == nil {
		return nil, fmt.Errorf("omv: %s: no <package> element found", path)
	}

	suites := parseSuites(doc.Map)

	classToSuite := map[string]string{}
	for suiteName, classNames := range suites {
		for _, cn := range classNames {
			classToSuite[cn] = suiteName
		}
	}

	payload := &SourcePayload{
		SourceKey:  sourceKey,
		SourceFile: filepath.Base(path),
		Version:    doc.Map.Name,
		Title:      doc.Map.Title,
		Timestamp:  doc.Map.Time,
		Suites:     suites,
	}
	for _, classdef := range doc.Package.Classdefs {
		cls := parseClassdef(&classdef, sourceKey)
		cls.Suite = classToSuite[cls.Name]
		payload.Classes = append(payload.Classes, cls)
	}
	return payload, nil
}

// ParseSources parses multiple XML sources in order.
func ParseSources(refs []SourceRef) ([]*SourcePayload, error) {
	payloads := make([]*SourcePayload, 0, len(refs))
	for _, ref := range refs {
		p, err := ParseFile(ref.Path, ref.Key)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// parseSuites reads suite navigation from the map's nested topicrefs.
// Class references use the "#/ClassName" local href form.
func parseSuites(m *mapElement) map[string][]string {
	suites := map[string][]string{}
	for _, suiteRef := range m.Topicrefs {
		if suiteRef.Navtitle == "" {
			continue
		}
		classNames := []string{}
		for _, classRef := range suiteRef.Topicrefs {
			if strings.HasPrefix(classRef.Href, "#/") {
				classNames = append(classNames, classRef.Href[2:])
			}
		}
		suites[suiteRef.Navtitle] = classNames
	}
	return suites
}

func parseClassdef(classdef *classdefElement, sourceKey string) Class {
	short := extractText(classdef.Shortdesc)
	long := extractText(classdef.Description)

	cls := Class{
		Name:            classdef.Name,
		SourceKey:       sourceKey,
		IsEnum:          classdef.Enumeration == "true",
		IsDynamic:       classdef.Dynamic == "true",
		Description:     mergeDescriptions(short, long),
		DescriptionLong: long,
		SuperclassName:  extractText(classdef.Superclass),
	}

	for _, elements := range classdef.Elements {
		elementType := elements.Type
		if elementType == "" {
			elementType = "instance"
		}
		for _, prop := range elements.Properties {
			cls.Properties = append(cls.Properties, parseProperty(&prop, elementType))
		}
		for _, meth := range elements.Methods {
			cls.Methods = append(cls.Methods, parseMethod(&meth, elementType))
		}
	}
	return cls
}

func parseProperty(prop *propertyElement, elementType string) PropertyDef {
	short := extractText(prop.Shortdesc)
	long := extractText(prop.Description)
	dt := parseDatatypes(prop.Datatypes)

	return PropertyDef{
		Name:         prop.Name,
		Description:  mergeDescriptions(short, long),
		DataType:     dt.dataType,
		DataTypeRef:  dt.dataTypeRef,
		IsArray:      dt.isArray,
		IsReadonly:   prop.Rwaccess == "readonly",
		ElementType:  elementType,
		DefaultValue: dt.defaultValue,
		MinValue:     dt.minValue,
		MaxValue:     dt.maxValue,
	}
}

func parseMethod(meth *methodElement, elementType string) MethodDef {
	short := extractText(meth.Shortdesc)
	long := extractText(meth.Description)
	dt := parseDatatypes(meth.Datatypes)

	def := MethodDef{
		Name:          meth.Name,
		Description:   mergeDescriptions(short, long),
		ReturnType:    dt.dataType,
		ReturnTypeRef: dt.dataTypeRef,
		ReturnIsArray: dt.isArray,
		ElementType:   elementType,
	}
	if meth.Parameters != nil {
		for i, param := range meth.Parameters.Parameters {
			def.Parameters = append(def.Parameters, parseParameter(&param, i))
		}
	}
	return def
}

func parseParameter(param *parameterElement, sortOrder int) ParameterDef {
	short := extractText(param.Shortdesc)
	long := extractText(param.Description)
	description := mergeDescriptions(short, long)

	isOptional := param.Optional == "true"
	// Some exports mark optionality only in prose.
	if !isOptional && strings.Contains(description, "(Optional)") {
		isOptional = true
	}

	dt := parseDatatypes(param.Datatypes)
	return ParameterDef{
		Name:         param.Name,
		Description:  description,
		DataType:     dt.dataType,
		DataTypeRef:  dt.dataTypeRef,
		IsArray:      dt.isArray,
		IsOptional:   isOptional,
		DefaultValue: dt.defaultValue,
		SortOrder:    sortOrder,
	}
}

type datatypeInfo struct {
	dataType     string
	dataTypeRef  string
	isArray      bool
	defaultValue string
	minValue     string
	maxValue     string
}

// parseDatatypes folds one or more datatype nodes into a single union
// form: "Type1|Type2" with duplicates removed, array-ness if any branch
// is an array, and the first default/min/max seen.
func parseDatatypes(datatypes []datatypeElement) datatypeInfo {
	var info datatypeInfo
	var typeParts, refParts []string

	for _, datatype := range datatypes {
		var typeStr, typeHref string
		if datatype.Type != nil {
			typeHref = datatype.Type.Href
			if datatype.Type.Varies != "" {
				typeStr = "varies=" + datatype.Type.Varies
			} else {
				typeStr = normalizeText(datatype.Type.Raw)
			}
		}
		if typeStr != "" {
			if datatype.Array != nil {
				typeStr += "[]"
			}
			typeParts = append(typeParts, typeStr)
		}
		if typeHref != "" {
			refParts = append(refParts, normalizeTypeHref(typeHref))
		}

		info.isArray = info.isArray || datatype.Array != nil

		if info.defaultValue == "" {
			info.defaultValue = extractText(datatype.Value)
		}
		if info.minValue == "" {
			info.minValue = extractText(datatype.Min)
		}
		if info.maxValue == "" {
			info.maxValue = extractText(datatype.Max)
		}
	}

	info.dataType = strings.Join(dedupe(typeParts), "|")
	info.dataTypeRef = strings.Join(dedupe(refParts), "|")
	return info
}

func dedupe(parts []string) []string {
	seen := map[string]bool{}
	out := parts[:0]
	for _, p := range parts {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// normalizeTypeHref rewrites cross-file type references into the short
// "source:Class" form the database stores.
func normalizeTypeHref(href string) string {
	href = strings.TrimSpace(href)
	if rest, ok := strings.CutPrefix(href, "$COMMON/javascript.xml#/"); ok {
		return "javascript:" + rest
	}
	if rest, ok := strings.CutPrefix(href, "$COMMON/scriptui.xml#/"); ok {
		return "scriptui:" + rest
	}
	if rest, ok := strings.CutPrefix(href, "#/"); ok {
		return "local:" + rest
	}
	return href
}

// mergeDescriptions combines the shortdesc and description fields; the
// long form wins outright when it already begins with the short form.
func mergeDescriptions(short, long string) string {
	if short != "" && long != "" {
		if strings.HasPrefix(long, short) {
			return long
		}
		return short + "\n" + long
	}
	if short != "" {
		return short
	}
	return long
}
