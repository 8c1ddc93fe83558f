package omv

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ClassSize is one entry in the by-size class ranking.
type ClassSize struct {
	Name       string `json:"name"`
	Properties int    `json:"properties"`
	Methods    int    `json:"methods"`
}

// Stats is the analysis report for one parsed source.
type Stats struct {
	SourceKey        string      `json:"source_key"`
	SourceFile       string      `json:"source_file"`
	Version          string      `json:"version"`
	Title            string      `json:"title"`
	SuiteCount       int         `json:"suite_count"`
	ClassCount       int         `json:"class_count"`
	RegularCount     int         `json:"regular_count"`
	EnumCount        int         `json:"enum_count"`
	PropertyCount    int         `json:"property_count"`
	MethodCount      int         `json:"method_count"`
	ParameterCount   int         `json:"parameter_count"`
	SuperclassCount  int         `json:"superclass_count"`
	PolymorphicCount int         `json:"polymorphic_count"`
	TopClasses       []ClassSize `json:"top_classes"`
}

// Analyze computes summary statistics for one parsed source.
func Analyze(payload *SourcePayload) Stats {
	stats := Stats{
		SourceKey:  payload.SourceKey,
		SourceFile: payload.SourceFile,
		Version:    payload.Version,
		Title:      payload.Title,
		SuiteCount: len(payload.Suites),
		ClassCount: len(payload.Classes),
	}

	var sizes []ClassSize
	for i := range payload.Classes {
		cls := &payload.Classes[i]
		if cls.IsEnum {
			stats.EnumCount++
		} else {
			stats.RegularCount++
			sizes = append(sizes, ClassSize{
				Name:       cls.Name,
				Properties: len(cls.Properties),
				Methods:    len(cls.Methods),
			})
		}
		stats.PropertyCount += len(cls.Properties)
		stats.MethodCount += len(cls.Methods)
		for _, m := range cls.Methods {
			stats.ParameterCount += len(m.Parameters)
		}
		if cls.SuperclassName != "" {
			stats.SuperclassCount++
		}
		for _, p := range cls.Properties {
			if strings.Contains(p.DataType, "varies") {
				stats.PolymorphicCount++
			}
		}
	}

	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Properties+sizes[i].Methods > sizes[j].Properties+sizes[j].Methods
	})
	if len(sizes) > 5 {
		sizes = sizes[:5]
	}
	stats.TopClasses = sizes
	return stats
}

// WriteReport renders the analysis report in its fixed-width form.
func WriteReport(w io.Writer, stats Stats) {
	sep := strings.Repeat("=", 55)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "  InDesign DOM Analysis Report")
	fmt.Fprintf(w, "  Source key: %s\n", stats.SourceKey)
	fmt.Fprintf(w, "  Source: %s\n", stats.SourceFile)
	fmt.Fprintf(w, "  Version: %s | Title: %s\n", stats.Version, stats.Title)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Suites:              %5d\n", stats.SuiteCount)
	fmt.Fprintf(w, "  Classes (total):     %5d\n", stats.ClassCount)
	fmt.Fprintf(w, "    Regular classes:   %5d\n", stats.RegularCount)
	fmt.Fprintf(w, "    Enumerations:      %5d\n", stats.EnumCount)
	fmt.Fprintf(w, "  Properties:          %5d\n", stats.PropertyCount)
	fmt.Fprintf(w, "  Methods:             %5d\n", stats.MethodCount)
	fmt.Fprintf(w, "  Parameters:          %5d\n", stats.ParameterCount)
	fmt.Fprintf(w, "  Superclass refs:     %5d\n", stats.SuperclassCount)
	fmt.Fprintf(w, "  Polymorphic types:   %5d\n", stats.PolymorphicCount)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "  Top classes by size:")
	for _, c := range stats.TopClasses {
		fmt.Fprintf(w, "    %-20s %4d properties, %4d methods\n", c.Name, c.Properties, c.Methods)
	}
	fmt.Fprintln(w, sep)
}
